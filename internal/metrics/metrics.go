// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordToolCreated(category string)
	RecordRequestCreated()
	RecordRequestResolved(status string)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordSignIn()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	toolsCreated    *prometheus.CounterVec
	requestsCreated prometheus.Counter
	requestsByState *prometheus.CounterVec
	httpStatus      *prometheus.CounterVec
	requestLatency  prometheus.Histogram
	signIns         prometheus.Counter
}

var _ MetricsCollector = (*Collector)(nil)

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		toolsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "toolshed_tools_created_total",
			Help: "登録された工具のカテゴリ別合計数",
		}, []string{"category"}),
		requestsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "toolshed_borrow_requests_created_total",
			Help: "作成された借用リクエストの合計数",
		}),
		requestsByState: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "toolshed_borrow_requests_resolved_total",
			Help: "応答された借用リクエストの結果別合計数",
		}, []string{"status"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "toolshed_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "toolshed_http_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		signIns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "toolshed_sign_ins_total",
			Help: "ログイン成功の合計数",
		}),
	}

	reg.MustRegister(
		c.toolsCreated,
		c.requestsCreated,
		c.requestsByState,
		c.httpStatus,
		c.requestLatency,
		c.signIns,
	)

	return c
}

// RecordToolCreated は工具登録を記録する。
func (c *Collector) RecordToolCreated(category string) {
	c.toolsCreated.WithLabelValues(category).Inc()
}

// RecordRequestCreated は借用リクエスト作成を記録する。
func (c *Collector) RecordRequestCreated() {
	c.requestsCreated.Inc()
}

// RecordRequestResolved は借用リクエストへの応答を記録する。
// statusは"approved"または"rejected"。
func (c *Collector) RecordRequestResolved(status string) {
	c.requestsByState.WithLabelValues(status).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はHTTPリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordSignIn はログイン成功を記録する。
func (c *Collector) RecordSignIn() {
	c.signIns.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

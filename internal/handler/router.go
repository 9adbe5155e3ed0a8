package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/toolshed/internal/metrics"
	"github.com/hitoshi/toolshed/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// カタログ・工具
	CatalogService CatalogServiceInterface
	ToolService    ToolServiceInterface

	// 借用リクエスト
	ReservationService ReservationServiceInterface

	// プロフィール
	ProfileService ProfileServiceInterface

	// 観測
	Logger    *slog.Logger
	Collector metrics.MetricsCollector
	Gatherer  prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Metrics → Logging →（公開ルート）
//	                       → CSRF → Session → RateLimit →（保護ルート）
//
// カタログ閲覧（/api/catalog/*）、プロフィール閲覧（GET /api/profiles/{id}）、
// 認証ルート（/auth/*）はセッション検証の外に置く。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Collector != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Collector))
	}
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.Collector)
	catalogHandler := NewCatalogHandler(deps.CatalogService)
	toolHandler := NewToolHandler(deps.ToolService, deps.Collector)
	requestHandler := NewRequestHandler(deps.ReservationService, deps.Collector)
	profileHandler := NewProfileHandler(deps.ProfileService)

	// --- 認証不要のルート ---

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if deps.Gatherer != nil {
		r.Get("/metrics", metrics.Handler(deps.Gatherer).ServeHTTP)
	}

	r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

	// 認証ルート
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Post("/signin", authHandler.SignIn)
		r.Post("/signout", authHandler.SignOut)
		r.Get("/me", authHandler.Me)
		r.Post("/password-reset", authHandler.RequestPasswordReset)
		r.Post("/password-reset/confirm", authHandler.ConfirmPasswordReset)
	})

	// カタログ閲覧は未認証でも可能
	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/", catalogHandler.ListTools)
		r.Get("/{id}", catalogHandler.GetTool)
	})
	r.Get("/api/categories", catalogHandler.ListCategories)

	// プロフィール閲覧は誰でも可能（編集は本人のみ・認証必須）
	r.Get("/api/profiles/{id}", profileHandler.GetProfile)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: CSRF → Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		// 借用リクエストの作成（カタログ配下だが認証必須）
		r.Post("/api/catalog/{id}/requests", requestHandler.CreateRequest)

		// 工具管理
		r.Route("/api/tools", func(r chi.Router) {
			// POST /api/tools - 工具登録（登録専用レート制限を追加）
			if deps.RateLimiter != nil {
				r.With(deps.RateLimiter.ToolRegistrationMiddleware()).Post("/", toolHandler.CreateTool)
			} else {
				r.Post("/", toolHandler.CreateTool)
			}
			r.Get("/", toolHandler.ListOwnedTools)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", toolHandler.UpdateTool)
				r.Put("/availability", toolHandler.SetAvailability)
				r.Delete("/", toolHandler.DeleteTool)
			})
		})

		// 借用リクエスト管理
		r.Route("/api/requests", func(r chi.Router) {
			r.Get("/incoming", requestHandler.ListIncoming)
			r.Get("/outgoing", requestHandler.ListOutgoing)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/approve", requestHandler.ApproveRequest)
				r.Post("/reject", requestHandler.RejectRequest)
			})
		})

		// プロフィール編集
		r.Put("/api/profiles/{id}", profileHandler.UpdateProfile)
	})

	return r
}

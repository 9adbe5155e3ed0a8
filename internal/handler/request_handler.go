package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/toolshed/internal/metrics"
	"github.com/hitoshi/toolshed/internal/middleware"
	"github.com/hitoshi/toolshed/internal/model"
)

// ReservationServiceInterface は借用リクエストハンドラーが必要とするサービスインターフェース。
type ReservationServiceInterface interface {
	CreateRequest(ctx context.Context, principalID, toolID string, draft model.BorrowRequestDraft) (*model.BorrowRequest, error)
	Respond(ctx context.Context, principalID, requestID string, status model.RequestStatus) (*model.BorrowRequest, error)
	ListIncoming(ctx context.Context, principalID string) ([]model.BorrowRequestWithDetails, error)
	ListOutgoing(ctx context.Context, principalID string) ([]model.BorrowRequestWithDetails, error)
}

// RequestHandler は借用リクエストのHTTPハンドラー。全エンドポイントで認証必須。
type RequestHandler struct {
	service   ReservationServiceInterface
	collector metrics.MetricsCollector
}

// NewRequestHandler はRequestHandlerを生成する。collectorはnilでもよい。
func NewRequestHandler(service ReservationServiceInterface, collector metrics.MetricsCollector) *RequestHandler {
	return &RequestHandler{
		service:   service,
		collector: collector,
	}
}

// createRequestBody は借用リクエスト作成のボディ。
type createRequestBody struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Message   string `json:"message"`
}

// requestResponse は借用リクエストのAPIレスポンス。
type requestResponse struct {
	ID          string `json:"id"`
	ToolID      string `json:"tool_id"`
	RequesterID string `json:"requester_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Message     string `json:"message,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// requestDetailsResponse は工具・申請者情報付きの借用リクエストレスポンス。
type requestDetailsResponse struct {
	requestResponse
	ToolName          string `json:"tool_name"`
	ToolCategory      string `json:"tool_category"`
	RequesterName     string `json:"requester_name"`
	RequesterLocation string `json:"requester_location,omitempty"`
}

// CreateRequest は借用リクエストを作成する。
// POST /api/catalog/{id}/requests
func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthenticated(w)
		return
	}

	toolID := chi.URLParam(r, "id")

	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	request, err := h.service.CreateRequest(r.Context(), userID, toolID, model.BorrowRequestDraft{
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
		Message:   body.Message,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordRequestCreated()
	}

	writeJSON(w, http.StatusCreated, toRequestResponse(request))
}

// ApproveRequest は借用リクエストを承認する。工具の所有者のみ実行できる。
// POST /api/requests/{id}/approve
func (h *RequestHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, model.RequestStatusApproved)
}

// RejectRequest は借用リクエストを拒否する。工具の所有者のみ実行できる。
// POST /api/requests/{id}/reject
func (h *RequestHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, model.RequestStatusRejected)
}

// respond は承認・拒否の共通処理。
func (h *RequestHandler) respond(w http.ResponseWriter, r *http.Request, status model.RequestStatus) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthenticated(w)
		return
	}

	requestID := chi.URLParam(r, "id")

	request, err := h.service.Respond(r.Context(), userID, requestID, status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordRequestResolved(string(status))
	}

	writeJSON(w, http.StatusOK, toRequestResponse(request))
}

// ListIncoming は自分の工具への借用リクエスト一覧を返す。
// GET /api/requests/incoming
func (h *RequestHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListIncoming)
}

// ListOutgoing は自分が申請した借用リクエスト一覧を返す。
// GET /api/requests/outgoing
func (h *RequestHandler) ListOutgoing(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListOutgoing)
}

// list は受信・送信一覧の共通処理。
func (h *RequestHandler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context, string) ([]model.BorrowRequestWithDetails, error)) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthenticated(w)
		return
	}

	requests, err := fetch(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]requestDetailsResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, toRequestDetailsResponse(req))
	}
	writeJSON(w, http.StatusOK, responses)
}

// toRequestResponse はmodel.BorrowRequestからAPIレスポンスに変換する。
func toRequestResponse(request *model.BorrowRequest) requestResponse {
	return requestResponse{
		ID:          request.ID,
		ToolID:      request.ToolID,
		RequesterID: request.RequesterID,
		StartDate:   request.StartDate.Format("2006-01-02"),
		EndDate:     request.EndDate.Format("2006-01-02"),
		Message:     request.Message,
		Status:      string(request.Status),
		CreatedAt:   request.CreatedAt.Format(time.RFC3339),
	}
}

// toRequestDetailsResponse は詳細付きリクエストからAPIレスポンスに変換する。
func toRequestDetailsResponse(details model.BorrowRequestWithDetails) requestDetailsResponse {
	return requestDetailsResponse{
		requestResponse:   toRequestResponse(&details.BorrowRequest),
		ToolName:          details.ToolName,
		ToolCategory:      string(details.ToolCategory),
		RequesterName:     details.RequesterName,
		RequesterLocation: details.RequesterLocation,
	}
}

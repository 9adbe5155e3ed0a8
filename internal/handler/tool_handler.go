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

// ToolServiceInterface は工具ハンドラーが必要とするサービスインターフェース。
type ToolServiceInterface interface {
	Create(ctx context.Context, principalID string, draft model.ToolDraft) (*model.Tool, error)
	Update(ctx context.Context, principalID, toolID string, draft model.ToolDraft) (*model.Tool, error)
	SetAvailability(ctx context.Context, principalID, toolID string, isAvailable bool) (*model.Tool, error)
	Delete(ctx context.Context, principalID, toolID string) error
	ListOwned(ctx context.Context, principalID string) ([]*model.Tool, error)
}

// ToolHandler は工具管理のHTTPハンドラー。全エンドポイントで認証必須。
type ToolHandler struct {
	service   ToolServiceInterface
	collector metrics.MetricsCollector
}

// NewToolHandler はToolHandlerを生成する。collectorはnilでもよい。
func NewToolHandler(service ToolServiceInterface, collector metrics.MetricsCollector) *ToolHandler {
	return &ToolHandler{
		service:   service,
		collector: collector,
	}
}

// toolDraftRequest は工具登録・更新リクエストのボディ。
type toolDraftRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	IsAvailable bool   `json:"is_available"`
}

// availabilityRequest は貸出可否切替リクエストのボディ。
type availabilityRequest struct {
	IsAvailable bool `json:"is_available"`
}

// toolResponse は工具のAPIレスポンス。
type toolResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url,omitempty"`
	IsAvailable bool   `json:"is_available"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CreateTool は工具を登録する。
// POST /api/tools
func (h *ToolHandler) CreateTool(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthenticated(w)
		return
	}

	var req toolDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	tool, err := h.service.Create(r.Context(), userID, toToolDraft(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordToolCreated(string(tool.Category))
	}

	writeJSON(w, http.StatusCreated, toToolResponse(tool))
}

// ListOwnedTools はログインユーザーが所有する工具の一覧を返す。
// GET /api/tools
func (h *ToolHandler) ListOwnedTools(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthenticated(w)
		return
	}

	tools, err := h.service.ListOwned(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]toolResponse, 0, len(tools))
	for _, t := range tools {
		responses = append(responses, toToolResponse(t))
	}
	writeJSON(w, http.StatusOK, responses)
}

// UpdateTool は工具を更新する。所有者のみ実行できる。
// PUT /api/tools/{id}
func (h *ToolHandler) UpdateTool(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthenticated(w)
		return
	}

	toolID := chi.URLParam(r, "id")

	var req toolDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	tool, err := h.service.Update(r.Context(), userID, toolID, toToolDraft(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toToolResponse(tool))
}

// SetAvailability は貸出可否フラグを切り替える。所有者のみ実行できる。
// PUT /api/tools/{id}/availability
func (h *ToolHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthenticated(w)
		return
	}

	toolID := chi.URLParam(r, "id")

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	tool, err := h.service.SetAvailability(r.Context(), userID, toolID, req.IsAvailable)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toToolResponse(tool))
}

// DeleteTool は工具を削除する。所有者のみ実行できる。
// DELETE /api/tools/{id}
func (h *ToolHandler) DeleteTool(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthenticated(w)
		return
	}

	toolID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, toolID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toToolDraft はリクエストボディからドラフトに変換する。
func toToolDraft(req toolDraftRequest) model.ToolDraft {
	return model.ToolDraft{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	}
}

// toToolResponse はmodel.ToolからAPIレスポンスに変換する。
func toToolResponse(tool *model.Tool) toolResponse {
	return toolResponse{
		ID:          tool.ID,
		OwnerID:     tool.OwnerID,
		Name:        tool.Name,
		Description: tool.Description,
		Category:    string(tool.Category),
		ImageURL:    tool.ImageURL,
		IsAvailable: tool.IsAvailable,
		CreatedAt:   tool.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   tool.UpdatedAt.Format(time.RFC3339),
	}
}

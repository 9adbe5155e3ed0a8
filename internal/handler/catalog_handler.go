package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/toolshed/internal/catalog"
	"github.com/hitoshi/toolshed/internal/model"
)

// CatalogServiceInterface はカタログハンドラーが必要とするサービスインターフェース。
type CatalogServiceInterface interface {
	// ListAvailable は貸出可能な工具を検索条件付きで返す。
	ListAvailable(ctx context.Context, query, category string) ([]catalog.ToolInfo, error)
	// GetTool は工具を所有者情報付きで取得する。
	GetTool(ctx context.Context, toolID string) (*catalog.ToolInfo, error)
}

// CatalogHandler は工具カタログのHTTPハンドラー。
// カタログは未認証でも閲覧できる。
type CatalogHandler struct {
	service CatalogServiceInterface
}

// NewCatalogHandler はCatalogHandlerを生成する。
func NewCatalogHandler(service CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// catalogToolResponse はカタログ掲載工具のAPIレスポンス。
type catalogToolResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	ImageURL      string `json:"image_url,omitempty"`
	IsAvailable   bool   `json:"is_available"`
	IsNew         bool   `json:"is_new"`
	OwnerID       string `json:"owner_id"`
	OwnerName     string `json:"owner_name"`
	OwnerLocation string `json:"owner_location,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// ListTools はカタログの工具一覧を返す。
// GET /api/catalog?q=drill&category=Power+Tools
func (h *CatalogHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	tools, err := h.service.ListAvailable(r.Context(), query, category)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]catalogToolResponse, 0, len(tools))
	for _, t := range tools {
		responses = append(responses, toCatalogToolResponse(t))
	}
	writeJSON(w, http.StatusOK, responses)
}

// GetTool は工具詳細を所有者情報付きで返す。
// GET /api/catalog/{id}
func (h *CatalogHandler) GetTool(w http.ResponseWriter, r *http.Request) {
	toolID := chi.URLParam(r, "id")

	info, err := h.service.GetTool(r.Context(), toolID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCatalogToolResponse(*info))
}

// ListCategories は定義済みカテゴリの一覧を返す。
// GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := model.Categories()
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	writeJSON(w, http.StatusOK, names)
}

// toCatalogToolResponse はcatalog.ToolInfoからAPIレスポンスに変換する。
func toCatalogToolResponse(info catalog.ToolInfo) catalogToolResponse {
	return catalogToolResponse{
		ID:            info.ID,
		Name:          info.Name,
		Description:   info.Description,
		Category:      string(info.Category),
		ImageURL:      info.ImageURL,
		IsAvailable:   info.IsAvailable,
		IsNew:         info.IsNew,
		OwnerID:       info.OwnerID,
		OwnerName:     info.OwnerName,
		OwnerLocation: info.OwnerLocation,
		CreatedAt:     info.CreatedAt.Format(time.RFC3339),
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/toolshed/internal/catalog"
	"github.com/hitoshi/toolshed/internal/model"
)

// --- モック ---

type mockCatalogService struct {
	listAvailableFn func(ctx context.Context, query, category string) ([]catalog.ToolInfo, error)
	getToolFn       func(ctx context.Context, toolID string) (*catalog.ToolInfo, error)
}

func (m *mockCatalogService) ListAvailable(ctx context.Context, query, category string) ([]catalog.ToolInfo, error) {
	if m.listAvailableFn != nil {
		return m.listAvailableFn(ctx, query, category)
	}
	return nil, nil
}
func (m *mockCatalogService) GetTool(ctx context.Context, toolID string) (*catalog.ToolInfo, error) {
	if m.getToolFn != nil {
		return m.getToolFn(ctx, toolID)
	}
	return nil, model.NewToolNotFoundError(toolID)
}

func newCatalogRouter(h *CatalogHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/catalog", h.ListTools)
	r.Get("/api/catalog/{id}", h.GetTool)
	r.Get("/api/categories", h.ListCategories)
	return r
}

// --- テスト ---

// TestCatalogHandler_ListTools_PassesQueryParams はクエリパラメータが
// サービス層に渡ることを検証する。
func TestCatalogHandler_ListTools_PassesQueryParams(t *testing.T) {
	var gotQuery, gotCategory string
	svc := &mockCatalogService{
		listAvailableFn: func(ctx context.Context, query, category string) ([]catalog.ToolInfo, error) {
			gotQuery = query
			gotCategory = category
			return []catalog.ToolInfo{
				{ToolWithOwner: model.ToolWithOwner{Tool: model.Tool{ID: "t1", Name: "Cordless Drill"}, OwnerName: "Hanako"}, IsNew: true},
			}, nil
		},
	}
	router := newCatalogRouter(NewCatalogHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/catalog?q=drill&category=Power+Tools", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotQuery != "drill" || gotCategory != "Power Tools" {
		t.Errorf("query = %q, category = %q, want drill / Power Tools", gotQuery, gotCategory)
	}

	var resp []catalogToolResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(resp))
	}
	if !resp[0].IsNew || resp[0].OwnerName != "Hanako" {
		t.Errorf("response = %+v, want is_new and owner info", resp[0])
	}
}

// TestCatalogHandler_ListTools_Empty は結果ゼロ件で空配列が返ることを検証する。
func TestCatalogHandler_ListTools_Empty(t *testing.T) {
	router := newCatalogRouter(NewCatalogHandler(&mockCatalogService{}))

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", body)
	}
}

// TestCatalogHandler_GetTool_NotFound は未存在工具が404になることを検証する。
func TestCatalogHandler_GetTool_NotFound(t *testing.T) {
	router := newCatalogRouter(NewCatalogHandler(&mockCatalogService{}))

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestCatalogHandler_GetTool_Success は工具詳細が所有者情報付きで返ることを検証する。
func TestCatalogHandler_GetTool_Success(t *testing.T) {
	svc := &mockCatalogService{
		getToolFn: func(ctx context.Context, toolID string) (*catalog.ToolInfo, error) {
			return &catalog.ToolInfo{
				ToolWithOwner: model.ToolWithOwner{
					Tool:          model.Tool{ID: toolID, Name: "Cordless Drill", Category: model.CategoryPowerTools},
					OwnerName:     "Hanako Suzuki",
					OwnerLocation: "Setagaya, Tokyo",
				},
			}, nil
		},
	}
	router := newCatalogRouter(NewCatalogHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/t1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp catalogToolResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.OwnerName != "Hanako Suzuki" || resp.Category != "Power Tools" {
		t.Errorf("response = %+v, want owner and category", resp)
	}
}

// TestCatalogHandler_ListCategories は定義済みカテゴリ一覧を検証する。
func TestCatalogHandler_ListCategories(t *testing.T) {
	router := newCatalogRouter(NewCatalogHandler(&mockCatalogService{}))

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp []string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 6 {
		t.Fatalf("expected 6 categories, got %d", len(resp))
	}
	if resp[0] != "Power Tools" {
		t.Errorf("categories[0] = %s, want Power Tools", resp[0])
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/toolshed/internal/middleware"
	"github.com/hitoshi/toolshed/internal/model"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	Get(ctx context.Context, profileID string) (*model.Profile, error)
	Update(ctx context.Context, principalID, profileID string, draft model.ProfileDraft) (*model.Profile, error)
}

// ProfileHandler はプロフィールのHTTPハンドラー。
type ProfileHandler struct {
	service ProfileServiceInterface
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// profileDraftRequest はプロフィール更新リクエストのボディ。
type profileDraftRequest struct {
	FullName string `json:"full_name"`
	Location string `json:"location"`
}

// profileResponse はプロフィールのAPIレスポンス。
type profileResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Location string `json:"location,omitempty"`
}

// GetProfile はプロフィールを取得する。
// GET /api/profiles/{id}
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "id")

	profile, err := h.service.Get(r.Context(), profileID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile はプロフィールを更新する。本人のみ実行できる。
// PUT /api/profiles/{id}
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthenticated(w)
		return
	}

	profileID := chi.URLParam(r, "id")

	var req profileDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	profile, err := h.service.Update(r.Context(), userID, profileID, model.ProfileDraft{
		FullName: req.FullName,
		Location: req.Location,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

// toProfileResponse はmodel.ProfileからAPIレスポンスに変換する。
func toProfileResponse(profile *model.Profile) profileResponse {
	return profileResponse{
		ID:       profile.ID,
		FullName: profile.FullName,
		Location: profile.Location,
	}
}

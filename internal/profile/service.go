// Package profile はメンバープロフィールの閲覧・編集を提供する。
package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/toolshed/internal/authz"
	"github.com/hitoshi/toolshed/internal/model"
	"github.com/hitoshi/toolshed/internal/repository"
	"github.com/hitoshi/toolshed/internal/security"
)

// Service はプロフィールのサービス層。
type Service struct {
	profileRepo repository.ProfileRepository
	sanitizer   security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(profileRepo repository.ProfileRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		profileRepo: profileRepo,
		sanitizer:   sanitizer,
	}
}

// Get は指定IDのプロフィールを取得する。
// プロフィールは公開情報であり、認証済みであれば誰でも閲覧できる。
func (s *Service) Get(ctx context.Context, profileID string) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}
	if profile == nil {
		return nil, model.NewProfileNotFoundError(profileID)
	}
	return profile, nil
}

// Update はプロフィールを更新する。本人のみ実行できる。
func (s *Service) Update(ctx context.Context, principalID, profileID string, draft model.ProfileDraft) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}
	if profile == nil {
		return nil, model.NewProfileNotFoundError(profileID)
	}
	if !authz.CanEditProfile(principalID, profile) {
		return nil, model.NewUnauthorizedError("プロフィールの編集")
	}

	draft.FullName = s.sanitizer.Sanitize(draft.FullName)
	draft.Location = s.sanitizer.Sanitize(draft.Location)
	if draft.FullName == "" {
		return nil, model.NewMissingFieldError("full_name")
	}

	profile.FullName = draft.FullName
	profile.Location = draft.Location

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("プロフィールの更新に失敗しました: %w", err)
	}

	slog.Info("profile updated", slog.String("profile_id", profileID))

	return profile, nil
}

// Package tool は工具の登録・編集・削除のドメインロジックを提供する。
package tool

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/toolshed/internal/authz"
	"github.com/hitoshi/toolshed/internal/model"
	"github.com/hitoshi/toolshed/internal/repository"
	"github.com/hitoshi/toolshed/internal/security"
)

// Service は工具管理のサービス層。
// すべての変更系操作は実行前にauthzの権限チェックを通過する。
type Service struct {
	toolRepo  repository.ToolRepository
	sanitizer security.TextSanitizerService
	imgGuard  security.ImageURLGuardService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	toolRepo repository.ToolRepository,
	sanitizer security.TextSanitizerService,
	imgGuard security.ImageURLGuardService,
) *Service {
	return &Service{
		toolRepo:  toolRepo,
		sanitizer: sanitizer,
		imgGuard:  imgGuard,
	}
}

// Create は工具を登録する。所有者はprincipalIDになる。
// フォーム入力のドラフトは検証を通過したものだけが永続化される。
func (s *Service) Create(ctx context.Context, principalID string, draft model.ToolDraft) (*model.Tool, error) {
	validated, err := s.validateDraft(draft)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tool := &model.Tool{
		ID:          uuid.New().String(),
		OwnerID:     principalID,
		Name:        validated.Name,
		Description: validated.Description,
		Category:    model.Category(validated.Category),
		ImageURL:    validated.ImageURL,
		IsAvailable: validated.IsAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.toolRepo.Create(ctx, tool); err != nil {
		return nil, fmt.Errorf("工具の登録に失敗しました: %w", err)
	}

	slog.Info("tool created",
		slog.String("tool_id", tool.ID),
		slog.String("owner_id", principalID),
		slog.String("category", string(tool.Category)),
	)

	return tool, nil
}

// Update は工具を更新する。所有者以外はUNAUTHORIZEDで拒否する。
// owner_idとcreated_atはドラフトに含まれず変更されない。
func (s *Service) Update(ctx context.Context, principalID, toolID string, draft model.ToolDraft) (*model.Tool, error) {
	tool, err := s.toolRepo.FindByID(ctx, toolID)
	if err != nil {
		return nil, fmt.Errorf("工具の取得に失敗しました: %w", err)
	}
	if tool == nil {
		return nil, model.NewToolNotFoundError(toolID)
	}
	if !authz.CanEditTool(principalID, tool) {
		return nil, model.NewUnauthorizedError("工具の編集")
	}

	validated, err := s.validateDraft(draft)
	if err != nil {
		return nil, err
	}

	tool.Name = validated.Name
	tool.Description = validated.Description
	tool.Category = model.Category(validated.Category)
	tool.ImageURL = validated.ImageURL
	tool.IsAvailable = validated.IsAvailable

	if err := s.toolRepo.Update(ctx, tool); err != nil {
		return nil, fmt.Errorf("工具の更新に失敗しました: %w", err)
	}

	return tool, nil
}

// SetAvailability は貸出可否フラグを切り替える。所有者のみ実行できる。
func (s *Service) SetAvailability(ctx context.Context, principalID, toolID string, isAvailable bool) (*model.Tool, error) {
	tool, err := s.toolRepo.FindByID(ctx, toolID)
	if err != nil {
		return nil, fmt.Errorf("工具の取得に失敗しました: %w", err)
	}
	if tool == nil {
		return nil, model.NewToolNotFoundError(toolID)
	}
	if !authz.CanEditTool(principalID, tool) {
		return nil, model.NewUnauthorizedError("貸出可否の変更")
	}

	if err := s.toolRepo.UpdateAvailability(ctx, toolID, isAvailable); err != nil {
		return nil, fmt.Errorf("貸出可否フラグの更新に失敗しました: %w", err)
	}

	tool.IsAvailable = isAvailable
	return tool, nil
}

// Delete は工具を削除する。所有者以外はUNAUTHORIZEDで拒否する。
// ハード削除であり、関連する借用リクエストも失われる。
func (s *Service) Delete(ctx context.Context, principalID, toolID string) error {
	tool, err := s.toolRepo.FindByID(ctx, toolID)
	if err != nil {
		return fmt.Errorf("工具の取得に失敗しました: %w", err)
	}
	if tool == nil {
		return model.NewToolNotFoundError(toolID)
	}
	if !authz.CanDeleteTool(principalID, tool) {
		return model.NewUnauthorizedError("工具の削除")
	}

	if err := s.toolRepo.DeleteByID(ctx, toolID); err != nil {
		return fmt.Errorf("工具の削除に失敗しました: %w", err)
	}

	slog.Info("tool deleted",
		slog.String("tool_id", toolID),
		slog.String("owner_id", principalID),
	)

	return nil
}

// ListOwned はプリンシパルが所有する工具の一覧をcreated_at降順で返す。
func (s *Service) ListOwned(ctx context.Context, principalID string) ([]*model.Tool, error) {
	tools, err := s.toolRepo.ListByOwnerID(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("所有工具一覧の取得に失敗しました: %w", err)
	}
	return tools, nil
}

// validateDraft はフォーム入力を検証し、サニタイズ済みのドラフトを返す。
// 検証内容: 必須フィールド、カテゴリの定義済みチェック、画像URLの安全性。
func (s *Service) validateDraft(draft model.ToolDraft) (model.ToolDraft, error) {
	draft.Name = s.sanitizer.Sanitize(draft.Name)
	draft.Description = s.sanitizer.Sanitize(draft.Description)

	if draft.Name == "" {
		return draft, model.NewMissingFieldError("name")
	}
	if draft.Description == "" {
		return draft, model.NewMissingFieldError("description")
	}
	if draft.Category == "" {
		return draft, model.NewMissingFieldError("category")
	}
	if !model.IsValidCategory(draft.Category) {
		return draft, model.NewInvalidCategoryError(draft.Category)
	}
	if draft.ImageURL != "" {
		if err := s.imgGuard.ValidateURL(draft.ImageURL); err != nil {
			return draft, model.NewInvalidImageURLError(err.Error())
		}
	}
	return draft, nil
}

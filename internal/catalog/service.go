package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/toolshed/internal/model"
	"github.com/hitoshi/toolshed/internal/repository"
)

// ToolInfo はカタログ表示用の工具情報。新着バッジの判定結果を含む。
type ToolInfo struct {
	model.ToolWithOwner
	IsNew bool
}

// Service はカタログのサービス層。
// 貸出可能な工具の一覧取得と検索を提供する。
type Service struct {
	toolRepo repository.ToolRepository
	now      func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(toolRepo repository.ToolRepository) *Service {
	return &Service{
		toolRepo: toolRepo,
		now:      time.Now,
	}
}

// ListAvailable は貸出可能な工具を検索条件で絞り込んで返す。
// ストアからはis_available = trueの工具のみをcreated_at降順で取得し、
// その結果にテキスト検索とカテゴリフィルタを適用する。
// フィルタは取得結果を変更しないため、条件を変えた再検索は再取得なしで行える。
func (s *Service) ListAvailable(ctx context.Context, query, category string) ([]ToolInfo, error) {
	tools, err := s.toolRepo.ListAvailableWithOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("カタログの取得に失敗しました: %w", err)
	}

	filtered := Filter(tools, query, category)

	now := s.now()
	results := make([]ToolInfo, len(filtered))
	for i, tool := range filtered {
		results[i] = ToolInfo{
			ToolWithOwner: tool,
			IsNew:         IsNewlyListed(tool.CreatedAt, now),
		}
	}
	return results, nil
}

// GetTool は工具の詳細を所有者情報付きで返す。
// カタログの詳細ページ用で、貸出不可の工具も取得できる
// （所有者ダッシュボードからの遷移があるため）。
func (s *Service) GetTool(ctx context.Context, toolID string) (*ToolInfo, error) {
	tool, err := s.toolRepo.FindByIDWithOwner(ctx, toolID)
	if err != nil {
		return nil, fmt.Errorf("工具の取得に失敗しました: %w", err)
	}
	if tool == nil {
		return nil, model.NewToolNotFoundError(toolID)
	}

	return &ToolInfo{
		ToolWithOwner: *tool,
		IsNew:         IsNewlyListed(tool.CreatedAt, s.now()),
	}, nil
}

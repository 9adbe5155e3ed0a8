// Package reservation は借用リクエストのライフサイクルを管理する。
//
// 状態遷移は pending → approved | rejected のみで、終端状態からの遷移は
// 存在しない。遷移は主キースコープの単一UPDATEで行われ、中間状態は
// 観測されない。リクエストの作成・承認はTool.IsAvailableを変更しない。
// 過去のリクエスト履歴は新規リクエストの判定に影響せず、期間が重複する
// リクエスト同士の排他制御も行わない。
package reservation

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

// dateLayout は借用期間の日付フォーマット。
const dateLayout = "2006-01-02"

// Service は借用リクエストのサービス層。
type Service struct {
	requestRepo repository.BorrowRequestRepository
	toolRepo    repository.ToolRepository
	sanitizer   security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	requestRepo repository.BorrowRequestRepository,
	toolRepo repository.ToolRepository,
	sanitizer security.TextSanitizerService,
) *Service {
	return &Service{
		requestRepo: requestRepo,
		toolRepo:    toolRepo,
		sanitizer:   sanitizer,
	}
}

// CreateRequest は借用リクエストを作成する。
// 作成されるリクエストのstatusは常にpending。
// 自分の工具へのリクエストと貸出不可の工具へのリクエストは拒否する。
func (s *Service) CreateRequest(ctx context.Context, principalID, toolID string, draft model.BorrowRequestDraft) (*model.BorrowRequest, error) {
	startDate, endDate, err := validateDates(draft)
	if err != nil {
		return nil, err
	}

	tool, err := s.toolRepo.FindByID(ctx, toolID)
	if err != nil {
		return nil, fmt.Errorf("工具の取得に失敗しました: %w", err)
	}
	if tool == nil {
		return nil, model.NewToolNotFoundError(toolID)
	}

	if !authz.CanRequestTool(principalID, tool) {
		// 拒否理由を区別してユーザーに返す
		if principalID == tool.OwnerID {
			return nil, model.NewOwnToolRequestError()
		}
		if !tool.IsAvailable {
			return nil, model.NewToolUnavailableError(toolID)
		}
		return nil, model.NewUnauthorizedError("借用リクエストの作成")
	}

	now := time.Now()
	request := &model.BorrowRequest{
		ID:          uuid.New().String(),
		ToolID:      toolID,
		RequesterID: principalID,
		StartDate:   startDate,
		EndDate:     endDate,
		Message:     s.sanitizer.Sanitize(draft.Message),
		Status:      model.RequestStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("借用リクエストの作成に失敗しました: %w", err)
	}

	slog.Info("borrow request created",
		slog.String("request_id", request.ID),
		slog.String("tool_id", toolID),
		slog.String("requester_id", principalID),
	)

	return request, nil
}

// Respond は借用リクエストを承認または拒否する。
// 応答できるのは対象工具の所有者のみで、対象はpending状態のリクエストのみ。
// statusの更新はcompare-and-setの単一UPDATEで行われるため、
// 承認と拒否が競合しても先に実行された方だけが反映される。
func (s *Service) Respond(ctx context.Context, principalID, requestID string, status model.RequestStatus) (*model.BorrowRequest, error) {
	if !status.IsTerminal() {
		return nil, model.NewUnauthorizedError("不正な遷移先状態")
	}

	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("借用リクエストの取得に失敗しました: %w", err)
	}
	if request == nil {
		return nil, model.NewRequestNotFoundError(requestID)
	}

	tool, err := s.toolRepo.FindByID(ctx, request.ToolID)
	if err != nil {
		return nil, fmt.Errorf("工具の取得に失敗しました: %w", err)
	}
	if tool == nil {
		// 工具が削除された直後のリクエスト参照
		return nil, model.NewRequestNotFoundError(requestID)
	}

	if !authz.CanRespondToRequest(principalID, request, tool) {
		if principalID != tool.OwnerID {
			return nil, model.NewUnauthorizedError("借用リクエストへの応答")
		}
		// 所有者だがリクエストが終端状態
		return nil, model.NewRequestAlreadyResolvedError(requestID)
	}

	updated, err := s.requestRepo.UpdateStatusIfPending(ctx, requestID, status)
	if err != nil {
		return nil, fmt.Errorf("借用リクエストの状態更新に失敗しました: %w", err)
	}
	if !updated {
		// 取得後に別の応答が先行した（応答競合）
		return nil, model.NewRequestAlreadyResolvedError(requestID)
	}

	slog.Info("borrow request resolved",
		slog.String("request_id", requestID),
		slog.String("tool_id", request.ToolID),
		slog.String("status", string(status)),
	)

	// UPDATEはupdated_atも進めるため、返却値を保存後の状態に合わせる
	request.Status = status
	request.UpdatedAt = time.Now()
	return request, nil
}

// ListIncoming はプリンシパルが所有する工具への借用リクエストを
// created_at降順で返す。
func (s *Service) ListIncoming(ctx context.Context, principalID string) ([]model.BorrowRequestWithDetails, error) {
	requests, err := s.requestRepo.ListByOwnerIDWithDetails(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("受信リクエスト一覧の取得に失敗しました: %w", err)
	}
	return requests, nil
}

// ListOutgoing はプリンシパルが申請した借用リクエストを
// created_at降順で返す。
func (s *Service) ListOutgoing(ctx context.Context, principalID string) ([]model.BorrowRequestWithDetails, error) {
	requests, err := s.requestRepo.ListByRequesterIDWithDetails(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("送信リクエスト一覧の取得に失敗しました: %w", err)
	}
	return requests, nil
}

// validateDates は借用期間を検証してパース済みの日付を返す。
// 終了日が開始日より前の期間は拒否する。
func validateDates(draft model.BorrowRequestDraft) (time.Time, time.Time, error) {
	if draft.StartDate == "" {
		return time.Time{}, time.Time{}, model.NewMissingFieldError("start_date")
	}
	if draft.EndDate == "" {
		return time.Time{}, time.Time{}, model.NewMissingFieldError("end_date")
	}

	startDate, err := time.Parse(dateLayout, draft.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, model.NewInvalidDateRangeError("開始日の形式が不正です")
	}
	endDate, err := time.Parse(dateLayout, draft.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, model.NewInvalidDateRangeError("終了日の形式が不正です")
	}

	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, model.NewInvalidDateRangeError("終了日が開始日より前です")
	}

	return startDate, endDate, nil
}

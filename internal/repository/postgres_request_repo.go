package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/toolshed/internal/model"
)

// PostgresBorrowRequestRepo はPostgreSQLを使用した借用リクエストリポジトリ。
type PostgresBorrowRequestRepo struct {
	db *sql.DB
}

// NewPostgresBorrowRequestRepo はPostgresBorrowRequestRepoを生成する。
func NewPostgresBorrowRequestRepo(db *sql.DB) *PostgresBorrowRequestRepo {
	return &PostgresBorrowRequestRepo{db: db}
}

// FindByID は指定IDのリクエストを取得する。見つからない場合はnilを返す。
func (r *PostgresBorrowRequestRepo) FindByID(ctx context.Context, id string) (*model.BorrowRequest, error) {
	request := &model.BorrowRequest{}
	var message sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, tool_id, requester_id, start_date, end_date, message, status,
		        created_at, updated_at
		 FROM borrow_requests WHERE id = $1`,
		id,
	).Scan(
		&request.ID, &request.ToolID, &request.RequesterID,
		&request.StartDate, &request.EndDate, &message, &request.Status,
		&request.CreatedAt, &request.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("借用リクエストの取得に失敗しました: %w", err)
	}

	request.Message = nullStringValue(message)
	return request, nil
}

// Create はリクエストを作成する。statusは常にpendingで作成される。
// クライアントから渡されたstatusは無視し、初期状態を強制する。
func (r *PostgresBorrowRequestRepo) Create(ctx context.Context, request *model.BorrowRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO borrow_requests (id, tool_id, requester_id, start_date, end_date,
		                              message, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7, $8)`,
		request.ID, request.ToolID, request.RequesterID,
		request.StartDate, request.EndDate, nullString(request.Message),
		request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("借用リクエストの作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateStatusIfPending はpending状態のリクエストのstatusを更新する。
// 単一のUPDATE文によるcompare-and-setであり、approve/rejectの競合は
// 先に実行された方だけが成功する。既に終端状態の場合はfalseを返す。
func (r *PostgresBorrowRequestRepo) UpdateStatusIfPending(ctx context.Context, id string, status model.RequestStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE borrow_requests SET status = $2, updated_at = now()
		 WHERE id = $1 AND status = 'pending'`,
		id, status,
	)
	if err != nil {
		return false, fmt.Errorf("借用リクエストの状態更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("更新件数の取得に失敗しました: %w", err)
	}
	return rowsAffected == 1, nil
}

// ListByOwnerIDWithDetails は指定所有者の工具に対する全リクエストを
// 工具名・カテゴリ・申請者プロフィール付きでcreated_at降順で返す。
func (r *PostgresBorrowRequestRepo) ListByOwnerIDWithDetails(ctx context.Context, ownerID string) ([]model.BorrowRequestWithDetails, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT br.id, br.tool_id, br.requester_id, br.start_date, br.end_date,
		        br.message, br.status, br.created_at, br.updated_at,
		        t.name, t.category, t.owner_id,
		        p.full_name, p.location
		 FROM borrow_requests br
		 INNER JOIN tools t ON br.tool_id = t.id
		 INNER JOIN profiles p ON br.requester_id = p.id
		 WHERE t.owner_id = $1
		 ORDER BY br.created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("受信リクエスト一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanRequestDetails(rows)
}

// ListByRequesterIDWithDetails は指定申請者の全リクエストを
// 工具情報付きでcreated_at降順で返す。
func (r *PostgresBorrowRequestRepo) ListByRequesterIDWithDetails(ctx context.Context, requesterID string) ([]model.BorrowRequestWithDetails, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT br.id, br.tool_id, br.requester_id, br.start_date, br.end_date,
		        br.message, br.status, br.created_at, br.updated_at,
		        t.name, t.category, t.owner_id,
		        p.full_name, p.location
		 FROM borrow_requests br
		 INNER JOIN tools t ON br.tool_id = t.id
		 INNER JOIN profiles p ON br.requester_id = p.id
		 WHERE br.requester_id = $1
		 ORDER BY br.created_at DESC`,
		requesterID,
	)
	if err != nil {
		return nil, fmt.Errorf("送信リクエスト一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanRequestDetails(rows)
}

// scanRequestDetails はJOIN済みリクエスト行を走査して構造体に詰め替える。
func scanRequestDetails(rows *sql.Rows) ([]model.BorrowRequestWithDetails, error) {
	var requests []model.BorrowRequestWithDetails
	for rows.Next() {
		var row model.BorrowRequestWithDetails
		var message sql.NullString

		if err := rows.Scan(
			&row.ID, &row.ToolID, &row.RequesterID, &row.StartDate, &row.EndDate,
			&message, &row.Status, &row.CreatedAt, &row.UpdatedAt,
			&row.ToolName, &row.ToolCategory, &row.ToolOwnerID,
			&row.RequesterName, &row.RequesterLocation,
		); err != nil {
			return nil, fmt.Errorf("リクエスト一覧の読み取りに失敗しました: %w", err)
		}

		row.Message = nullStringValue(message)
		requests = append(requests, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("リクエスト一覧の走査に失敗しました: %w", err)
	}

	return requests, nil
}

// compile-time interface check
var _ BorrowRequestRepository = (*PostgresBorrowRequestRepo)(nil)

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/toolshed/internal/model"
)

// PostgresToolRepo はPostgreSQLを使用した工具リポジトリ。
type PostgresToolRepo struct {
	db *sql.DB
}

// NewPostgresToolRepo はPostgresToolRepoを生成する。
func NewPostgresToolRepo(db *sql.DB) *PostgresToolRepo {
	return &PostgresToolRepo{db: db}
}

// FindByID は指定IDの工具を取得する。見つからない場合はnilを返す。
func (r *PostgresToolRepo) FindByID(ctx context.Context, id string) (*model.Tool, error) {
	tool := &model.Tool{}
	var imageURL sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, description, category, image_url, is_available,
		        created_at, updated_at
		 FROM tools WHERE id = $1`,
		id,
	).Scan(
		&tool.ID, &tool.OwnerID, &tool.Name, &tool.Description, &tool.Category,
		&imageURL, &tool.IsAvailable, &tool.CreatedAt, &tool.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("工具の取得に失敗しました: %w", err)
	}

	tool.ImageURL = nullStringValue(imageURL)
	return tool, nil
}

// FindByIDWithOwner は工具を所有者プロフィールとJOINして取得する。見つからない場合はnilを返す。
func (r *PostgresToolRepo) FindByIDWithOwner(ctx context.Context, id string) (*model.ToolWithOwner, error) {
	row := &model.ToolWithOwner{}
	var imageURL sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT t.id, t.owner_id, t.name, t.description, t.category, t.image_url,
		        t.is_available, t.created_at, t.updated_at,
		        p.full_name, p.location
		 FROM tools t
		 INNER JOIN profiles p ON t.owner_id = p.id
		 WHERE t.id = $1`,
		id,
	).Scan(
		&row.ID, &row.OwnerID, &row.Name, &row.Description, &row.Category,
		&imageURL, &row.IsAvailable, &row.CreatedAt, &row.UpdatedAt,
		&row.OwnerName, &row.OwnerLocation,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("工具と所有者の取得に失敗しました: %w", err)
	}

	row.ImageURL = nullStringValue(imageURL)
	return row, nil
}

// ListAvailableWithOwner は貸出可能な工具を所有者名付きでcreated_at降順で返す。
func (r *PostgresToolRepo) ListAvailableWithOwner(ctx context.Context) ([]model.ToolWithOwner, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.owner_id, t.name, t.description, t.category, t.image_url,
		        t.is_available, t.created_at, t.updated_at,
		        p.full_name, p.location
		 FROM tools t
		 INNER JOIN profiles p ON t.owner_id = p.id
		 WHERE t.is_available = true
		 ORDER BY t.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("貸出可能な工具一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var tools []model.ToolWithOwner
	for rows.Next() {
		var row model.ToolWithOwner
		var imageURL sql.NullString

		if err := rows.Scan(
			&row.ID, &row.OwnerID, &row.Name, &row.Description, &row.Category,
			&imageURL, &row.IsAvailable, &row.CreatedAt, &row.UpdatedAt,
			&row.OwnerName, &row.OwnerLocation,
		); err != nil {
			return nil, fmt.Errorf("工具一覧の読み取りに失敗しました: %w", err)
		}

		row.ImageURL = nullStringValue(imageURL)
		tools = append(tools, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("工具一覧の走査に失敗しました: %w", err)
	}

	return tools, nil
}

// ListByOwnerID は指定所有者の全工具をcreated_at降順で返す。
func (r *PostgresToolRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Tool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, name, description, category, image_url, is_available,
		        created_at, updated_at
		 FROM tools
		 WHERE owner_id = $1
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("所有工具一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var tools []*model.Tool
	for rows.Next() {
		tool := &model.Tool{}
		var imageURL sql.NullString

		if err := rows.Scan(
			&tool.ID, &tool.OwnerID, &tool.Name, &tool.Description, &tool.Category,
			&imageURL, &tool.IsAvailable, &tool.CreatedAt, &tool.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("所有工具一覧の読み取りに失敗しました: %w", err)
		}

		tool.ImageURL = nullStringValue(imageURL)
		tools = append(tools, tool)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("所有工具一覧の走査に失敗しました: %w", err)
	}

	return tools, nil
}

// Create は工具を作成する。
func (r *PostgresToolRepo) Create(ctx context.Context, tool *model.Tool) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tools (id, owner_id, name, description, category, image_url,
		                    is_available, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tool.ID, tool.OwnerID, tool.Name, tool.Description, tool.Category,
		nullString(tool.ImageURL), tool.IsAvailable, tool.CreatedAt, tool.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("工具の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は工具のname、description、category、image_url、is_availableを更新する。
// owner_idとcreated_atは更新対象外。
func (r *PostgresToolRepo) Update(ctx context.Context, tool *model.Tool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tools SET
		    name = $2, description = $3, category = $4,
		    image_url = $5, is_available = $6, updated_at = now()
		 WHERE id = $1`,
		tool.ID, tool.Name, tool.Description, tool.Category,
		nullString(tool.ImageURL), tool.IsAvailable,
	)
	if err != nil {
		return fmt.Errorf("工具の更新に失敗しました: %w", err)
	}
	return nil
}

// UpdateAvailability は貸出可否フラグのみを更新する。
func (r *PostgresToolRepo) UpdateAvailability(ctx context.Context, id string, isAvailable bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tools SET is_available = $2, updated_at = now() WHERE id = $1`,
		id, isAvailable,
	)
	if err != nil {
		return fmt.Errorf("貸出可否フラグの更新に失敗しました: %w", err)
	}
	return nil
}

// DeleteByID は指定IDの工具を削除する。関連するborrow_requestsはCASCADE削除される。
func (r *PostgresToolRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tools WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("工具の削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("工具が見つかりません: %s", id)
	}
	return nil
}

// nullString は空文字列をsql.NullStringに変換する。
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullStringValue はsql.NullStringから文字列を取得する。
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// compile-time interface check
var _ ToolRepository = (*PostgresToolRepo)(nil)

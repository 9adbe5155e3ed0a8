package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/toolshed/internal/model"
)

// PostgresResetTokenRepo はPostgreSQLを使用したパスワード再設定トークンリポジトリ。
type PostgresResetTokenRepo struct {
	db *sql.DB
}

// NewPostgresResetTokenRepo はPostgresResetTokenRepoを生成する。
func NewPostgresResetTokenRepo(db *sql.DB) *PostgresResetTokenRepo {
	return &PostgresResetTokenRepo{db: db}
}

// Create はトークンを作成する。
func (r *PostgresResetTokenRepo) Create(ctx context.Context, token *model.PasswordResetToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_reset_tokens (id, account_id, expires_at, created_at)
		 VALUES ($1, $2, $3, $4)`,
		token.ID, token.AccountID, token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("再設定トークンの作成に失敗しました: %w", err)
	}
	return nil
}

// FindValidByID は有効（未使用かつ期限内）なトークンを取得する。見つからない場合はnilを返す。
func (r *PostgresResetTokenRepo) FindValidByID(ctx context.Context, id string) (*model.PasswordResetToken, error) {
	token := &model.PasswordResetToken{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, account_id, expires_at, used_at, created_at
		 FROM password_reset_tokens
		 WHERE id = $1 AND used_at IS NULL AND expires_at > now()`,
		id,
	).Scan(&token.ID, &token.AccountID, &token.ExpiresAt, &token.UsedAt, &token.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("再設定トークンの取得に失敗しました: %w", err)
	}

	return token, nil
}

// MarkUsed はトークンを使用済みにする。
func (r *PostgresResetTokenRepo) MarkUsed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE password_reset_tokens SET used_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("再設定トークンの更新に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ PasswordResetTokenRepository = (*PostgresResetTokenRepo)(nil)

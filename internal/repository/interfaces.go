// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/toolshed/internal/model"
)

// AccountRepository は認証アカウントの永続化インターフェース。
type AccountRepository interface {
	// FindByID は指定IDのアカウントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Account, error)

	// FindByEmail はメールアドレスでアカウントを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.Account, error)

	// CreateWithProfile はアカウントとプロフィールを同一トランザクションで作成する。
	// プロフィールは初回登録時に自動作成され、IDはアカウントIDと一致する。
	CreateWithProfile(ctx context.Context, account *model.Account, profile *model.Profile) error

	// UpdatePasswordHash はアカウントのパスワードハッシュを更新する。
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// PasswordResetTokenRepository はパスワード再設定トークンの永続化インターフェース。
type PasswordResetTokenRepository interface {
	// Create はトークンを作成する。
	Create(ctx context.Context, token *model.PasswordResetToken) error
	// FindValidByID は有効（未使用かつ期限内）なトークンを取得する。
	// 見つからない場合はnilを返す。
	FindValidByID(ctx context.Context, id string) (*model.PasswordResetToken, error)
	// MarkUsed はトークンを使用済みにする。
	MarkUsed(ctx context.Context, id string) error
}

// ProfileRepository はプロフィールデータの永続化インターフェース。
type ProfileRepository interface {
	// FindByID は指定IDのプロフィールを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Profile, error)

	// Update はプロフィールのfull_nameとlocationを更新する。
	Update(ctx context.Context, profile *model.Profile) error
}

// ToolRepository は工具データの永続化インターフェース。
type ToolRepository interface {
	// FindByID は指定IDの工具を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Tool, error)

	// FindByIDWithOwner は工具を所有者プロフィールとJOINして取得する。
	// 見つからない場合はnilを返す。
	FindByIDWithOwner(ctx context.Context, id string) (*model.ToolWithOwner, error)

	// ListAvailableWithOwner は貸出可能な工具を所有者名付きで
	// created_at降順で返す。is_available = false の工具は含まれない。
	ListAvailableWithOwner(ctx context.Context) ([]model.ToolWithOwner, error)

	// ListByOwnerID は指定所有者の全工具をcreated_at降順で返す。
	ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Tool, error)

	// Create は工具を作成する。
	Create(ctx context.Context, tool *model.Tool) error

	// Update は工具のname、description、category、image_url、is_availableを更新する。
	// owner_idとcreated_atは更新対象外。
	Update(ctx context.Context, tool *model.Tool) error

	// UpdateAvailability は貸出可否フラグのみを更新する。
	UpdateAvailability(ctx context.Context, id string, isAvailable bool) error

	// DeleteByID は指定IDの工具を削除する。
	// 関連するborrow_requestsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// BorrowRequestRepository は借用リクエストの永続化インターフェース。
type BorrowRequestRepository interface {
	// FindByID は指定IDのリクエストを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.BorrowRequest, error)

	// Create はリクエストを作成する。statusは常にpendingで作成される。
	Create(ctx context.Context, request *model.BorrowRequest) error

	// UpdateStatusIfPending はpending状態のリクエストのstatusを更新する。
	// WHERE句でstatus = 'pending'を条件にした単一UPDATEであり、
	// 既に終端状態の場合はfalseを返す（compare-and-set）。
	UpdateStatusIfPending(ctx context.Context, id string, status model.RequestStatus) (bool, error)

	// ListByOwnerIDWithDetails は指定所有者の工具に対する全リクエストを
	// 工具名・カテゴリ・申請者プロフィール付きでcreated_at降順で返す。
	ListByOwnerIDWithDetails(ctx context.Context, ownerID string) ([]model.BorrowRequestWithDetails, error)

	// ListByRequesterIDWithDetails は指定申請者の全リクエストを
	// 工具情報付きでcreated_at降順で返す。
	ListByRequesterIDWithDetails(ctx context.Context, requesterID string) ([]model.BorrowRequestWithDetails, error)
}

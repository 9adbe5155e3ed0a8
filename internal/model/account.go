// Package model はドメインモデルを定義する。
package model

import "time"

// Account はメールアドレスとパスワードによる認証アカウントを表す。
// プロフィールとは1対1で対応し、Account.IDがProfile.IDになる。
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// PasswordResetToken はパスワード再設定用のワンタイムトークンを表す。
// 使用済みまたは期限切れのトークンは無効。
type PasswordResetToken struct {
	ID        string
	AccountID string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

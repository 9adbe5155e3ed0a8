// Package model はドメインモデルを定義する。
package model

import "time"

// BorrowRequest は工具の借用リクエストを表す。
// RequesterIDは作成後に変更できない。作成後に変更可能なフィールドは
// Statusのみであり、変更できるのは対象工具の所有者に限られる。
type BorrowRequest struct {
	ID          string
	ToolID      string
	RequesterID string
	StartDate   time.Time
	EndDate     time.Time
	Message     string
	Status      RequestStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RequestStatus は借用リクエストの状態を表す。
// pendingが初期状態で、approvedとrejectedが終端状態。
// 終端状態から他の状態への遷移は存在しない。
type RequestStatus string

const (
	// RequestStatusPending は所有者の応答待ち状態。
	RequestStatusPending RequestStatus = "pending"
	// RequestStatusApproved は承認済みの終端状態。
	RequestStatusApproved RequestStatus = "approved"
	// RequestStatusRejected は拒否済みの終端状態。
	RequestStatusRejected RequestStatus = "rejected"
)

// IsTerminal は状態が終端（approved/rejected）かどうかを返す。
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// BorrowRequestWithDetails はリクエストと工具・申請者プロフィールを
// 結合したモデル。所有者ダッシュボードと申請者の一覧の両方で使用する。
type BorrowRequestWithDetails struct {
	BorrowRequest
	ToolName          string
	ToolCategory      Category
	ToolOwnerID       string
	RequesterName     string
	RequesterLocation string
}

// BorrowRequestDraft は借用リクエストフォームの入力を表す。
// 検証を通過したものだけがBorrowRequestとして永続化される。
type BorrowRequestDraft struct {
	StartDate string // "2006-01-02" 形式
	EndDate   string // "2006-01-02" 形式
	Message   string
}

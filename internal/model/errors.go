// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, tool, reservation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized           = "UNAUTHORIZED"
	ErrCodeMissingField           = "MISSING_FIELD"
	ErrCodeInvalidDateRange       = "INVALID_DATE_RANGE"
	ErrCodeInvalidCategory        = "INVALID_CATEGORY"
	ErrCodeInvalidImageURL        = "INVALID_IMAGE_URL"
	ErrCodeToolNotFound           = "TOOL_NOT_FOUND"
	ErrCodeToolUnavailable        = "TOOL_UNAVAILABLE"
	ErrCodeOwnToolRequest         = "OWN_TOOL_REQUEST"
	ErrCodeRequestNotFound        = "REQUEST_NOT_FOUND"
	ErrCodeRequestAlreadyResolved = "REQUEST_ALREADY_RESOLVED"
	ErrCodeProfileNotFound        = "PROFILE_NOT_FOUND"
	ErrCodeEmailAlreadyRegistered = "EMAIL_ALREADY_REGISTERED"
	ErrCodeWeakPassword           = "WEAK_PASSWORD"
	ErrCodeInvalidCredentials     = "INVALID_CREDENTIALS"
	ErrCodeInvalidResetToken      = "INVALID_RESET_TOKEN"
)

// NewUnauthorizedError は権限エラーを生成する。
// 所有者以外による工具・リクエストの操作や、他人のプロフィール編集で返される。
func NewUnauthorizedError(operation string) *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  fmt.Sprintf("この操作を行う権限がありません: %s", operation),
		Category: "auth",
		Action:   "自分が所有するリソースに対してのみ操作できます。",
	}
}

// NewMissingFieldError は必須フィールド未入力エラーを生成する。
func NewMissingFieldError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingField,
		Message:  fmt.Sprintf("必須項目が入力されていません: %s", field),
		Category: "validation",
		Action:   "入力内容を確認して再度送信してください。",
	}
}

// NewInvalidDateRangeError は日付範囲エラーを生成する。
func NewInvalidDateRangeError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDateRange,
		Message:  fmt.Sprintf("貸出期間が不正です: %s", reason),
		Category: "validation",
		Action:   "終了日は開始日以降の日付を指定してください。",
	}
}

// NewInvalidCategoryError は未定義カテゴリエラーを生成する。
func NewInvalidCategoryError(category string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCategory,
		Message:  fmt.Sprintf("未定義のカテゴリです: %s", category),
		Category: "validation",
		Action:   "カテゴリ一覧から選択してください。",
	}
}

// NewInvalidImageURLError は画像URLエラーを生成する。
func NewInvalidImageURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidImageURL,
		Message:  fmt.Sprintf("画像URLが不正です: %s", reason),
		Category: "validation",
		Action:   "公開されているhttps形式の画像URLを指定してください。",
	}
}

// NewToolNotFoundError は工具未検出エラーを生成する。
func NewToolNotFoundError(toolID string) *APIError {
	return &APIError{
		Code:     ErrCodeToolNotFound,
		Message:  fmt.Sprintf("指定された工具が見つかりません: %s", toolID),
		Category: "tool",
		Action:   "工具は削除された可能性があります。一覧を再読み込みしてください。",
	}
}

// NewToolUnavailableError は貸出不可の工具へのリクエストエラーを生成する。
func NewToolUnavailableError(toolID string) *APIError {
	return &APIError{
		Code:     ErrCodeToolUnavailable,
		Message:  fmt.Sprintf("この工具は現在貸出できません: %s", toolID),
		Category: "reservation",
		Action:   "所有者が貸出可能にするまでお待ちください。",
	}
}

// NewOwnToolRequestError は自分の工具への借用リクエストエラーを生成する。
func NewOwnToolRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeOwnToolRequest,
		Message:  "自分が所有する工具に借用リクエストは送れません。",
		Category: "reservation",
		Action:   "他のメンバーが登録した工具を選択してください。",
	}
}

// NewRequestNotFoundError はリクエスト未検出エラーを生成する。
func NewRequestNotFoundError(requestID string) *APIError {
	return &APIError{
		Code:     ErrCodeRequestNotFound,
		Message:  fmt.Sprintf("指定された借用リクエストが見つかりません: %s", requestID),
		Category: "reservation",
		Action:   "リクエスト一覧を再読み込みしてください。",
	}
}

// NewRequestAlreadyResolvedError は応答済みリクエストへの再応答エラーを生成する。
// 承認・拒否された後のリクエストはいかなる遷移も受け付けない。
func NewRequestAlreadyResolvedError(requestID string) *APIError {
	return &APIError{
		Code:     ErrCodeRequestAlreadyResolved,
		Message:  fmt.Sprintf("このリクエストは既に応答済みです: %s", requestID),
		Category: "reservation",
		Action:   "最新の状態を確認するため一覧を再読み込みしてください。",
	}
}

// NewProfileNotFoundError はプロフィール未検出エラーを生成する。
func NewProfileNotFoundError(profileID string) *APIError {
	return &APIError{
		Code:     ErrCodeProfileNotFound,
		Message:  fmt.Sprintf("指定されたプロフィールが見つかりません: %s", profileID),
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewEmailAlreadyRegisteredError はメールアドレス重複エラーを生成する。
func NewEmailAlreadyRegisteredError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailAlreadyRegistered,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "ログインするか、パスワード再設定を利用してください。",
	}
}

// NewWeakPasswordError はパスワード強度不足エラーを生成する。
func NewWeakPasswordError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeWeakPassword,
		Message:  fmt.Sprintf("パスワードが要件を満たしていません: %s", reason),
		Category: "validation",
		Action:   "8文字以上のパスワードを設定してください。",
	}
}

// NewInvalidCredentialsError は認証情報エラーを生成する。
// メールアドレスの存在有無を漏らさないよう、メッセージは共通にする。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewInvalidResetTokenError は無効な再設定トークンエラーを生成する。
func NewInvalidResetTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidResetToken,
		Message:  "パスワード再設定トークンが無効または期限切れです。",
		Category: "auth",
		Action:   "パスワード再設定を最初からやり直してください。",
	}
}

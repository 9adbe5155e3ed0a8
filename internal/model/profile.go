// Package model はドメインモデルを定義する。
package model

import "time"

// Profile はコミュニティメンバーの公開プロフィールを表す。
// IDは認証アカウントのIDと一致し、初回登録時に自動作成される。
// 編集は本人のみ可能。削除のライフサイクルはアカウント側が所有する。
type Profile struct {
	ID        string
	FullName  string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileDraft はプロフィール編集フォームの入力を表す。
// 検証を通過したものだけがProfileとして永続化される。
type ProfileDraft struct {
	FullName string
	Location string
}

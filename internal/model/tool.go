// Package model はドメインモデルを定義する。
package model

import "time"

// Tool は貸出対象の工具を表す。
// OwnerIDは作成後に変更できない。IsAvailableは所有者が手動で切り替える
// 貸出可否フラグであり、借用リクエストの状態とは独立している。
type Tool struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Category    Category
	ImageURL    string
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ToolWithOwner は工具と所有者プロフィールを結合したモデル。
// profilesテーブルとJOINして取得される。
type ToolWithOwner struct {
	Tool
	OwnerName     string
	OwnerLocation string
}

// ToolDraft は工具登録・編集フォームの入力を表す。
// 検証を通過したものだけがToolとして永続化される。
type ToolDraft struct {
	Name        string
	Description string
	Category    string
	ImageURL    string
	IsAvailable bool
}

// Category は工具のカテゴリを表す。
type Category string

// 工具カテゴリの固定リスト。
// カタログのフィルタと登録フォームの両方がこのリストを参照することで、
// 画面間のカテゴリ定義のずれを防ぐ。
const (
	CategoryPowerTools    Category = "Power Tools"
	CategoryHandTools     Category = "Hand Tools"
	CategoryYardEquipment Category = "Yard Equipment"
	CategoryAutomotive    Category = "Automotive"
	CategoryCycling       Category = "Cycling tools"
	CategoryOther         Category = "Other"
)

// CategoryAll はカタログフィルタで全カテゴリを意味するセンチネル値。
// 空文字列も同じ意味として扱われる。
const CategoryAll = "All Categories"

// Categories は工具カテゴリの一覧を返す。
func Categories() []Category {
	return []Category{
		CategoryPowerTools,
		CategoryHandTools,
		CategoryYardEquipment,
		CategoryAutomotive,
		CategoryCycling,
		CategoryOther,
	}
}

// IsValidCategory は文字列が定義済みカテゴリかどうかを判定する。
func IsValidCategory(s string) bool {
	for _, c := range Categories() {
		if string(c) == s {
			return true
		}
	}
	return false
}

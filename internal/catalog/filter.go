// Package catalog は工具カタログの一覧取得と検索のドメインロジックを提供する。
package catalog

import (
	"strings"
	"time"

	"github.com/hitoshi/toolshed/internal/model"
)

// Filter は取得済みの工具一覧に対してテキスト検索とカテゴリフィルタを適用する。
//
// テキスト検索は名前または説明文への大文字小文字を区別しない部分一致で、
// 空クエリは全件にマッチする。カテゴリは完全一致で、"All Categories"と
// 空文字列は全件にマッチする。両条件はANDで結合される。
//
// 純粋関数であり入力スライスを変更しないため、クエリパラメータが変わる
// たびに同じ取得結果へ再適用できる。テキスト→カテゴリの順で絞り込んでも
// 逆順でも結果は同一（可換）。
func Filter(tools []model.ToolWithOwner, query, category string) []model.ToolWithOwner {
	q := strings.ToLower(strings.TrimSpace(query))

	filtered := make([]model.ToolWithOwner, 0, len(tools))
	for _, tool := range tools {
		if !matchesQuery(tool, q) {
			continue
		}
		if !matchesCategory(tool, category) {
			continue
		}
		filtered = append(filtered, tool)
	}
	return filtered
}

// matchesQuery は工具が検索クエリにマッチするかを判定する。
func matchesQuery(tool model.ToolWithOwner, lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(tool.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(tool.Description), lowerQuery)
}

// matchesCategory は工具がカテゴリフィルタにマッチするかを判定する。
func matchesCategory(tool model.ToolWithOwner, category string) bool {
	if category == "" || category == model.CategoryAll {
		return true
	}
	return string(tool.Category) == category
}

// IsNewlyListed は工具が「新着」かどうかを判定する。
// 基準は現在日の7暦日前の日付境界（0時）より後に登録されたこと。
// 直近168時間というローリングウィンドウではなく、暦日境界で計算する。
func IsNewlyListed(createdAt, now time.Time) bool {
	boundary := time.Date(now.Year(), now.Month(), now.Day()-7, 0, 0, 0, 0, now.Location())
	return createdAt.After(boundary)
}

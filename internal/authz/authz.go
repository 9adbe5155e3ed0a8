// Package authz はプリンシパルとリソースに対する操作権限を判定する。
//
// すべての判定は(プリンシパルID, リソース)の純粋関数であり、
// サービス層が変更系の操作を実行する前に必ず呼び出す。
// UI側の表示制御とは独立しているため、APIを直接叩かれても保証が維持される。
// 権限違反は暗黙のno-opにせず、必ずUNAUTHORIZEDエラーとして返す。
package authz

import "github.com/hitoshi/toolshed/internal/model"

// CanEditTool はプリンシパルが工具を編集できるかを判定する。
// 編集できるのは所有者のみ。
func CanEditTool(principalID string, tool *model.Tool) bool {
	return principalID != "" && principalID == tool.OwnerID
}

// CanDeleteTool はプリンシパルが工具を削除できるかを判定する。
// 編集と同じく所有者のみ。
func CanDeleteTool(principalID string, tool *model.Tool) bool {
	return CanEditTool(principalID, tool)
}

// CanRequestTool はプリンシパルが工具の借用をリクエストできるかを判定する。
// 認証済みで、工具が貸出可能で、かつ自分の工具でない場合のみ許可する。
func CanRequestTool(principalID string, tool *model.Tool) bool {
	return principalID != "" && tool.IsAvailable && principalID != tool.OwnerID
}

// CanRespondToRequest はプリンシパルが借用リクエストに応答できるかを判定する。
// 対象工具の所有者であり、リクエストがpending状態の場合のみ許可する。
func CanRespondToRequest(principalID string, request *model.BorrowRequest, tool *model.Tool) bool {
	return principalID != "" &&
		principalID == tool.OwnerID &&
		request.Status == model.RequestStatusPending
}

// CanViewProfile はプリンシパルがプロフィールを閲覧できるかを判定する。
// 閲覧は無制限。
func CanViewProfile(principalID string, profile *model.Profile) bool {
	return true
}

// CanEditProfile はプリンシパルがプロフィールを編集できるかを判定する。
// 編集できるのは本人のみ。
func CanEditProfile(principalID string, profile *model.Profile) bool {
	return principalID != "" && principalID == profile.ID
}

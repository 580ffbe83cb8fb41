// Package identity は現在のユーザーのアイデンティティ境界を提供する。
// ローカル開発用とマネージドIDサービス用の2つの実装が同一インターフェースの
// 背後にあり、コア側はどちらが有効かで分岐しない。
package identity

import "github.com/hitoshi/whirl/internal/model"

// Provider は「現在のユーザー + サインアウト」という1つの能力を表す。
// 実装はデプロイ構成に応じて注入される。
type Provider interface {
	// CurrentUser は現在サインイン中のユーザーを返す。未サインインならnil。
	CurrentUser() *model.User
	// SignOut は現在のセッションを破棄する。
	SignOut() error
	// IsLoading はセッションの復元処理が進行中かを返す。
	IsLoading() bool
}

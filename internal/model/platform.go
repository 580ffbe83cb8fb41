// Package model はドメインモデルを定義する。
package model

// Platform は生成コンテンツの配信先となるSNSプラットフォームを表す。
// プロセス起動時にカタログとして定義され、以後イミュータブルとして扱う。
type Platform struct {
	ID          string // 安定した一意ID（例: "instagram"）
	DisplayName string // UI表示名（例: "Instagram"）
	IconRef     string // アイコンの不透明ハンドル（表示層で解決される）
	ColorToken  string // ブランドカラーのトークン（例: "bg-pink-500"）
}

// PlatformCredentials はプラットフォーム接続時に入力される資格情報を表す。
// このコアでは不透明な値として受け取るのみで、検証も外部送信も行わない
// （実際の認可はプラットフォーム連携バックエンドの責務）。
type PlatformCredentials struct {
	Email    string
	Password string
}

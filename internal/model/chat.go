package model

import "time"

// ChatRole は会話ログ内のエントリの発話者種別を表す。
type ChatRole string

const (
	// ChatRoleUser はユーザーが入力したエントリを示す。
	ChatRoleUser ChatRole = "user"
	// ChatRoleSystem はシステムが生成したエントリを示す。
	ChatRoleSystem ChatRole = "system"
)

// ChatEntry は会話ログの1エントリを表す。
// ログは追記専用で、エントリの位置は作成順から変わらない。
// テキストのみRewriteで書き換え可能（生成処理中のプレースホルダー更新用）。
type ChatEntry struct {
	ID        string
	Role      ChatRole
	Text      string
	CreatedAt time.Time
}

package model

import "time"

// User はサービス利用ユーザーを表す。
// 本コアではIDを保存・ロード・生成のキーとして不透明に扱うのみで、
// 認証自体は外部のIdentityProviderの責務。
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

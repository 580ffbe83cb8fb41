// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/whirl/internal/model"
)

// ContentRepository は生成コンテンツの永続化インターフェース。
// 保存は常にユーザー単位の全件置き換えであり、マージは行わない。
type ContentRepository interface {
	// ReplaceByUserID は指定ユーザーの保存済みコンテンツを
	// 同一トランザクション内で全削除し、itemsで置き換える。
	// itemsが空の場合は全削除のみ行う。
	ReplaceByUserID(ctx context.Context, userID string, items []model.SavedContent) error

	// ListByUserID は指定ユーザーの保存済みコンテンツを保存位置順に返す。
	// 1件もない場合は空スライスを返す。
	ListByUserID(ctx context.Context, userID string) ([]model.SavedContent, error)
}

// PreferencesRepository はブランド設定の永続化インターフェース。
// user_idごとに1レコードで、保存はUPSERTされる。
type PreferencesRepository interface {
	// Upsert はブランド設定を作成または更新する。
	Upsert(ctx context.Context, prefs *model.BrandPreferences) error

	// FindByUserID は指定ユーザーのブランド設定を取得する。
	// 見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.BrandPreferences, error)

	// DeleteByUserID は指定ユーザーのブランド設定を削除する。
	// 存在しない場合もエラーにしない。
	DeleteByUserID(ctx context.Context, userID string) error

	// ListAll は全ユーザーのブランド設定を返す。
	ListAll(ctx context.Context) ([]*model.BrandPreferences, error)
}

package model

import "time"

// ApprovalStatus は生成コンテンツの承認状態を表す。
// Draft → Approved の一方向遷移のみ許可される（承認取り消しは存在しない）。
type ApprovalStatus string

const (
	// ApprovalStatusDraft は未承認のドラフト状態を示す。
	ApprovalStatusDraft ApprovalStatus = "draft"
	// ApprovalStatusApproved は承認済み状態を示す。
	ApprovalStatusApproved ApprovalStatus = "approved"
)

// GeneratedContent は1プラットフォーム分の生成コンテンツドラフトを表す。
// 1回の生成呼び出しのバッチ出力としてのみ作成され、次の生成またはロードで
// 全件置き換えられる（マージはしない）。
// IconRefは表示専用の派生値であり、永続化対象に含めない。
// ロード時にPlatformCatalogのルックアップで再解決される。
type GeneratedContent struct {
	PlatformID   string
	PlatformName string
	ColorToken   string
	IconRef      string // 永続化しない派生値
	ImageURL     string
	Caption      string
	Hashtags     []string
	Status       ApprovalStatus
}

// SavedContent はバックエンドに永続化されたコンテンツ1件を表す。
// IconRefを除くGeneratedContentの全フィールドと保存位置を保持する。
type SavedContent struct {
	ID           string
	UserID       string
	PlatformID   string
	PlatformName string
	ColorToken   string
	ImageURL     string
	Caption      string
	Hashtags     []string
	Status       ApprovalStatus
	Position     int // 保存時のボード上の並び順
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

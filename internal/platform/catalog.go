// Package platform は対応SNSプラットフォームの静的カタログを提供する。
// カタログはプロセス起動時に固定され、以後変更されない。
package platform

import "github.com/hitoshi/whirl/internal/model"

const (
	// FallbackIconRef は未知のプラットフォームIDに対するフォールバックアイコン。
	FallbackIconRef = "message-square"
	// FallbackColorToken は未知のプラットフォームIDに対するフォールバックカラー。
	FallbackColorToken = "bg-gray-500"
)

// catalog は対応プラットフォームの定義一覧。表示順を保持する。
var catalog = []model.Platform{
	{ID: "instagram", DisplayName: "Instagram", IconRef: "instagram", ColorToken: "bg-pink-500"},
	{ID: "linkedin", DisplayName: "LinkedIn", IconRef: "linkedin", ColorToken: "bg-blue-600"},
	{ID: "twitter", DisplayName: "X/Twitter", IconRef: "twitter", ColorToken: "bg-black"},
	{ID: "facebook", DisplayName: "Facebook", IconRef: "facebook", ColorToken: "bg-blue-500"},
	{ID: "threads", DisplayName: "Threads", IconRef: "message-square", ColorToken: "bg-black"},
	{ID: "youtube", DisplayName: "YouTube Shorts", IconRef: "youtube", ColorToken: "bg-red-500"},
}

// index はID→カタログ位置の逆引き。パッケージ初期化時に1回だけ構築する。
var index = func() map[string]int {
	m := make(map[string]int, len(catalog))
	for i, p := range catalog {
		m[p.ID] = i
	}
	return m
}()

// All はカタログの全プラットフォームを表示順のコピーで返す。
func All() []model.Platform {
	out := make([]model.Platform, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup は指定IDのプラットフォームを返す。未知のIDの場合はok=falseを返す。
func Lookup(id string) (model.Platform, bool) {
	i, ok := index[id]
	if !ok {
		return model.Platform{}, false
	}
	return catalog[i], true
}

// Resolve は指定IDのプラットフォームを返す。
// 未知のIDの場合はフォールバックのアイコン・カラーを持つプラットフォームを返す。
// サーバーが未知のプラットフォームIDを返してもクラッシュしないための防御。
func Resolve(id string) model.Platform {
	if p, ok := Lookup(id); ok {
		return p
	}
	return model.Platform{
		ID:          id,
		DisplayName: id,
		IconRef:     FallbackIconRef,
		ColorToken:  FallbackColorToken,
	}
}

// SortIDs は指定されたプラットフォームIDの集合をカタログの表示順に並べて返す。
// カタログに存在しないIDは末尾に付加される（順序は保証しない）。
func SortIDs(ids map[string]bool) []string {
	out := make([]string, 0, len(ids))
	for _, p := range catalog {
		if ids[p.ID] {
			out = append(out, p.ID)
		}
	}
	if len(out) == len(ids) {
		return out
	}
	for id := range ids {
		if _, ok := index[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

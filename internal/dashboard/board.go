package dashboard

import (
	"context"
	"log/slog"

	"github.com/hitoshi/whirl/internal/model"
	"github.com/hitoshi/whirl/internal/platform"
)

// ContentStoreClient はコンテンツボードの永続化境界のインターフェース。
// 実装はinternal/apiclientが提供する。
type ContentStoreClient interface {
	// SaveContent はコンテンツ列をuserIDをキーとして保存する。
	// itemsのIconRefはシリアライズ対象外（呼び出し側で除外済みとして扱う）。
	SaveContent(ctx context.Context, userID string, items []model.GeneratedContent) error
	// LoadContent はuserIDをキーとして保存済みコンテンツ列を取得する。
	LoadContent(ctx context.Context, userID string) ([]model.GeneratedContent, error)
}

// ActionKind はボード上のアイテムに対する拡張ポイント操作の種別を表す。
type ActionKind string

const (
	// ActionRegenerate は単一アイテムの再生成要求を示す。
	ActionRegenerate ActionKind = "regenerate"
	// ActionEdit は単一アイテムの編集要求を示す。
	ActionEdit ActionKind = "edit"
)

// PendingAction は記録された拡張ポイント操作を表す。
// バックエンドのワイヤ契約が未定義のため、本コアでは要求の記録のみを行う。
type PendingAction struct {
	Kind       ActionKind
	PlatformID string
}

// ContentBoard は生成されたコンテンツドラフトの列と、各アイテムの
// 承認ライフサイクルを管理する。アイテム列の所有者はボードのみであり、
// 生成・ロードによる全件置き換えか、ユーザー操作によるその場変更だけが起きる。
type ContentBoard struct {
	items   []model.GeneratedContent
	pending []PendingAction
	store   ContentStoreClient
	logger  *slog.Logger

	// generation はReplaceのたびに進む単調カウンタ。
	// 遅延したロード応答が新しい状態を上書きするのを防ぐ。
	generation uint64
}

// NewContentBoard はContentBoardを生成する。
func NewContentBoard(store ContentStoreClient, logger *slog.Logger) *ContentBoard {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentBoard{store: store, logger: logger}
}

// Replace はボードのアイテム列を全件置き換える。前の内容はマージされず破棄される。
// 各アイテムのアイコン・カラーはカタログで再解決され、未知のIDには
// フォールバックが適用される。承認状態が空のアイテムはDraftに初期化される。
func (b *ContentBoard) Replace(drafts []model.GeneratedContent) {
	items := make([]model.GeneratedContent, len(drafts))
	for i, d := range drafts {
		items[i] = resolveDraft(d)
	}
	b.items = items
	b.pending = nil
	b.generation++
}

// Items は現在のアイテム列のコピーを返す。
func (b *ContentBoard) Items() []model.GeneratedContent {
	out := make([]model.GeneratedContent, len(b.items))
	copy(out, b.items)
	return out
}

// Len は現在のアイテム数を返す。
func (b *ContentBoard) Len() int {
	return len(b.items)
}

// Approve は指定位置のアイテムをDraft→Approvedに遷移させる。
// 承認済みアイテムへの再実行は冪等（状態は変化しない）。
// 範囲外の添字はno-op。承認の取り消しは存在しない。
func (b *ContentBoard) Approve(index int) {
	if index < 0 || index >= len(b.items) {
		return
	}
	b.items[index].Status = model.ApprovalStatusApproved
}

// Cancel は指定位置のアイテムを列から取り除く。
// 後続アイテムの添字は1つずつ前に詰められ、相対順序は維持される。
// この操作はコア内では取り消せない。範囲外の添字はno-op。
func (b *ContentBoard) Cancel(index int) {
	if index < 0 || index >= len(b.items) {
		return
	}
	b.items = append(b.items[:index], b.items[index+1:]...)
}

// Regenerate は単一アイテムの再生成の意図を記録する。
// 実際の再生成呼び出しは拡張ポイントであり、本コアではネットワーク境界に
// 対して実装しない。範囲外の添字はno-op。
func (b *ContentBoard) Regenerate(index int) {
	b.recordAction(ActionRegenerate, index)
}

// Edit は単一アイテムの編集の意図を記録する。
// 編集UIはスコープ外であり、操作境界のみがコアの契約に含まれる。
// 範囲外の添字はno-op。
func (b *ContentBoard) Edit(index int) {
	b.recordAction(ActionEdit, index)
}

// PendingActions は記録済みの拡張ポイント操作のコピーを返す。
// 記録は次のReplaceで破棄される。
func (b *ContentBoard) PendingActions() []PendingAction {
	out := make([]PendingAction, len(b.pending))
	copy(out, b.pending)
	return out
}

// Save は現在のアイテム列をuserIDをキーとして永続化する。
// userIDが空の場合はネットワーク呼び出しを行わず「未サインイン」エラーを返す。
// 失敗はログに記録されるのみで再試行されず、ボードの状態も変化しない。
func (b *ContentBoard) Save(ctx context.Context, userID string) error {
	if userID == "" {
		return model.NewNotSignedInError()
	}

	// IconRefは派生値のため永続形には含めない
	payload := make([]model.GeneratedContent, len(b.items))
	for i, item := range b.items {
		item.IconRef = ""
		payload[i] = item
	}

	if err := b.store.SaveContent(ctx, userID, payload); err != nil {
		b.logger.Error("コンテンツの保存に失敗しました",
			slog.String("user_id", userID),
			slog.Int("item_count", len(payload)),
			slog.String("error", err.Error()),
		)
		return model.NewContentSaveFailedError(err.Error())
	}

	b.logger.Info("コンテンツを保存しました",
		slog.String("user_id", userID),
		slog.Int("item_count", len(payload)),
	)
	return nil
}

// Load はuserIDをキーとして保存済みコンテンツを取得し、成功時にボードを
// 全件置き換える（生成時と同じreplace-not-mergeポリシー）。
// アイコン・カラーはカタログで再解決される。
// 失敗時、およびリクエスト開始後にボードが別の置き換えで進んでいた場合は
// ボードを変更しない（遅延応答による新しい状態の上書きを防ぐ）。
func (b *ContentBoard) Load(ctx context.Context, userID string) error {
	if userID == "" {
		return model.NewNotSignedInError()
	}

	started := b.generation

	items, err := b.store.LoadContent(ctx, userID)
	if err != nil {
		b.logger.Error("コンテンツの読み込みに失敗しました",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return model.NewContentLoadFailedError(err.Error())
	}

	if b.generation != started {
		b.logger.Warn("遅延したロード応答を破棄しました",
			slog.String("user_id", userID),
			slog.Uint64("started_generation", started),
			slog.Uint64("current_generation", b.generation),
		)
		return nil
	}

	b.Replace(items)

	b.logger.Info("コンテンツを読み込みました",
		slog.String("user_id", userID),
		slog.Int("item_count", len(items)),
	)
	return nil
}

func (b *ContentBoard) recordAction(kind ActionKind, index int) {
	if index < 0 || index >= len(b.items) {
		return
	}
	item := b.items[index]
	b.pending = append(b.pending, PendingAction{Kind: kind, PlatformID: item.PlatformID})
	b.logger.Info("アイテム操作の要求を記録しました",
		slog.String("action", string(kind)),
		slog.String("platform_id", item.PlatformID),
	)
}

// resolveDraft はドラフトの表示用フィールドをカタログで再解決する。
func resolveDraft(d model.GeneratedContent) model.GeneratedContent {
	p := platform.Resolve(d.PlatformID)
	d.IconRef = p.IconRef
	if d.ColorToken == "" {
		d.ColorToken = p.ColorToken
	}
	if d.PlatformName == "" {
		d.PlatformName = p.DisplayName
	}
	if d.Status == "" {
		d.Status = model.ApprovalStatusDraft
	}
	return d
}

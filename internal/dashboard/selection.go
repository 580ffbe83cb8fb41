// Package dashboard はコンテンツ生成ダッシュボードのオーケストレーションコアを提供する。
// プラットフォームの接続・選択状態、会話ログ、生成パイプライン、
// コンテンツボードの4つの状態コンテナから構成される。
// 各コンテナは単一の論理フローからのみ書き込まれる（single-writer）。
package dashboard

import (
	"log/slog"

	"github.com/hitoshi/whirl/internal/model"
	"github.com/hitoshi/whirl/internal/platform"
)

// ToggleResult はToggleの結果種別を表す。
type ToggleResult string

const (
	// ToggleIgnored は未知のプラットフォームIDで何も起きなかったことを示す。
	ToggleIgnored ToggleResult = "ignored"
	// ToggleConnectRequired は未接続のため接続フローが要求されたことを示す。
	// 選択状態は変更されない。
	ToggleConnectRequired ToggleResult = "connect_required"
	// ToggleSelected は選択状態に追加されたことを示す。
	ToggleSelected ToggleResult = "selected"
	// ToggleDeselected は選択状態から除去されたことを示す。
	ToggleDeselected ToggleResult = "deselected"
)

// ConnectPrompter は未接続プラットフォームの切り替え時に発火する
// 接続フロー開始の副作用を受け取るインターフェース。
// UI層が認証ダイアログの表示などを実装する。
type ConnectPrompter interface {
	// PromptConnect は指定プラットフォームの接続フローの開始を要求する。
	PromptConnect(p model.Platform)
}

// PlatformSelector はセッションスコープの接続状態と選択状態を管理する。
// 不変条件: いかなるToggleの解決後も、選択集合は接続集合の部分集合である。
// 接続状態はセッション限りで、サーバー側には永続化されない。
type PlatformSelector struct {
	connected map[string]bool
	selected  map[string]bool
	prompter  ConnectPrompter
	logger    *slog.Logger
}

// NewPlatformSelector はPlatformSelectorを生成する。
// prompterがnilの場合、接続要求の副作用は発火しない（選択状態は不変のまま）。
func NewPlatformSelector(prompter ConnectPrompter, logger *slog.Logger) *PlatformSelector {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlatformSelector{
		connected: make(map[string]bool),
		selected:  make(map[string]bool),
		prompter:  prompter,
		logger:    logger,
	}
}

// Toggle は指定プラットフォームの選択状態を切り替える。
//   - 未知のID: 何もしない（panicしない防御的no-op）。
//   - 未接続: 選択状態を変更せず、接続フロー開始の副作用のみ発火する。
//   - 接続済み: 選択状態の所属を反転する。
func (s *PlatformSelector) Toggle(platformID string) ToggleResult {
	p, ok := platform.Lookup(platformID)
	if !ok {
		s.logger.Warn("未知のプラットフォームIDのトグルを無視しました",
			slog.String("platform_id", platformID),
		)
		return ToggleIgnored
	}

	if !s.connected[platformID] {
		if s.prompter != nil {
			s.prompter.PromptConnect(p)
		}
		return ToggleConnectRequired
	}

	if s.selected[platformID] {
		delete(s.selected, platformID)
		return ToggleDeselected
	}
	s.selected[platformID] = true
	return ToggleSelected
}

// CompleteConnection は接続フローの完了を記録する。
// プラットフォームは接続集合と選択集合の両方に追加される
// （接続は常に選択を伴うが、選択解除は切断を伴わない、という意図的な非対称）。
// 資格情報は不透明に受け取るのみで検証も送信も行わない。
// 未知のIDはno-op。
func (s *PlatformSelector) CompleteConnection(platformID string, _ model.PlatformCredentials) {
	p, ok := platform.Lookup(platformID)
	if !ok {
		s.logger.Warn("未知のプラットフォームIDの接続完了を無視しました",
			slog.String("platform_id", platformID),
		)
		return
	}

	s.connected[platformID] = true
	s.selected[platformID] = true

	s.logger.Info("プラットフォームに接続しました",
		slog.String("platform_id", p.ID),
		slog.String("platform_name", p.DisplayName),
	)
}

// IsConnected は指定プラットフォームが接続済みかを返す。
func (s *PlatformSelector) IsConnected(platformID string) bool {
	return s.connected[platformID]
}

// IsSelected は指定プラットフォームが選択中かを返す。
func (s *PlatformSelector) IsSelected(platformID string) bool {
	return s.selected[platformID]
}

// Selected は選択中のプラットフォームIDをカタログの表示順で返す。
func (s *PlatformSelector) Selected() []string {
	return platform.SortIDs(s.selected)
}

// Connected は接続済みのプラットフォームIDをカタログの表示順で返す。
func (s *PlatformSelector) Connected() []string {
	return platform.SortIDs(s.connected)
}

package dashboard

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/whirl/internal/model"
)

// ProcessingMessage は生成処理中に表示されるプレースホルダーの固定文言。
// パイプラインの解決時にRewriteでサーバーメッセージまたはエラー文言に書き換えられる。
const ProcessingMessage = "Processing your request and generating platform-specific content..."

// GenerationErrorMessage は生成失敗時にプレースホルダーへ書き込まれる固定の謝罪文言。
const GenerationErrorMessage = "I'm sorry, I encountered an error while generating content. Please try again or check your API configuration."

// ConversationLog は生成リクエストを駆動するユーザー/システムの会話ログ。
// 追記専用で、エントリの位置は作成順から変わらない。
// 書き換えはテキストのみで、位置とIDは維持される。
type ConversationLog struct {
	entries []model.ChatEntry
	now     func() time.Time
}

// NewConversationLog はConversationLogを生成する。
func NewConversationLog() *ConversationLog {
	return &ConversationLog{now: time.Now}
}

// AppendUser はユーザーエントリを追記し、そのIDを返す。
// 空白のみのテキストはno-opとして空IDを返す（生成開始の前提条件）。
func (l *ConversationLog) AppendUser(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return l.append(model.ChatRoleUser, text)
}

// AppendSystemPlaceholder は固定の処理中メッセージを持つシステムエントリを
// 追記し、後からRewriteで書き換えるためのIDを返す。
// プレースホルダーを1つだけ追記して書き換える方式により、リクエスト実行中の
// 重複エントリを防ぎ、ユーザーが注視する位置を安定させる。
func (l *ConversationLog) AppendSystemPlaceholder() string {
	return l.append(model.ChatRoleSystem, ProcessingMessage)
}

// Rewrite は指定IDのエントリのテキストをその場で書き換える。
// 一致するエントリが存在しない場合はno-op。位置は変化しない。
func (l *ConversationLog) Rewrite(entryID, newText string) {
	for i := range l.entries {
		if l.entries[i].ID == entryID {
			l.entries[i].Text = newText
			return
		}
	}
}

// Entries は全エントリを追記順のコピーで返す。
func (l *ConversationLog) Entries() []model.ChatEntry {
	out := make([]model.ChatEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len はエントリ数を返す。
func (l *ConversationLog) Len() int {
	return len(l.entries)
}

func (l *ConversationLog) append(role model.ChatRole, text string) string {
	entry := model.ChatEntry{
		ID:        uuid.New().String(),
		Role:      role,
		Text:      text,
		CreatedAt: l.now(),
	}
	l.entries = append(l.entries, entry)
	return entry.ID
}

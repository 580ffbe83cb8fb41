package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer は利用者入力および生成結果のテキストを無害化する。
// キャプションやブランド設定の自由記述は HTML として解釈される場面が
// あるため、タグをすべて除去したプレーンテキストとして保存する。
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer は既定のサニタイザを生成する。
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizeText は入力からすべての HTML タグを除去し、前後の空白を
// 取り除いた結果を返す。
func (s *TextSanitizer) SanitizeText(input string) string {
	return strings.TrimSpace(s.policy.Sanitize(input))
}

// SanitizeList は文字列配列の各要素を無害化し、空になった要素を
// 取り除く。ハッシュタグやトーン指定などの短い語のリストに使う。
func (s *TextSanitizer) SanitizeList(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		cleaned := s.SanitizeText(item)
		if cleaned == "" {
			continue
		}
		out = append(out, cleaned)
	}
	return out
}

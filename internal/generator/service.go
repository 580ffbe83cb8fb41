package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode"

	"github.com/hitoshi/whirl/internal/model"
	"github.com/hitoshi/whirl/internal/platform"
	"github.com/hitoshi/whirl/internal/security"
)

// Completer は文章生成のバックエンドを抽象化する。
// nil の場合、サービスは決定的なテンプレート合成のみで動作する。
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service はプラットフォーム別のコンテンツドラフトを組み立てる生成サービス。
// 外部 LLM が設定されていればそれを使い、解析に失敗したプラットフォーム分は
// テンプレート合成で補完する。
type Service struct {
	completer Completer
	sanitizer *security.TextSanitizer
	logger    *slog.Logger
}

// NewService は生成サービスを生成する。completer は nil でもよい。
func NewService(completer Completer, sanitizer *security.TextSanitizer, logger *slog.Logger) *Service {
	return &Service{
		completer: completer,
		sanitizer: sanitizer,
		logger:    logger,
	}
}

// platformRule はプラットフォームごとの出力制約。
type platformRule struct {
	maxCaptionLen int // 0 は制限なし
	hashtagLimit  int
	imageSize     string
	callToAction  string
}

var rules = map[string]platformRule{
	"instagram": {hashtagLimit: 8, imageSize: "1080x1080", callToAction: "Double tap if you agree and share your thoughts below!"},
	"linkedin":  {hashtagLimit: 3, imageSize: "1200x627", callToAction: "What has your experience been? Share in the comments."},
	"twitter":   {maxCaptionLen: 280, hashtagLimit: 2, imageSize: "1600x900", callToAction: ""},
	"facebook":  {hashtagLimit: 3, imageSize: "1200x630", callToAction: "Tell us what you think in the comments!"},
	"threads":   {maxCaptionLen: 500, hashtagLimit: 3, imageSize: "1080x1080", callToAction: "Join the conversation."},
	"youtube":   {hashtagLimit: 4, imageSize: "1280x720", callToAction: "Watch until the end and subscribe for more."},
}

var defaultRule = platformRule{hashtagLimit: 3, imageSize: "1200x630"}

// Generate は対象プラットフォームごとに1件ずつドラフトを作成する。
// 返却順はリクエストの TargetPlatformIDs の順序を保持する。
func (s *Service) Generate(ctx context.Context, req model.GenerationRequest, prefs *model.BrandPreferences) (*model.GenerationResult, error) {
	if len(req.TargetPlatformIDs) == 0 {
		return nil, fmt.Errorf("対象プラットフォームが空")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("プロンプトが空")
	}

	llmCaptions := map[string]llmDraft{}
	if s.completer != nil {
		response, err := s.completer.Complete(ctx, s.buildPrompt(prompt, req.TargetPlatformIDs, prefs))
		if err != nil {
			s.logger.Error("LLM 呼び出しに失敗", "error", err)
			return nil, fmt.Errorf("コンテンツ生成に失敗: %w", err)
		}
		llmCaptions = parseDrafts(response)
	}

	drafts := make([]model.GeneratedContent, 0, len(req.TargetPlatformIDs))
	names := make([]string, 0, len(req.TargetPlatformIDs))
	for _, id := range req.TargetPlatformIDs {
		p := platform.Resolve(id)
		rule, ok := rules[p.ID]
		if !ok {
			rule = defaultRule
		}

		var caption string
		var hashtags []string
		if d, ok := llmCaptions[p.ID]; ok {
			caption = s.sanitizer.SanitizeText(d.caption)
			hashtags = s.sanitizer.SanitizeList(d.hashtags)
		}
		if caption == "" {
			caption = composeCaption(p, prompt, prefs, rule)
			hashtags = composeHashtags(prompt, rule.hashtagLimit)
		}
		if rule.maxCaptionLen > 0 {
			caption = truncateRunes(caption, rule.maxCaptionLen)
		}

		drafts = append(drafts, model.GeneratedContent{
			PlatformID:   p.ID,
			PlatformName: p.DisplayName,
			ColorToken:   p.ColorToken,
			IconRef:      p.IconRef,
			ImageURL:     placeholderImageURL(p.DisplayName, rule.imageSize),
			Caption:      caption,
			Hashtags:     hashtags,
			Status:       model.ApprovalStatusDraft,
		})
		names = append(names, p.DisplayName)
	}

	return &model.GenerationResult{
		Message: fmt.Sprintf("I've created content drafts for %s based on your request. Review them below and approve the ones you like!", joinNames(names)),
		Drafts:  drafts,
	}, nil
}

// buildPrompt はブランド設定を織り込んだ LLM 向けプロンプトを組み立てる。
func (s *Service) buildPrompt(userPrompt string, platformIDs []string, prefs *model.BrandPreferences) string {
	var b strings.Builder
	b.WriteString("You are a social media marketing copywriter.\n\n")
	b.WriteString("Request:\n")
	b.WriteString(userPrompt)
	b.WriteString("\n\n")

	if prefs != nil {
		b.WriteString("Brand context:\n")
		if len(prefs.ToneOfVoice) > 0 {
			fmt.Fprintf(&b, "- Tone of voice: %s\n", strings.Join(prefs.ToneOfVoice, ", "))
		}
		if prefs.ProductDescription != "" {
			fmt.Fprintf(&b, "- Product: %s\n", prefs.ProductDescription)
		}
		if prefs.AgeRange != "" {
			fmt.Fprintf(&b, "- Target age range: %s\n", prefs.AgeRange)
		}
		if prefs.Location != "" {
			fmt.Fprintf(&b, "- Target location: %s\n", prefs.Location)
		}
		if prefs.TargetsB2B {
			b.WriteString("- The brand sells B2B\n")
		}
		if prefs.AdditionalBrandInfo != "" {
			fmt.Fprintf(&b, "- Additional info: %s\n", prefs.AdditionalBrandInfo)
		}
		b.WriteString("\n")
	}

	b.WriteString("Write one post per platform. Format your response exactly as:\n")
	for _, id := range platformIDs {
		fmt.Fprintf(&b, "===PLATFORM %s===\n[caption]\nHASHTAGS: [space separated hashtags]\n", id)
	}
	return b.String()
}

type llmDraft struct {
	caption  string
	hashtags []string
}

// parseDrafts は ===PLATFORM id=== 区切りのレスポンスを解析する。
// 形式に合わない断片は無視する。
func parseDrafts(response string) map[string]llmDraft {
	drafts := map[string]llmDraft{}
	parts := strings.Split(response, "===PLATFORM")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lines := strings.Split(part, "\n")
		id := strings.TrimSpace(strings.TrimSuffix(lines[0], "==="))
		id = strings.Trim(id, "= ")
		if id == "" || len(lines) < 2 {
			continue
		}

		var captionLines []string
		var hashtags []string
		for _, line := range lines[1:] {
			if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "HASHTAGS:"); ok {
				hashtags = strings.Fields(rest)
				continue
			}
			captionLines = append(captionLines, line)
		}
		caption := strings.TrimSpace(strings.Join(captionLines, "\n"))
		if caption == "" {
			continue
		}
		drafts[id] = llmDraft{caption: caption, hashtags: hashtags}
	}
	return drafts
}

// composeCaption は LLM を使わない場合のテンプレート合成。
func composeCaption(p model.Platform, prompt string, prefs *model.BrandPreferences, rule platformRule) string {
	var b strings.Builder
	b.WriteString(prompt)

	if prefs != nil && prefs.ProductDescription != "" {
		b.WriteString("\n\n")
		b.WriteString(prefs.ProductDescription)
	}
	if rule.callToAction != "" {
		b.WriteString("\n\n")
		b.WriteString(rule.callToAction)
	}
	return b.String()
}

// composeHashtags はプロンプト中の語からハッシュタグを導出する。
func composeHashtags(prompt string, limit int) []string {
	if limit <= 0 {
		limit = defaultRule.hashtagLimit
	}
	seen := map[string]bool{}
	var tags []string
	for _, word := range strings.Fields(prompt) {
		word = strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if len([]rune(word)) < 4 || seen[word] {
			continue
		}
		seen[word] = true
		tags = append(tags, "#"+word)
		if len(tags) >= limit {
			break
		}
	}
	if len(tags) == 0 {
		tags = []string{"#marketing"}
	}
	return tags
}

func placeholderImageURL(displayName, size string) string {
	return fmt.Sprintf("https://placehold.co/%s/png?text=%s", size, url.QueryEscape(displayName))
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

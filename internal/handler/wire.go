// Package handler はAPIエンドポイントのHTTPハンドラーを提供する。
package handler

import (
	"time"

	"github.com/hitoshi/whirl/internal/model"
)

// contentItemWire はコンテンツ1件のワイヤ表現。
// フィールド名はダッシュボードSPAが期待するキャメルケース混在の形に合わせる。
type contentItemWire struct {
	Platform     string          `json:"platform"`
	PlatformName string          `json:"platformName"`
	Color        string          `json:"color"`
	Image        string          `json:"image"`
	Content      contentBodyWire `json:"content"`
	Approved     bool            `json:"approved"`
}

// contentBodyWire はキャプションとハッシュタグのネスト構造。
type contentBodyWire struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

// generateRequest はコンテンツ生成リクエストのボディ。
type generateRequest struct {
	UserID    string   `json:"user_id"`
	Message   string   `json:"message"`
	Platforms []string `json:"platforms"`
}

// generateResponse はコンテンツ生成レスポンス。
// 生成の失敗は200 + success:false + errorで返し、エラーメッセージを
// そのまま会話ログに表示できるようにする。
type generateResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Content []contentItemWire `json:"content,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// saveRequest はコンテンツ保存リクエストのボディ。
type saveRequest struct {
	UserID  string            `json:"user_id"`
	Content []contentItemWire `json:"content"`
}

// saveResponse はコンテンツ保存レスポンス。
type saveResponse struct {
	Success bool `json:"success"`
}

// loadResponse はコンテンツロードレスポンス。
type loadResponse struct {
	Success bool              `json:"success"`
	Content []contentItemWire `json:"content"`
}

// preferencesWire はブランド設定のワイヤ表現。フィールド名はフォームが
// 送信するsnake_caseに合わせる。
type preferencesWire struct {
	ID                 int64    `json:"id,omitempty"`
	UserID             string   `json:"user_id"`
	AgeRange           string   `json:"age_range,omitempty"`
	Location           string   `json:"location,omitempty"`
	ProductDescription string   `json:"product_description,omitempty"`
	MarketingStrategy  string   `json:"marketing_strategy,omitempty"`
	BudgetRange        string   `json:"budget_range,omitempty"`
	ToneOfVoice        []string `json:"tone_of_voice,omitempty"`
	CompanyCulture     string   `json:"company_culture,omitempty"`
	PastAds            string   `json:"past_ads,omitempty"`

	SalesImportance              int `json:"sales_importance,omitempty"`
	BrandAwarenessImportance     int `json:"brand_awareness_importance,omitempty"`
	CustomerEngagementImportance int `json:"customer_engagement_importance,omitempty"`
	LeadGenerationImportance     int `json:"lead_generation_importance,omitempty"`
	BrandRecognitionImportance   int `json:"brand_recognition_importance,omitempty"`

	HasSocialMediaPresence bool `json:"has_social_media_presence,omitempty"`
	TargetsB2B             bool `json:"targets_b2b,omitempty"`
	HasSeasonalMarketing   bool `json:"has_seasonal_marketing,omitempty"`

	LogoURL          string `json:"logo_url,omitempty"`
	PrimaryColor     string `json:"primary_color,omitempty"`
	SecondaryColor   string `json:"secondary_color,omitempty"`
	AdditionalColors string `json:"additional_colors,omitempty"`

	BrandInspiration    string `json:"brand_inspiration,omitempty"`
	AdditionalBrandInfo string `json:"additional_brand_info,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// --- 変換 ---

func savedFromWire(items []contentItemWire) []model.SavedContent {
	out := make([]model.SavedContent, len(items))
	for i, w := range items {
		status := model.ApprovalStatusDraft
		if w.Approved {
			status = model.ApprovalStatusApproved
		}
		out[i] = model.SavedContent{
			PlatformID:   w.Platform,
			PlatformName: w.PlatformName,
			ColorToken:   w.Color,
			ImageURL:     w.Image,
			Caption:      w.Content.Caption,
			Hashtags:     w.Content.Hashtags,
			Status:       status,
		}
	}
	return out
}

func savedToWire(items []model.SavedContent) []contentItemWire {
	out := make([]contentItemWire, len(items))
	for i, item := range items {
		out[i] = contentItemWire{
			Platform:     item.PlatformID,
			PlatformName: item.PlatformName,
			Color:        item.ColorToken,
			Image:        item.ImageURL,
			Content: contentBodyWire{
				Caption:  item.Caption,
				Hashtags: item.Hashtags,
			},
			Approved: item.Status == model.ApprovalStatusApproved,
		}
	}
	return out
}

func draftsToWire(drafts []model.GeneratedContent) []contentItemWire {
	out := make([]contentItemWire, len(drafts))
	for i, d := range drafts {
		out[i] = contentItemWire{
			Platform:     d.PlatformID,
			PlatformName: d.PlatformName,
			Color:        d.ColorToken,
			Image:        d.ImageURL,
			Content: contentBodyWire{
				Caption:  d.Caption,
				Hashtags: d.Hashtags,
			},
			Approved: d.Status == model.ApprovalStatusApproved,
		}
	}
	return out
}

func prefsFromWire(w *preferencesWire) *model.BrandPreferences {
	return &model.BrandPreferences{
		ID:                 w.ID,
		UserID:             w.UserID,
		AgeRange:           w.AgeRange,
		Location:           w.Location,
		ProductDescription: w.ProductDescription,
		MarketingStrategy:  w.MarketingStrategy,
		BudgetRange:        w.BudgetRange,
		ToneOfVoice:        w.ToneOfVoice,
		CompanyCulture:     w.CompanyCulture,
		PastAds:            w.PastAds,

		SalesImportance:              w.SalesImportance,
		BrandAwarenessImportance:     w.BrandAwarenessImportance,
		CustomerEngagementImportance: w.CustomerEngagementImportance,
		LeadGenerationImportance:     w.LeadGenerationImportance,
		BrandRecognitionImportance:   w.BrandRecognitionImportance,

		HasSocialMediaPresence: w.HasSocialMediaPresence,
		TargetsB2B:             w.TargetsB2B,
		HasSeasonalMarketing:   w.HasSeasonalMarketing,

		LogoURL:          w.LogoURL,
		PrimaryColor:     w.PrimaryColor,
		SecondaryColor:   w.SecondaryColor,
		AdditionalColors: w.AdditionalColors,

		BrandInspiration:    w.BrandInspiration,
		AdditionalBrandInfo: w.AdditionalBrandInfo,
	}
}

func prefsToWire(p *model.BrandPreferences) *preferencesWire {
	w := &preferencesWire{
		ID:                 p.ID,
		UserID:             p.UserID,
		AgeRange:           p.AgeRange,
		Location:           p.Location,
		ProductDescription: p.ProductDescription,
		MarketingStrategy:  p.MarketingStrategy,
		BudgetRange:        p.BudgetRange,
		ToneOfVoice:        p.ToneOfVoice,
		CompanyCulture:     p.CompanyCulture,
		PastAds:            p.PastAds,

		SalesImportance:              p.SalesImportance,
		BrandAwarenessImportance:     p.BrandAwarenessImportance,
		CustomerEngagementImportance: p.CustomerEngagementImportance,
		LeadGenerationImportance:     p.LeadGenerationImportance,
		BrandRecognitionImportance:   p.BrandRecognitionImportance,

		HasSocialMediaPresence: p.HasSocialMediaPresence,
		TargetsB2B:             p.TargetsB2B,
		HasSeasonalMarketing:   p.HasSeasonalMarketing,

		LogoURL:          p.LogoURL,
		PrimaryColor:     p.PrimaryColor,
		SecondaryColor:   p.SecondaryColor,
		AdditionalColors: p.AdditionalColors,

		BrandInspiration:    p.BrandInspiration,
		AdditionalBrandInfo: p.AdditionalBrandInfo,
	}
	if !p.CreatedAt.IsZero() {
		w.CreatedAt = &p.CreatedAt
	}
	if !p.UpdatedAt.IsZero() {
		w.UpdatedAt = &p.UpdatedAt
	}
	return w
}

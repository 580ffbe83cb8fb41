package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hitoshi/whirl/internal/model"
)

// preferencesWire はブランド設定のワイヤ表現。
// フィールド名は元のフォームが送信するsnake_caseに合わせる。
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

// SavePreferences はブランド設定を保存（UPSERT）し、保存後の設定を返す。
func (c *Client) SavePreferences(ctx context.Context, prefs *model.BrandPreferences) (*model.BrandPreferences, error) {
	var resp preferencesWire
	if err := c.postJSON(ctx, "/api/brand-preferences", prefsToWire(prefs), &resp); err != nil {
		return nil, fmt.Errorf("ブランド設定の保存に失敗しました: %w", err)
	}
	return prefsFromWire(&resp), nil
}

// GetPreferences は指定ユーザーのブランド設定を取得する。
// 404は「未設定」を意味するため、エラーではなく(nil, nil)を返す。
func (c *Client) GetPreferences(ctx context.Context, userID string) (*model.BrandPreferences, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/brand-preferences/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ブランド設定の取得に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ブランド設定APIがステータス %d を返しました", resp.StatusCode)
	}

	var wire preferencesWire
	if err := decodeJSONBody(resp, &wire); err != nil {
		return nil, err
	}
	return prefsFromWire(&wire), nil
}

// DeletePreferences は指定ユーザーのブランド設定を削除する。
func (c *Client) DeletePreferences(ctx context.Context, userID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/api/brand-preferences/"+url.PathEscape(userID), nil)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ブランド設定の削除に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ブランド設定APIがステータス %d を返しました", resp.StatusCode)
	}
	return nil
}

// ListPreferences は全ユーザーのブランド設定を取得する（管理用途）。
func (c *Client) ListPreferences(ctx context.Context) ([]model.BrandPreferences, error) {
	var wires []preferencesWire
	if err := c.getJSON(ctx, "/api/brand-preferences", &wires); err != nil {
		return nil, fmt.Errorf("ブランド設定一覧の取得に失敗しました: %w", err)
	}

	out := make([]model.BrandPreferences, len(wires))
	for i := range wires {
		out[i] = *prefsFromWire(&wires[i])
	}
	return out, nil
}

// --- 変換 ---

func prefsToWire(p *model.BrandPreferences) *preferencesWire {
	return &preferencesWire{
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
}

func prefsFromWire(w *preferencesWire) *model.BrandPreferences {
	p := &model.BrandPreferences{
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
	if w.CreatedAt != nil {
		p.CreatedAt = *w.CreatedAt
	}
	if w.UpdatedAt != nil {
		p.UpdatedAt = *w.UpdatedAt
	}
	return p
}

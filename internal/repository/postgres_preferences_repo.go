package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/whirl/internal/model"
)

// PostgresPreferencesRepo はPostgreSQLを使用したブランド設定リポジトリ。
type PostgresPreferencesRepo struct {
	db *sql.DB
}

// NewPostgresPreferencesRepo はPostgresPreferencesRepoを生成する。
func NewPostgresPreferencesRepo(db *sql.DB) *PostgresPreferencesRepo {
	return &PostgresPreferencesRepo{db: db}
}

const preferencesColumns = `id, user_id, age_range, location, product_description,
	marketing_strategy, budget_range, tone_of_voice, company_culture, past_ads,
	sales_importance, brand_awareness_importance, customer_engagement_importance,
	lead_generation_importance, brand_recognition_importance,
	has_social_media_presence, targets_b2b, has_seasonal_marketing,
	logo_url, primary_color, secondary_color, additional_colors,
	brand_inspiration, additional_brand_info, created_at, updated_at`

// Upsert はブランド設定を作成または更新する。
// user_idのUNIQUE制約を使ったON CONFLICTで1ユーザー1レコードを保証する。
func (r *PostgresPreferencesRepo) Upsert(ctx context.Context, prefs *model.BrandPreferences) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO brand_preferences
		   (user_id, age_range, location, product_description, marketing_strategy,
		    budget_range, tone_of_voice, company_culture, past_ads,
		    sales_importance, brand_awareness_importance, customer_engagement_importance,
		    lead_generation_importance, brand_recognition_importance,
		    has_social_media_presence, targets_b2b, has_seasonal_marketing,
		    logo_url, primary_color, secondary_color, additional_colors,
		    brand_inspiration, additional_brand_info)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		         $15, $16, $17, $18, $19, $20, $21, $22, $23)
		 ON CONFLICT (user_id) DO UPDATE SET
		   age_range = EXCLUDED.age_range,
		   location = EXCLUDED.location,
		   product_description = EXCLUDED.product_description,
		   marketing_strategy = EXCLUDED.marketing_strategy,
		   budget_range = EXCLUDED.budget_range,
		   tone_of_voice = EXCLUDED.tone_of_voice,
		   company_culture = EXCLUDED.company_culture,
		   past_ads = EXCLUDED.past_ads,
		   sales_importance = EXCLUDED.sales_importance,
		   brand_awareness_importance = EXCLUDED.brand_awareness_importance,
		   customer_engagement_importance = EXCLUDED.customer_engagement_importance,
		   lead_generation_importance = EXCLUDED.lead_generation_importance,
		   brand_recognition_importance = EXCLUDED.brand_recognition_importance,
		   has_social_media_presence = EXCLUDED.has_social_media_presence,
		   targets_b2b = EXCLUDED.targets_b2b,
		   has_seasonal_marketing = EXCLUDED.has_seasonal_marketing,
		   logo_url = EXCLUDED.logo_url,
		   primary_color = EXCLUDED.primary_color,
		   secondary_color = EXCLUDED.secondary_color,
		   additional_colors = EXCLUDED.additional_colors,
		   brand_inspiration = EXCLUDED.brand_inspiration,
		   additional_brand_info = EXCLUDED.additional_brand_info,
		   updated_at = now()
		 RETURNING id, created_at, updated_at`,
		prefs.UserID, prefs.AgeRange, prefs.Location, prefs.ProductDescription,
		prefs.MarketingStrategy, prefs.BudgetRange, pq.Array(prefs.ToneOfVoice),
		prefs.CompanyCulture, prefs.PastAds,
		prefs.SalesImportance, prefs.BrandAwarenessImportance, prefs.CustomerEngagementImportance,
		prefs.LeadGenerationImportance, prefs.BrandRecognitionImportance,
		prefs.HasSocialMediaPresence, prefs.TargetsB2B, prefs.HasSeasonalMarketing,
		prefs.LogoURL, prefs.PrimaryColor, prefs.SecondaryColor, prefs.AdditionalColors,
		prefs.BrandInspiration, prefs.AdditionalBrandInfo,
	).Scan(&prefs.ID, &prefs.CreatedAt, &prefs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ブランド設定の保存に失敗しました: %w", err)
	}

	return nil
}

// FindByUserID は指定ユーザーのブランド設定を取得する。見つからない場合はnilを返す。
func (r *PostgresPreferencesRepo) FindByUserID(ctx context.Context, userID string) (*model.BrandPreferences, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+preferencesColumns+` FROM brand_preferences WHERE user_id = $1`,
		userID,
	)

	prefs, err := scanPreferences(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ブランド設定の取得に失敗しました: %w", err)
	}

	return prefs, nil
}

// DeleteByUserID は指定ユーザーのブランド設定を削除する。
func (r *PostgresPreferencesRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM brand_preferences WHERE user_id = $1`, userID,
	); err != nil {
		return fmt.Errorf("ブランド設定の削除に失敗しました: %w", err)
	}
	return nil
}

// ListAll は全ユーザーのブランド設定をuser_id順に返す。
func (r *PostgresPreferencesRepo) ListAll(ctx context.Context) ([]*model.BrandPreferences, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+preferencesColumns+` FROM brand_preferences ORDER BY user_id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ブランド設定の一覧取得に失敗しました: %w", err)
	}
	defer rows.Close()

	list := []*model.BrandPreferences{}
	for rows.Next() {
		prefs, err := scanPreferences(rows)
		if err != nil {
			return nil, fmt.Errorf("ブランド設定行の読み取りに失敗しました: %w", err)
		}
		list = append(list, prefs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ブランド設定の走査に失敗しました: %w", err)
	}

	return list, nil
}

// rowScanner はsql.Rowとsql.Rowsの共通部分。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreferences(row rowScanner) (*model.BrandPreferences, error) {
	prefs := &model.BrandPreferences{}
	var tones pq.StringArray
	err := row.Scan(
		&prefs.ID, &prefs.UserID, &prefs.AgeRange, &prefs.Location, &prefs.ProductDescription,
		&prefs.MarketingStrategy, &prefs.BudgetRange, &tones, &prefs.CompanyCulture, &prefs.PastAds,
		&prefs.SalesImportance, &prefs.BrandAwarenessImportance, &prefs.CustomerEngagementImportance,
		&prefs.LeadGenerationImportance, &prefs.BrandRecognitionImportance,
		&prefs.HasSocialMediaPresence, &prefs.TargetsB2B, &prefs.HasSeasonalMarketing,
		&prefs.LogoURL, &prefs.PrimaryColor, &prefs.SecondaryColor, &prefs.AdditionalColors,
		&prefs.BrandInspiration, &prefs.AdditionalBrandInfo, &prefs.CreatedAt, &prefs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	prefs.ToneOfVoice = []string(tones)
	return prefs, nil
}

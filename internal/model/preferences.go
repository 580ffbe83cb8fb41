package model

import "time"

// BrandPreferences はブランド設定フォームで入力される嗜好情報を表す。
// ダッシュボードコアからは除外された外部コラボレーターのデータだが、
// 生成サービスがトーン・ターゲット情報として参照する。
// user_idごとに1レコードで、保存はUPSERTされる。
type BrandPreferences struct {
	ID                 int64
	UserID             string
	AgeRange           string
	Location           string
	ProductDescription string
	MarketingStrategy  string
	BudgetRange        string
	ToneOfVoice        []string
	CompanyCulture     string
	PastAds            string

	// 各マーケティング目標の重要度（1〜10）
	SalesImportance              int
	BrandAwarenessImportance     int
	CustomerEngagementImportance int
	LeadGenerationImportance     int
	BrandRecognitionImportance   int

	HasSocialMediaPresence bool
	TargetsB2B             bool
	HasSeasonalMarketing   bool

	LogoURL          string
	PrimaryColor     string
	SecondaryColor   string
	AdditionalColors string

	BrandInspiration    string
	AdditionalBrandInfo string

	CreatedAt time.Time
	UpdatedAt time.Time
}

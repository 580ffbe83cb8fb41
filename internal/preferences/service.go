// Package preferences はブランド設定のドメインサービスを提供する。
package preferences

import (
	"context"
	"log/slog"

	"github.com/hitoshi/whirl/internal/model"
	"github.com/hitoshi/whirl/internal/repository"
	"github.com/hitoshi/whirl/internal/security"
)

// LogoProber はロゴURLへの到達確認を行うインターフェース。
// security.ImageURLGuardが実装する。
type LogoProber interface {
	ProbeLogo(ctx context.Context, rawURL string) error
}

// Service はブランド設定の保存・取得・削除を担当する。
// 自由記述フィールドはサニタイズし、ロゴURLは静的検証を通してから保存する。
type Service struct {
	repo      repository.PreferencesRepository
	sanitizer *security.TextSanitizer
	guard     *security.ImageURLGuard
	prober    LogoProber
	logger    *slog.Logger
}

// NewService はServiceを生成する。proberはnilでもよく、その場合は
// ロゴURLの到達確認を行わない。
func NewService(
	repo repository.PreferencesRepository,
	sanitizer *security.TextSanitizer,
	guard *security.ImageURLGuard,
	prober LogoProber,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		guard:     guard,
		prober:    prober,
		logger:    logger,
	}
}

// Save はブランド設定を検証・サニタイズしてUPSERTする。
// 保存後のレコード（ID・タイムスタンプ込み）を返す。
func (s *Service) Save(ctx context.Context, prefs *model.BrandPreferences) (*model.BrandPreferences, error) {
	if prefs.UserID == "" {
		return nil, model.NewInvalidRequestError("user_idが空です")
	}

	if err := s.guard.ValidateImageURL(prefs.LogoURL); err != nil {
		return nil, model.NewInvalidImageURLError(err.Error())
	}

	// 到達確認の失敗は保存をブロックしない（CDN側の一時障害がありうる）
	if s.prober != nil && prefs.LogoURL != "" {
		if err := s.prober.ProbeLogo(ctx, prefs.LogoURL); err != nil {
			s.logger.Warn("ロゴURLへの到達確認に失敗",
				slog.String("user_id", prefs.UserID),
				slog.String("logo_url", prefs.LogoURL),
				slog.String("error", err.Error()),
			)
		}
	}

	s.sanitizeFreeText(prefs)

	if err := s.repo.Upsert(ctx, prefs); err != nil {
		s.logger.Error("ブランド設定の保存に失敗",
			slog.String("user_id", prefs.UserID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("ブランド設定を保存", slog.String("user_id", prefs.UserID))
	return prefs, nil
}

// Get は指定ユーザーのブランド設定を返す。未設定の場合はnilを返す。
func (s *Service) Get(ctx context.Context, userID string) (*model.BrandPreferences, error) {
	if userID == "" {
		return nil, model.NewInvalidRequestError("user_idが空です")
	}
	return s.repo.FindByUserID(ctx, userID)
}

// Delete は指定ユーザーのブランド設定を削除する。
func (s *Service) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return model.NewInvalidRequestError("user_idが空です")
	}
	return s.repo.DeleteByUserID(ctx, userID)
}

// List は全ユーザーのブランド設定を返す。
func (s *Service) List(ctx context.Context) ([]*model.BrandPreferences, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) sanitizeFreeText(prefs *model.BrandPreferences) {
	prefs.ProductDescription = s.sanitizer.SanitizeText(prefs.ProductDescription)
	prefs.MarketingStrategy = s.sanitizer.SanitizeText(prefs.MarketingStrategy)
	prefs.CompanyCulture = s.sanitizer.SanitizeText(prefs.CompanyCulture)
	prefs.PastAds = s.sanitizer.SanitizeText(prefs.PastAds)
	prefs.BrandInspiration = s.sanitizer.SanitizeText(prefs.BrandInspiration)
	prefs.AdditionalBrandInfo = s.sanitizer.SanitizeText(prefs.AdditionalBrandInfo)
	prefs.ToneOfVoice = s.sanitizer.SanitizeList(prefs.ToneOfVoice)
}

// Package content は保存済みコンテンツのドメインサービスを提供する。
package content

import (
	"context"
	"log/slog"

	"github.com/hitoshi/whirl/internal/metrics"
	"github.com/hitoshi/whirl/internal/model"
	"github.com/hitoshi/whirl/internal/repository"
	"github.com/hitoshi/whirl/internal/security"
)

// Service はコンテンツボードの保存とロードを担当する。
// 保存は常にユーザー単位の全件置き換えで、入力はサニタイズと
// 画像URL検証を通してから永続化される。
type Service struct {
	repo      repository.ContentRepository
	sanitizer *security.TextSanitizer
	guard     *security.ImageURLGuard
	collector metrics.MetricsCollector
	logger    *slog.Logger
}

// NewService はServiceを生成する。collectorはnilでもよい。
func NewService(
	repo repository.ContentRepository,
	sanitizer *security.TextSanitizer,
	guard *security.ImageURLGuard,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		guard:     guard,
		collector: collector,
		logger:    logger,
	}
}

// SaveContent は指定ユーザーの保存済みコンテンツを全件置き換える。
// 1件でも画像URLが不正な場合は何も保存しない。
func (s *Service) SaveContent(ctx context.Context, userID string, items []model.SavedContent) error {
	if userID == "" {
		return model.NewInvalidRequestError("user_idが空です")
	}

	cleaned := make([]model.SavedContent, len(items))
	for i, item := range items {
		if err := s.guard.ValidateImageURL(item.ImageURL); err != nil {
			return model.NewInvalidImageURLError(err.Error())
		}

		item.UserID = userID
		item.Caption = s.sanitizer.SanitizeText(item.Caption)
		item.Hashtags = s.sanitizer.SanitizeList(item.Hashtags)
		if item.Status != model.ApprovalStatusApproved {
			item.Status = model.ApprovalStatusDraft
		}
		item.Position = i
		cleaned[i] = item
	}

	if err := s.repo.ReplaceByUserID(ctx, userID, cleaned); err != nil {
		s.logger.Error("コンテンツの保存に失敗",
			slog.String("user_id", userID),
			slog.Int("count", len(cleaned)),
			slog.String("error", err.Error()),
		)
		return model.NewContentSaveFailedError(err.Error())
	}

	if s.collector != nil {
		s.collector.RecordContentsSaved(len(cleaned))
	}
	s.logger.Info("コンテンツを保存",
		slog.String("user_id", userID),
		slog.Int("count", len(cleaned)),
	)

	return nil
}

// LoadContent は指定ユーザーの保存済みコンテンツを保存位置順に返す。
// 1件もない場合は空スライスを返す。
func (s *Service) LoadContent(ctx context.Context, userID string) ([]model.SavedContent, error) {
	if userID == "" {
		return nil, model.NewInvalidRequestError("user_idが空です")
	}

	items, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("コンテンツのロードに失敗",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewContentLoadFailedError(err.Error())
	}

	if s.collector != nil {
		s.collector.RecordContentsLoaded(len(items))
	}

	return items, nil
}

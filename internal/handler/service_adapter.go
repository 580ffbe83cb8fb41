package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/whirl/internal/generator"
	"github.com/hitoshi/whirl/internal/metrics"
	"github.com/hitoshi/whirl/internal/model"
	"github.com/hitoshi/whirl/internal/repository"
)

// GenerationServiceAdapter は generator.Service を GenerationServiceInterface に
// 適合させるアダプタ。生成前にブランド設定を取得してトーン情報として渡し、
// 生成の成否とレイテンシをメトリクスに記録する。
type GenerationServiceAdapter struct {
	gen       *generator.Service
	prefsRepo repository.PreferencesRepository
	collector metrics.MetricsCollector
	logger    *slog.Logger
}

// NewGenerationServiceAdapter はGenerationServiceAdapterを生成する。
// prefsRepoとcollectorはnilでもよい。
func NewGenerationServiceAdapter(
	gen *generator.Service,
	prefsRepo repository.PreferencesRepository,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *GenerationServiceAdapter {
	return &GenerationServiceAdapter{
		gen:       gen,
		prefsRepo: prefsRepo,
		collector: collector,
		logger:    logger,
	}
}

// GenerateContent はブランド設定を反映したコンテンツ生成を実行する。
// ブランド設定の取得失敗は生成をブロックしない。
func (a *GenerationServiceAdapter) GenerateContent(ctx context.Context, userID, message string, platforms []string) (*model.GenerationResult, error) {
	start := time.Now()

	var prefs *model.BrandPreferences
	if a.prefsRepo != nil {
		var err error
		prefs, err = a.prefsRepo.FindByUserID(ctx, userID)
		if err != nil {
			a.logger.Warn("ブランド設定の取得に失敗（設定なしで生成を続行）",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
			prefs = nil
		}
	}

	result, err := a.gen.Generate(ctx, model.GenerationRequest{
		UserID:            userID,
		Prompt:            message,
		TargetPlatformIDs: platforms,
	}, prefs)

	if a.collector != nil {
		a.collector.RecordGenerationLatency(time.Since(start))
		if err != nil {
			a.collector.RecordGenerationFailure("llm_error")
		} else {
			a.collector.RecordGenerationSuccess(len(platforms))
		}
	}

	return result, err
}

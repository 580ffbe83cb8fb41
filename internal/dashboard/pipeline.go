package dashboard

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/hitoshi/whirl/internal/model"
)

// GenerationClient は生成APIのネットワーク境界のインターフェース。
// 実装はinternal/apiclientが提供する。
type GenerationClient interface {
	// GenerateContent は1回の生成リクエストを発行する。
	// 失敗（トランスポートエラー、非2xx、success:false）はエラーとして返す。
	GenerateContent(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error)
}

// PipelineState は生成パイプラインの状態を表す。
// 遷移はIdle → Sending → {成功|失敗} → Idleで、どちらの結果でも無条件に
// Idleへ戻り、次の送信が再び可能になる。
type PipelineState string

const (
	// PipelineIdle は送信可能な待機状態を示す。
	PipelineIdle PipelineState = "idle"
	// PipelineSending はリクエスト実行中の状態を示す。
	// この間の追加送信は拒否される（同時実行は1件まで）。
	PipelineSending PipelineState = "sending"
)

// GenerationPipeline はユーザープロンプトと選択プラットフォームを
// 1回の生成リクエストに変換し、結果を会話ログとコンテンツボードへ反映する。
type GenerationPipeline struct {
	selector *PlatformSelector
	log      *ConversationLog
	board    *ContentBoard
	client   GenerationClient
	logger   *slog.Logger

	mu    sync.Mutex
	state PipelineState
}

// NewGenerationPipeline はGenerationPipelineを生成する。
func NewGenerationPipeline(
	selector *PlatformSelector,
	log *ConversationLog,
	board *ContentBoard,
	client GenerationClient,
	logger *slog.Logger,
) *GenerationPipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationPipeline{
		selector: selector,
		log:      log,
		board:    board,
		client:   client,
		logger:   logger,
		state:    PipelineIdle,
	}
}

// State は現在のパイプライン状態を返す。
func (p *GenerationPipeline) State() PipelineState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Submit はプロンプトを検証し、1回の生成リクエストを発行して結果を反映する。
//
// 前提条件違反（未サインイン、空プロンプト、プラットフォーム未選択）の場合は
// 会話ログにエントリを追加せず、ネットワーク呼び出しも行わずにエラーを返す。
// Sending中の再送信も同様に拒否される。
//
// 有効な送信では、ユーザーエントリと処理中プレースホルダーを追記した上で
// リクエストを発行する。成功時はプレースホルダーをサーバーメッセージで
// 書き換え、ボードをドラフトで全件置き換える。失敗時はプレースホルダーを
// 固定の謝罪文言で書き換え、ボードには一切触れない（部分更新なし）。
func (p *GenerationPipeline) Submit(ctx context.Context, userID, prompt string) error {
	if userID == "" {
		return model.NewNotSignedInError()
	}
	if strings.TrimSpace(prompt) == "" {
		return model.NewEmptyPromptError()
	}

	targets := p.selector.Selected()
	if len(targets) == 0 {
		return model.NewEmptySelectionError()
	}

	// Idle→Sending遷移。Sending中の送信はここで拒否される。
	p.mu.Lock()
	if p.state == PipelineSending {
		p.mu.Unlock()
		return model.NewGenerationInFlightError()
	}
	p.state = PipelineSending
	p.mu.Unlock()

	// どちらの結果でも無条件にIdleへ戻す
	defer func() {
		p.mu.Lock()
		p.state = PipelineIdle
		p.mu.Unlock()
	}()

	p.log.AppendUser(prompt)
	placeholderID := p.log.AppendSystemPlaceholder()

	result, err := p.client.GenerateContent(ctx, model.GenerationRequest{
		UserID:            userID,
		Prompt:            prompt,
		TargetPlatformIDs: targets,
	})
	if err != nil {
		p.logger.Error("コンテンツ生成リクエストが失敗しました",
			slog.String("user_id", userID),
			slog.Int("platform_count", len(targets)),
			slog.String("error", err.Error()),
		)
		p.log.Rewrite(placeholderID, GenerationErrorMessage)
		return model.NewGenerationFailedError(err.Error())
	}

	p.log.Rewrite(placeholderID, result.Message)
	p.board.Replace(result.Drafts)

	p.logger.Info("コンテンツを生成しました",
		slog.String("user_id", userID),
		slog.Int("draft_count", len(result.Drafts)),
	)
	return nil
}

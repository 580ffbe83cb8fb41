package dashboard

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/whirl/internal/model"
)

// --- モック ---

type mockGenerationClient struct {
	generateFn func(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error)
	calls      int
	lastReq    model.GenerationRequest
}

func (m *mockGenerationClient) GenerateContent(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error) {
	m.calls++
	m.lastReq = req
	if m.generateFn != nil {
		return m.generateFn(ctx, req)
	}
	return &model.GenerationResult{Message: "done"}, nil
}

type pipelineFixture struct {
	selector *PlatformSelector
	log      *ConversationLog
	board    *ContentBoard
	client   *mockGenerationClient
	pipeline *GenerationPipeline
}

func newPipelineFixture() *pipelineFixture {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	selector := NewPlatformSelector(&mockPrompter{}, logger)
	log := NewConversationLog()
	board := NewContentBoard(&mockContentStore{}, logger)
	client := &mockGenerationClient{}
	pipeline := NewGenerationPipeline(selector, log, board, client, logger)

	return &pipelineFixture{
		selector: selector,
		log:      log,
		board:    board,
		client:   client,
		pipeline: pipeline,
	}
}

// --- テスト ---

// 未サインインの送信はネットワーク呼び出しもログ追記も行わない
func TestSubmit_MissingUserID_Blocks(t *testing.T) {
	f := newPipelineFixture()
	f.selector.CompleteConnection("instagram", model.PlatformCredentials{})

	err := f.pipeline.Submit(context.Background(), "", "Launch day!")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeNotSignedIn {
		t.Fatalf("err = %v, want NOT_SIGNED_IN", err)
	}
	if f.client.calls != 0 {
		t.Errorf("ネットワーク呼び出し数 = %d, want 0", f.client.calls)
	}
	if f.log.Len() != 0 {
		t.Errorf("ログエントリ数 = %d, want 0", f.log.Len())
	}
}

// 空白プロンプトの送信はユーザーエントリを追記せず、ネットワーク呼び出しも行わない
func TestSubmit_BlankPrompt_Blocks(t *testing.T) {
	f := newPipelineFixture()
	f.selector.CompleteConnection("instagram", model.PlatformCredentials{})

	err := f.pipeline.Submit(context.Background(), "user-1", "   \n")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmptyPrompt {
		t.Fatalf("err = %v, want EMPTY_PROMPT", err)
	}
	if f.client.calls != 0 || f.log.Len() != 0 {
		t.Errorf("呼び出し数 = %d, ログ数 = %d, want 0, 0", f.client.calls, f.log.Len())
	}
}

// 選択プラットフォームが空の送信も同様にブロックされる
func TestSubmit_EmptySelection_Blocks(t *testing.T) {
	f := newPipelineFixture()

	err := f.pipeline.Submit(context.Background(), "user-1", "Launch day!")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmptySelection {
		t.Fatalf("err = %v, want EMPTY_SELECTION", err)
	}
	if f.client.calls != 0 || f.log.Len() != 0 {
		t.Errorf("呼び出し数 = %d, ログ数 = %d, want 0, 0", f.client.calls, f.log.Len())
	}
}

// Sending中の2回目の送信は拒否される（ログ長も実行中呼び出し数も1のまま）
func TestSubmit_SecondSubmitWhileSending_IsRejected(t *testing.T) {
	f := newPipelineFixture()
	f.selector.CompleteConnection("instagram", model.PlatformCredentials{})

	var secondErr error
	f.client.generateFn = func(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error) {
		// 1回目のリクエスト実行中に2回目の送信を試みる
		secondErr = f.pipeline.Submit(ctx, "user-1", "second prompt")
		return &model.GenerationResult{Message: "done"}, nil
	}

	if err := f.pipeline.Submit(context.Background(), "user-1", "first prompt"); err != nil {
		t.Fatalf("1回目のSubmit がエラーを返した: %v", err)
	}

	var apiErr *model.APIError
	if !errors.As(secondErr, &apiErr) || apiErr.Code != model.ErrCodeGenerationInFlight {
		t.Fatalf("2回目のSubmitのerr = %v, want GENERATION_IN_FLIGHT", secondErr)
	}
	if f.client.calls != 1 {
		t.Errorf("ネットワーク呼び出し数 = %d, want 1", f.client.calls)
	}
	// user + placeholder の2エントリのみ（2回目の送信分は追記されない）
	if f.log.Len() != 2 {
		t.Errorf("ログエントリ数 = %d, want 2", f.log.Len())
	}
}

// 解決後は無条件にIdleへ戻り、次の送信が可能になる
func TestSubmit_ReturnsToIdleAfterEitherOutcome(t *testing.T) {
	f := newPipelineFixture()
	f.selector.CompleteConnection("instagram", model.PlatformCredentials{})

	f.client.generateFn = func(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error) {
		return nil, errors.New("boom")
	}
	if err := f.pipeline.Submit(context.Background(), "user-1", "first"); err == nil {
		t.Fatal("失敗するはずのSubmitがエラーを返さなかった")
	}
	if f.pipeline.State() != PipelineIdle {
		t.Errorf("失敗後のState = %q, want %q", f.pipeline.State(), PipelineIdle)
	}

	f.client.generateFn = nil
	if err := f.pipeline.Submit(context.Background(), "user-1", "second"); err != nil {
		t.Fatalf("失敗後の再送信がエラーを返した: %v", err)
	}
	if f.pipeline.State() != PipelineIdle {
		t.Errorf("成功後のState = %q, want %q", f.pipeline.State(), PipelineIdle)
	}
}

// シナリオ: instagramを接続・選択し "Launch day!" を送信 →
// platforms:["instagram"] のリクエストが1回発行され、ボードに1件のDraftが載り、
// プレースホルダーがサーバーのmessageに書き換わる
func TestSubmit_SuccessScenario(t *testing.T) {
	f := newPipelineFixture()
	f.selector.CompleteConnection("instagram", model.PlatformCredentials{})

	f.client.generateFn = func(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error) {
		return &model.GenerationResult{
			Message: "Here's your Instagram post!",
			Drafts:  []model.GeneratedContent{draftFor("instagram", "Launch day! 🚀")},
		}, nil
	}

	if err := f.pipeline.Submit(context.Background(), "user-1", "Launch day!"); err != nil {
		t.Fatalf("Submit がエラーを返した: %v", err)
	}

	if f.client.calls != 1 {
		t.Errorf("ネットワーク呼び出し数 = %d, want 1", f.client.calls)
	}
	req := f.client.lastReq
	if req.UserID != "user-1" {
		t.Errorf("req.UserID = %q, want %q", req.UserID, "user-1")
	}
	if len(req.TargetPlatformIDs) != 1 || req.TargetPlatformIDs[0] != "instagram" {
		t.Errorf("req.TargetPlatformIDs = %v, want [instagram]", req.TargetPlatformIDs)
	}

	items := f.board.Items()
	if len(items) != 1 {
		t.Fatalf("ボードのアイテム数 = %d, want 1", len(items))
	}
	if items[0].Status != model.ApprovalStatusDraft {
		t.Errorf("Status = %q, want %q", items[0].Status, model.ApprovalStatusDraft)
	}

	entries := f.log.Entries()
	if len(entries) != 2 {
		t.Fatalf("ログエントリ数 = %d, want 2", len(entries))
	}
	if entries[1].Text != "Here's your Instagram post!" {
		t.Errorf("プレースホルダーのテキスト = %q, want サーバーのmessage", entries[1].Text)
	}
}

// シナリオ: サーバーが success:false "rate limited" を返す →
// プレースホルダーが謝罪文言になり、ボードは空のまま
func TestSubmit_FailureScenario_ApologyAndUnchangedBoard(t *testing.T) {
	f := newPipelineFixture()
	f.selector.CompleteConnection("instagram", model.PlatformCredentials{})

	f.client.generateFn = func(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error) {
		return nil, errors.New("rate limited")
	}

	err := f.pipeline.Submit(context.Background(), "user-1", "Launch day!")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeGenerationFailed {
		t.Fatalf("err = %v, want GENERATION_FAILED", err)
	}

	if f.board.Len() != 0 {
		t.Errorf("ボードのアイテム数 = %d, want 0", f.board.Len())
	}

	entries := f.log.Entries()
	if len(entries) != 2 {
		t.Fatalf("ログエントリ数 = %d, want 2", len(entries))
	}
	if entries[1].Text != GenerationErrorMessage {
		t.Errorf("プレースホルダーのテキスト = %q, want 固定の謝罪文言", entries[1].Text)
	}
}

// 失敗時にボードの既存内容は部分更新されない
func TestSubmit_FailureLeavesExistingBoardUntouched(t *testing.T) {
	f := newPipelineFixture()
	f.selector.CompleteConnection("instagram", model.PlatformCredentials{})
	f.board.Replace([]model.GeneratedContent{draftFor("linkedin", "existing")})

	f.client.generateFn = func(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error) {
		return nil, errors.New("boom")
	}

	_ = f.pipeline.Submit(context.Background(), "user-1", "Launch day!")

	items := f.board.Items()
	if len(items) != 1 || items[0].Caption != "existing" {
		t.Errorf("失敗時にボードが変更された: %+v", items)
	}
}

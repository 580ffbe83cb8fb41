package content

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/hitoshi/whirl/internal/model"
	"github.com/hitoshi/whirl/internal/security"
)

type mockContentRepo struct {
	stored     map[string][]model.SavedContent
	replaceErr error
	listErr    error
}

func newMockContentRepo() *mockContentRepo {
	return &mockContentRepo{stored: map[string][]model.SavedContent{}}
}

func (m *mockContentRepo) ReplaceByUserID(_ context.Context, userID string, items []model.SavedContent) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.stored[userID] = items
	return nil
}

func (m *mockContentRepo) ListByUserID(_ context.Context, userID string) ([]model.SavedContent, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.stored[userID], nil
}

func newTestService(repo *mockContentRepo) *Service {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	return NewService(repo, security.NewTextSanitizer(), security.NewImageURLGuard(), nil, logger)
}

func TestService_SaveContent_Sanitizes(t *testing.T) {
	repo := newMockContentRepo()
	svc := newTestService(repo)

	items := []model.SavedContent{
		{
			PlatformID: "instagram",
			Caption:    "<script>x</script>Great post",
			Hashtags:   []string{"#ok", "<b></b>"},
			ImageURL:   "https://images.example.com/a.png",
			Status:     model.ApprovalStatusApproved,
		},
		{
			PlatformID: "twitter",
			Caption:    "Second",
			Status:     "", // 不明なステータスはdraft扱い
		},
	}

	if err := svc.SaveContent(context.Background(), "user-1", items); err != nil {
		t.Fatalf("SaveContent() error = %v", err)
	}

	got := repo.stored["user-1"]
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Caption != "Great post" {
		t.Errorf("Caption = %q, サニタイズを期待", got[0].Caption)
	}
	if len(got[0].Hashtags) != 1 {
		t.Errorf("Hashtags = %v", got[0].Hashtags)
	}
	if got[0].UserID != "user-1" {
		t.Errorf("UserID = %q", got[0].UserID)
	}
	if got[0].Position != 0 || got[1].Position != 1 {
		t.Errorf("Position = %d, %d", got[0].Position, got[1].Position)
	}
	if got[1].Status != model.ApprovalStatusDraft {
		t.Errorf("Status = %q, want draft", got[1].Status)
	}
}

func TestService_SaveContent_RejectsInvalidImageURL(t *testing.T) {
	repo := newMockContentRepo()
	svc := newTestService(repo)

	items := []model.SavedContent{
		{PlatformID: "instagram", ImageURL: "https://images.example.com/ok.png"},
		{PlatformID: "twitter", ImageURL: "http://169.254.169.254/meta"},
	}

	err := svc.SaveContent(context.Background(), "user-1", items)
	if err == nil {
		t.Fatal("不正URLでエラーにならない")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidImageURL {
		t.Errorf("err = %v", err)
	}
	if len(repo.stored["user-1"]) != 0 {
		t.Error("エラー時に一部が保存された")
	}
}

func TestService_SaveContent_RequiresUserID(t *testing.T) {
	svc := newTestService(newMockContentRepo())

	err := svc.SaveContent(context.Background(), "", nil)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidRequest {
		t.Errorf("err = %v", err)
	}
}

func TestService_SaveContent_RepositoryFailure(t *testing.T) {
	repo := newMockContentRepo()
	repo.replaceErr = errors.New("db down")
	svc := newTestService(repo)

	err := svc.SaveContent(context.Background(), "user-1", []model.SavedContent{{PlatformID: "instagram"}})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeContentSaveFailed {
		t.Errorf("err = %v", err)
	}
}

func TestService_LoadContent(t *testing.T) {
	repo := newMockContentRepo()
	repo.stored["user-1"] = []model.SavedContent{{PlatformID: "instagram"}}
	svc := newTestService(repo)

	got, err := svc.LoadContent(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("LoadContent() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}

	// リポジトリ失敗はCONTENT_LOAD_FAILED
	repo.listErr = errors.New("db down")
	_, err = svc.LoadContent(context.Background(), "user-1")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeContentLoadFailed {
		t.Errorf("err = %v", err)
	}
}

package repository

import (
	"context"
	"testing"

	"github.com/hitoshi/whirl/internal/model"
)

func samplePreferences(userID string) *model.BrandPreferences {
	return &model.BrandPreferences{
		UserID:                   userID,
		AgeRange:                 "25-34",
		Location:                 "Tokyo",
		ProductDescription:       "handmade candles",
		ToneOfVoice:              []string{"playful", "warm"},
		SalesImportance:          8,
		BrandAwarenessImportance: 6,
		HasSocialMediaPresence:   true,
		TargetsB2B:               false,
		PrimaryColor:             "#FF6B6B",
		BrandInspiration:         "local craft brands",
	}
}

func TestPostgresPreferencesRepo_UpsertAndFind(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostgresPreferencesRepo(db)
	ctx := context.Background()

	prefs := samplePreferences("user-1")
	if err := repo.Upsert(ctx, prefs); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if prefs.ID == 0 {
		t.Error("IDが採番されていない")
	}
	if prefs.CreatedAt.IsZero() || prefs.UpdatedAt.IsZero() {
		t.Error("タイムスタンプが設定されていない")
	}

	got, err := repo.FindByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("FindByUserID() error = %v", err)
	}
	if got == nil {
		t.Fatal("FindByUserID() = nil")
	}
	if got.AgeRange != "25-34" || got.ProductDescription != "handmade candles" {
		t.Errorf("取得結果が一致しない: %+v", got)
	}
	if len(got.ToneOfVoice) != 2 || got.ToneOfVoice[0] != "playful" {
		t.Errorf("ToneOfVoice = %v", got.ToneOfVoice)
	}
	if !got.HasSocialMediaPresence {
		t.Error("HasSocialMediaPresence = false, want true")
	}
}

func TestPostgresPreferencesRepo_UpsertOverwrites(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostgresPreferencesRepo(db)
	ctx := context.Background()

	first := samplePreferences("user-1")
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("1回目のUpsertに失敗: %v", err)
	}

	second := samplePreferences("user-1")
	second.AgeRange = "35-44"
	second.ToneOfVoice = []string{"professional"}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("2回目のUpsertに失敗: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("同一ユーザーでIDが変わった: %d -> %d", first.ID, second.ID)
	}

	got, err := repo.FindByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("FindByUserID() error = %v", err)
	}
	if got.AgeRange != "35-44" {
		t.Errorf("AgeRange = %q, want 35-44", got.AgeRange)
	}
	if len(got.ToneOfVoice) != 1 {
		t.Errorf("ToneOfVoice = %v", got.ToneOfVoice)
	}
}

func TestPostgresPreferencesRepo_UnknownUserReturnsNil(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostgresPreferencesRepo(db)

	got, err := repo.FindByUserID(context.Background(), "no-such-user")
	if err != nil {
		t.Fatalf("FindByUserID() error = %v", err)
	}
	if got != nil {
		t.Errorf("FindByUserID() = %+v, want nil", got)
	}
}

func TestPostgresPreferencesRepo_Delete(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostgresPreferencesRepo(db)
	ctx := context.Background()

	if err := repo.Upsert(ctx, samplePreferences("user-1")); err != nil {
		t.Fatalf("Upsertに失敗: %v", err)
	}
	if err := repo.DeleteByUserID(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteByUserID() error = %v", err)
	}

	got, err := repo.FindByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("FindByUserID() error = %v", err)
	}
	if got != nil {
		t.Error("削除後もレコードが残っている")
	}

	// 存在しないユーザーの削除もエラーにしない
	if err := repo.DeleteByUserID(ctx, "no-such-user"); err != nil {
		t.Errorf("未登録ユーザーの削除でエラー: %v", err)
	}
}

func TestPostgresPreferencesRepo_ListAll(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewPostgresPreferencesRepo(db)
	ctx := context.Background()

	if err := repo.Upsert(ctx, samplePreferences("user-b")); err != nil {
		t.Fatalf("Upsertに失敗: %v", err)
	}
	if err := repo.Upsert(ctx, samplePreferences("user-a")); err != nil {
		t.Fatalf("Upsertに失敗: %v", err)
	}

	got, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].UserID != "user-a" || got[1].UserID != "user-b" {
		t.Errorf("user_id順になっていない: %s, %s", got[0].UserID, got[1].UserID)
	}
}

func TestPreferencesRepositoryInterface(t *testing.T) {
	var _ PreferencesRepository = (*PostgresPreferencesRepo)(nil)
}

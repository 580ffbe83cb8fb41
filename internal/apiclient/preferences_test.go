package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/whirl/internal/model"
)

func TestSavePreferences_PostsSnakeCaseBody(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/brand-preferences" {
			t.Errorf("%s %s, want POST /api/brand-preferences", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("リクエストボディの解析に失敗した: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      1,
			"user_id": received["user_id"],
		})
	}))
	defer server.Close()

	c := newTestClient(server)

	saved, err := c.SavePreferences(context.Background(), &model.BrandPreferences{
		UserID:             "user-1",
		ProductDescription: "handmade candles",
		ToneOfVoice:        []string{"friendly", "playful"},
		TargetsB2B:         true,
	})
	if err != nil {
		t.Fatalf("SavePreferences がエラーを返した: %v", err)
	}

	if received["user_id"] != "user-1" {
		t.Errorf("user_id = %v, want user-1", received["user_id"])
	}
	if received["product_description"] != "handmade candles" {
		t.Errorf("product_description = %v, want handmade candles", received["product_description"])
	}
	if received["targets_b2b"] != true {
		t.Errorf("targets_b2b = %v, want true", received["targets_b2b"])
	}
	if saved.ID != 1 {
		t.Errorf("saved.ID = %d, want 1", saved.ID)
	}
}

// GET-by-idの404は「未設定」を意味し、エラーではなくnilを返す
func TestGetPreferences_NotFound_ReturnsNilWithoutError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := newTestClient(server)

	prefs, err := c.GetPreferences(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("404でエラーが返った: %v", err)
	}
	if prefs != nil {
		t.Errorf("prefs = %+v, want nil", prefs)
	}
}

func TestGetPreferences_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/brand-preferences/user-1" {
			t.Errorf("パス = %s, want /api/brand-preferences/user-1", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":            7,
			"user_id":       "user-1",
			"tone_of_voice": []string{"professional"},
		})
	}))
	defer server.Close()

	c := newTestClient(server)

	prefs, err := c.GetPreferences(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetPreferences がエラーを返した: %v", err)
	}
	if prefs == nil {
		t.Fatal("prefs = nil, want 非nil")
	}
	if prefs.ID != 7 {
		t.Errorf("ID = %d, want 7", prefs.ID)
	}
	if len(prefs.ToneOfVoice) != 1 || prefs.ToneOfVoice[0] != "professional" {
		t.Errorf("ToneOfVoice = %v, want [professional]", prefs.ToneOfVoice)
	}
}

func TestDeletePreferences_Non2xx_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("HTTPメソッド = %s, want DELETE", r.Method)
		}
		http.Error(w, "oops", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(server)

	if err := c.DeletePreferences(context.Background(), "user-1"); err == nil {
		t.Fatal("非2xxレスポンスでエラーが返らなかった")
	}
}

func TestListPreferences_ReturnsAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/brand-preferences" {
			t.Errorf("パス = %s, want /api/brand-preferences", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "user_id": "a"},
			{"id": 2, "user_id": "b"},
		})
	}))
	defer server.Close()

	c := newTestClient(server)

	prefs, err := c.ListPreferences(context.Background())
	if err != nil {
		t.Fatalf("ListPreferences がエラーを返した: %v", err)
	}
	if len(prefs) != 2 {
		t.Fatalf("件数 = %d, want 2", len(prefs))
	}
	if prefs[1].UserID != "b" {
		t.Errorf("prefs[1].UserID = %q, want %q", prefs[1].UserID, "b")
	}
}

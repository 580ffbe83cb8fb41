package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/whirl/internal/model"
)

// PreferencesServiceInterface はブランド設定ハンドラーが必要とするサービスインターフェース。
type PreferencesServiceInterface interface {
	// Save はブランド設定をUPSERTし、保存後のレコードを返す。
	Save(ctx context.Context, prefs *model.BrandPreferences) (*model.BrandPreferences, error)
	// Get は指定ユーザーのブランド設定を返す。未設定の場合はnilを返す。
	Get(ctx context.Context, userID string) (*model.BrandPreferences, error)
	// Delete は指定ユーザーのブランド設定を削除する。
	Delete(ctx context.Context, userID string) error
	// List は全ユーザーのブランド設定を返す。
	List(ctx context.Context) ([]*model.BrandPreferences, error)
}

// PreferencesHandler はブランド設定CRUDのHTTPハンドラー。
type PreferencesHandler struct {
	service PreferencesServiceInterface
}

// NewPreferencesHandler はPreferencesHandlerを生成する。
func NewPreferencesHandler(service PreferencesServiceInterface) *PreferencesHandler {
	return &PreferencesHandler{service: service}
}

// Save はブランド設定の保存（UPSERT）を処理する。
// POST /api/brand-preferences
func (h *PreferencesHandler) Save(w http.ResponseWriter, r *http.Request) {
	var wire preferencesWire
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	saved, err := h.service.Save(r.Context(), prefsFromWire(&wire))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, prefsToWire(saved))
}

// Get は指定ユーザーのブランド設定取得を処理する。
// GET /api/brand-preferences/{userID}
//
// 未設定の場合は404を返す。クライアント側では404を「まだ設定がない」
// として扱い、エラー表示しない。
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	prefs, err := h.service.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if prefs == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewPreferencesNotFoundError(userID))
		return
	}

	writeJSON(w, http.StatusOK, prefsToWire(prefs))
}

// Delete は指定ユーザーのブランド設定削除を処理する。
// DELETE /api/brand-preferences/{userID}
func (h *PreferencesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := h.service.Delete(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List は全ユーザーのブランド設定一覧を処理する（管理用途）。
// GET /api/brand-preferences
func (h *PreferencesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	wires := make([]*preferencesWire, len(list))
	for i, p := range list {
		wires[i] = prefsToWire(p)
	}

	writeJSON(w, http.StatusOK, wires)
}

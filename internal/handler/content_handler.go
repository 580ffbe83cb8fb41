package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/whirl/internal/model"
)

// ContentServiceInterface はコンテンツハンドラーが必要とするサービスインターフェース。
type ContentServiceInterface interface {
	// SaveContent は指定ユーザーの保存済みコンテンツを全件置き換える。
	SaveContent(ctx context.Context, userID string, items []model.SavedContent) error
	// LoadContent は指定ユーザーの保存済みコンテンツを保存位置順に返す。
	LoadContent(ctx context.Context, userID string) ([]model.SavedContent, error)
}

// ContentHandler はコンテンツ保存・ロードのHTTPハンドラー。
type ContentHandler struct {
	service ContentServiceInterface
}

// NewContentHandler はContentHandlerを生成する。
func NewContentHandler(service ContentServiceInterface) *ContentHandler {
	return &ContentHandler{service: service}
}

// Save はコンテンツ保存を処理する。
// POST /api/content/save
func (h *ContentHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.UserID == "" {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewNotSignedInError())
		return
	}

	if err := h.service.SaveContent(r.Context(), req.UserID, savedFromWire(req.Content)); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, saveResponse{Success: true})
}

// Load はコンテンツロードを処理する。
// GET /api/content/{userID}
func (h *ContentHandler) Load(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("user_idが空です"))
		return
	}

	items, err := h.service.LoadContent(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loadResponse{
		Success: true,
		Content: savedToWire(items),
	})
}

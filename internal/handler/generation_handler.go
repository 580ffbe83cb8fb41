package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/whirl/internal/model"
)

// GenerationServiceInterface は生成ハンドラーが必要とするサービスインターフェース。
type GenerationServiceInterface interface {
	// GenerateContent は対象プラットフォームごとにコンテンツドラフトを生成する。
	GenerateContent(ctx context.Context, userID, message string, platforms []string) (*model.GenerationResult, error)
}

// GenerationHandler はコンテンツ生成のHTTPハンドラー。
type GenerationHandler struct {
	service GenerationServiceInterface
	logger  *slog.Logger
}

// NewGenerationHandler はGenerationHandlerを生成する。
func NewGenerationHandler(service GenerationServiceInterface, logger *slog.Logger) *GenerationHandler {
	return &GenerationHandler{
		service: service,
		logger:  logger,
	}
}

// Generate はコンテンツ生成を処理する。
// POST /api/generate-content
//
// 生成の失敗は200 + success:false + errorで返す。エラー文字列は
// クライアント側で会話ログにそのまま表示される。
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.UserID == "" {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewNotSignedInError())
		return
	}
	if req.Message == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewEmptyPromptError())
		return
	}
	if len(req.Platforms) == 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewEmptySelectionError())
		return
	}

	result, err := h.service.GenerateContent(r.Context(), req.UserID, req.Message, req.Platforms)
	if err != nil {
		h.logger.Error("コンテンツ生成に失敗",
			slog.String("user_id", req.UserID),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusOK, generateResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Success: true,
		Message: result.Message,
		Content: draftsToWire(result.Drafts),
	})
}

// Package apiclient はWhirlバックエンドAPIのHTTPクライアントを提供する。
// ダッシュボードコアのネットワーク境界（生成・保存・ロード・ブランド設定）を実装する。
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/hitoshi/whirl/internal/model"
)

// Client はWhirlバックエンドAPIのクライアント。
// dashboard.GenerationClientとdashboard.ContentStoreClientを実装する。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string // テスト用にhttptestサーバーへ差し替え可能
}

// NewClient はClientの新しいインスタンスを生成する。
// baseURLはAPIサーバーのオリジン（例: "http://localhost:3001"）を指定する。
func NewClient(httpClient *http.Client, logger *slog.Logger, baseURL string) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    baseURL,
	}
}

// --- ワイヤ型 ---

// generateRequest は生成APIのリクエストボディ。
type generateRequest struct {
	UserID    string   `json:"user_id"`
	Message   string   `json:"message"`
	Platforms []string `json:"platforms"`
}

// contentItemWire はコンテンツ1件のワイヤ表現。
// アイコンは派生値のためワイヤ形式に含まれない。
type contentItemWire struct {
	Platform     string          `json:"platform"`
	PlatformName string          `json:"platformName"`
	Color        string          `json:"color"`
	Image        string          `json:"image"`
	Content      contentBodyWire `json:"content"`
	Approved     bool            `json:"approved"`
}

type contentBodyWire struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

// generateResponse は生成APIのレスポンスボディ。
type generateResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Content []contentItemWire `json:"content,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// saveRequest はコンテンツ保存APIのリクエストボディ。
type saveRequest struct {
	UserID  string            `json:"user_id"`
	Content []contentItemWire `json:"content"`
}

// loadResponse はコンテンツロードAPIのレスポンスボディ。
type loadResponse struct {
	Success bool              `json:"success"`
	Content []contentItemWire `json:"content"`
	Error   string            `json:"error,omitempty"`
}

// --- 操作 ---

// GenerateContent は生成リクエストを1回発行する。
// 非2xxレスポンス、トランスポートエラー、success:falseはすべてエラーとして
// 返す（success:falseの場合はサーバーのエラー文字列を使用する）。
func (c *Client) GenerateContent(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error) {
	body := generateRequest{
		UserID:    req.UserID,
		Message:   req.Prompt,
		Platforms: req.TargetPlatformIDs,
	}

	var resp generateResponse
	if err := c.postJSON(ctx, "/api/generate-content", body, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		if resp.Error != "" {
			return nil, fmt.Errorf("%s", resp.Error)
		}
		return nil, fmt.Errorf("生成APIがsuccess:falseを返しました")
	}

	return &model.GenerationResult{
		Message: resp.Message,
		Drafts:  itemsFromWire(resp.Content),
	}, nil
}

// SaveContent はコンテンツ列をuserIDをキーとして保存する。
// 2xxレスポンスを成功とみなし、ボディは無視する。
func (c *Client) SaveContent(ctx context.Context, userID string, items []model.GeneratedContent) error {
	body := saveRequest{
		UserID:  userID,
		Content: itemsToWire(items),
	}
	return c.postJSON(ctx, "/api/content/save", body, nil)
}

// LoadContent はuserIDをキーとして保存済みコンテンツ列を取得する。
func (c *Client) LoadContent(ctx context.Context, userID string) ([]model.GeneratedContent, error) {
	var resp loadResponse
	if err := c.getJSON(ctx, "/api/content/"+url.PathEscape(userID), &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		if resp.Error != "" {
			return nil, fmt.Errorf("%s", resp.Error)
		}
		return nil, fmt.Errorf("コンテンツロードAPIがsuccess:falseを返しました")
	}

	return itemsFromWire(resp.Content), nil
}

// --- 変換 ---

func itemsFromWire(wire []contentItemWire) []model.GeneratedContent {
	items := make([]model.GeneratedContent, len(wire))
	for i, w := range wire {
		status := model.ApprovalStatusDraft
		if w.Approved {
			status = model.ApprovalStatusApproved
		}
		items[i] = model.GeneratedContent{
			PlatformID:   w.Platform,
			PlatformName: w.PlatformName,
			ColorToken:   w.Color,
			ImageURL:     w.Image,
			Caption:      w.Content.Caption,
			Hashtags:     w.Content.Hashtags,
			Status:       status,
		}
	}
	return items
}

func itemsToWire(items []model.GeneratedContent) []contentItemWire {
	wire := make([]contentItemWire, len(items))
	for i, item := range items {
		wire[i] = contentItemWire{
			Platform:     item.PlatformID,
			PlatformName: item.PlatformName,
			Color:        item.ColorToken,
			Image:        item.ImageURL,
			Content: contentBodyWire{
				Caption:  item.Caption,
				Hashtags: item.Hashtags,
			},
			Approved: item.Status == model.ApprovalStatusApproved,
		}
	}
	return wire
}

// --- HTTPヘルパー ---

// postJSON はJSONボディ付きPOSTリクエストを発行する。
// outがnilでない場合はレスポンスボディをJSONデコードする。
func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("リクエストボディのエンコードに失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// getJSON はGETリクエストを発行し、レスポンスボディをJSONデコードする。
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}

	return c.do(req, out)
}

// decodeJSONBody はレスポンスボディをJSONデコードする。
func decodeJSONBody(resp *http.Response, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("バックエンドAPIの呼び出しに失敗しました",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("error", err.Error()),
		)
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("バックエンドAPIがエラーステータスを返しました",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Int("http_status", resp.StatusCode),
		)
		return fmt.Errorf("バックエンドAPIがステータス %d を返しました", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}
	return nil
}

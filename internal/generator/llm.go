package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultAPIEndpoint = "https://api.anthropic.com/v1/messages"
	defaultModel       = "claude-sonnet-4-5-20250929"
	apiVersion         = "2023-06-01"
	maxTokens          = 2000
)

// LLMClient は外部の文章生成 API を呼び出す薄いクライアント。
type LLMClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewLLMClient は生成 API クライアントを生成する。model が空の場合は
// 既定モデル、timeout がゼロ以下の場合は60秒を使う。
func NewLLMClient(apiKey, model string, timeout time.Duration) *LLMClient {
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &LLMClient{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultAPIEndpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type llmRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []llmMessage `json:"messages"`
}

type llmMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type llmResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete はプロンプトを送信し、生成されたテキストを返す。
func (c *LLMClient) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := llmRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []llmMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("リクエストのシリアライズに失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("リクエストの生成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("生成 API の呼び出しに失敗: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("レスポンスの読み取りに失敗: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("生成 API がステータス %d を返した", resp.StatusCode)
	}

	var apiResp llmResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("レスポンスの解析に失敗: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("生成 API エラー: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	if len(apiResp.Content) > 0 && apiResp.Content[0].Type == "text" {
		return apiResp.Content[0].Text, nil
	}

	return "", fmt.Errorf("想定外のレスポンス形式")
}

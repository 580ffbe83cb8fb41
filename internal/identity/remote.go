package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hitoshi/whirl/internal/model"
)

// RemoteProvider はマネージドIDサービスに問い合わせるProvider実装。
// セッションの復元はバックグラウンドで1回行い、完了までIsLoadingがtrueを返す。
type RemoteProvider struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	token      string

	mu      sync.RWMutex
	user    *model.User
	loading bool
}

// meResponse はGET /auth/meのレスポンスボディ。
type meResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewRemoteProvider はRemoteProviderを生成し、セッションの復元を開始する。
// tokenはBearerトークンとして送信される。
func NewRemoteProvider(httpClient *http.Client, logger *slog.Logger, baseURL, token string) *RemoteProvider {
	if logger == nil {
		logger = slog.Default()
	}
	p := &RemoteProvider{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    baseURL,
		token:      token,
		loading:    true,
	}

	go p.restore()
	return p
}

// CurrentUser は現在サインイン中のユーザーを返す。
// 復元中および未サインインの場合はnilを返す。
func (p *RemoteProvider) CurrentUser() *model.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user
}

// IsLoading はセッションの復元処理が進行中かを返す。
func (p *RemoteProvider) IsLoading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

// SignOut はIDサービスにログアウトを通知し、ローカルの状態をクリアする。
// 通知に失敗してもローカルの状態はクリアされる。
func (p *RemoteProvider) SignOut() error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, p.baseURL+"/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Warn("IDサービスへのログアウト通知に失敗しました",
			slog.String("error", err.Error()),
		)
	} else {
		resp.Body.Close()
	}

	p.mu.Lock()
	p.user = nil
	p.mu.Unlock()
	return nil
}

func (p *RemoteProvider) restore() {
	defer func() {
		p.mu.Lock()
		p.loading = false
		p.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/me", nil)
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Warn("IDサービスへのセッション復元に失敗しました",
			slog.String("error", err.Error()),
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return
	}

	var me meResponse
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		p.logger.Warn("IDサービスのレスポンスの解析に失敗しました",
			slog.String("error", err.Error()),
		)
		return
	}

	p.mu.Lock()
	p.user = &model.User{
		ID:        me.ID,
		Email:     me.Email,
		Name:      me.Name,
		CreatedAt: me.CreatedAt,
	}
	p.mu.Unlock()
}

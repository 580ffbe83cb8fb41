package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hitoshi/whirl/internal/model"
)

// sessionFile はセッションファイルのJSON形式。
type sessionFile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// FileProvider はローカルのJSONファイルにセッションを保存するProvider実装。
// ブラウザ版のlocalStorageによる資格情報シミュレーションに相当する開発用実装。
type FileProvider struct {
	path   string
	logger *slog.Logger
	user   *model.User
}

// NewFileProvider はFileProviderを生成し、既存のセッションファイルが
// あれば復元する。ファイルの破損や読み取り失敗はサインアウト状態として扱う。
func NewFileProvider(path string, logger *slog.Logger) *FileProvider {
	if logger == nil {
		logger = slog.Default()
	}
	p := &FileProvider{path: path, logger: logger}
	p.restore()
	return p
}

// DefaultSessionPath は既定のセッションファイルパスを返す。
func DefaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".whirl-session.json"
	}
	return filepath.Join(home, ".whirl", "session.json")
}

// CurrentUser は現在サインイン中のユーザーを返す。未サインインならnil。
func (p *FileProvider) CurrentUser() *model.User {
	return p.user
}

// IsLoading はfalseを返す。ファイルの復元は生成時に同期的に完了している。
func (p *FileProvider) IsLoading() bool {
	return false
}

// SignIn は指定ユーザーでサインインし、セッションをファイルに永続化する。
func (p *FileProvider) SignIn(user model.User) error {
	data, err := json.Marshal(sessionFile{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("セッションのエンコードに失敗しました: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return fmt.Errorf("セッションディレクトリの作成に失敗しました: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o600); err != nil {
		return fmt.Errorf("セッションファイルの書き込みに失敗しました: %w", err)
	}

	p.user = &user
	return nil
}

// SignOut はセッションファイルを削除し、現在のユーザーをクリアする。
// ファイルが存在しない場合も成功として扱う。
func (p *FileProvider) SignOut() error {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("セッションファイルの削除に失敗しました: %w", err)
	}
	p.user = nil
	return nil
}

func (p *FileProvider) restore() {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return
	}

	var sf sessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		p.logger.Warn("セッションファイルの解析に失敗したためサインアウト状態で開始します",
			slog.String("path", p.path),
			slog.String("error", err.Error()),
		)
		return
	}
	if sf.ID == "" {
		return
	}

	p.user = &model.User{
		ID:        sf.ID,
		Email:     sf.Email,
		Name:      sf.Name,
		CreatedAt: sf.CreatedAt,
	}
}

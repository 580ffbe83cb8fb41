package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"github.com/hitoshi/whirl/internal/apiclient"
	"github.com/hitoshi/whirl/internal/config"
	"github.com/hitoshi/whirl/internal/dashboard"
	"github.com/hitoshi/whirl/internal/identity"
	"github.com/hitoshi/whirl/internal/model"
	"github.com/hitoshi/whirl/internal/platform"
)

// sessionWriter はサインイン可能なIdentityProvider実装が追加で満たす能力。
// リモートプロバイダはサインインを外部サービスに委ねるため実装しない。
type sessionWriter interface {
	SignIn(user model.User) error
}

// terminalPrompter は未接続プラットフォームの切り替え時に
// 接続手順をターミナルへ案内するConnectPrompter実装。
type terminalPrompter struct {
	out io.Writer
}

func (p *terminalPrompter) PromptConnect(pf model.Platform) {
	fmt.Fprintf(p.out, "%s は未接続です。/connect %s で接続してください。\n", pf.DisplayName, pf.ID)
}

// chatSession はREPL1回分の状態を束ねる。
type chatSession struct {
	provider identity.Provider
	selector *dashboard.PlatformSelector
	log      *dashboard.ConversationLog
	board    *dashboard.ContentBoard
	pipeline *dashboard.GenerationPipeline
	out      io.Writer
}

// runChat はターミナルのダッシュボードREPLモードで起動する。
// APIサーバーに対するクライアントとして動作し、プラットフォーム選択、
// 会話ログ、コンテンツボードの状態をセッション内で管理する。
func runChat(cfg *config.Config, out io.Writer) error {
	log := slog.Default()

	provider := buildIdentityProvider(cfg, log)

	baseURL := os.Getenv("WHIRL_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.ServerPort
	}
	api := apiclient.NewClient(&http.Client{Timeout: 90 * time.Second}, log, baseURL)

	selector := dashboard.NewPlatformSelector(&terminalPrompter{out: out}, log)
	convLog := dashboard.NewConversationLog()
	board := dashboard.NewContentBoard(api, log)
	pipeline := dashboard.NewGenerationPipeline(selector, convLog, board, api, log)

	session := &chatSession{
		provider: provider,
		selector: selector,
		log:      convLog,
		board:    board,
		pipeline: pipeline,
		out:      out,
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "whirl> ",
		HistoryFile:     filepath.Join(os.TempDir(), ".whirl_history"),
		HistoryLimit:    200,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(out, "Whirl ダッシュボード（/help でコマンド一覧、/quit で終了）")
	session.printIdentity()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			// io.EOF
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}

		session.dispatch(context.Background(), line)
	}
}

// buildIdentityProvider は設定に応じてIdentityProvider実装を選択する。
// エンドポイントが設定されていればリモート、なければローカルファイル。
func buildIdentityProvider(cfg *config.Config, log *slog.Logger) identity.Provider {
	if cfg.IdentityEndpoint != "" {
		return identity.NewRemoteProvider(
			&http.Client{Timeout: 10 * time.Second},
			log,
			cfg.IdentityEndpoint,
			os.Getenv("IDENTITY_TOKEN"),
		)
	}

	path := cfg.IdentityFilePath
	if path == "" {
		path = identity.DefaultSessionPath()
	}
	return identity.NewFileProvider(path, log)
}

func (s *chatSession) dispatch(ctx context.Context, line string) {
	if !strings.HasPrefix(line, "/") {
		s.submit(ctx, line)
		return
	}

	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/help":
		s.printHelp()
	case "/platforms":
		s.printPlatforms()
	case "/connect":
		s.connect(args)
	case "/toggle":
		s.toggle(args)
	case "/board":
		s.printBoard()
	case "/log":
		s.printConversation()
	case "/approve":
		s.boardAction(args, s.board.Approve)
	case "/cancel":
		s.boardAction(args, s.board.Cancel)
	case "/regenerate":
		s.boardAction(args, s.board.Regenerate)
	case "/edit":
		s.boardAction(args, s.board.Edit)
	case "/save":
		s.save(ctx)
	case "/load":
		s.load(ctx)
	case "/login":
		s.login(args)
	case "/logout":
		s.logout()
	case "/whoami":
		s.printIdentity()
	default:
		fmt.Fprintf(s.out, "未知のコマンドです: %s（/help でコマンド一覧）\n", cmd)
	}
}

func (s *chatSession) submit(ctx context.Context, prompt string) {
	userID := s.currentUserID()

	if err := s.pipeline.Submit(ctx, userID, prompt); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintln(s.out, apiErr.Message)
			if apiErr.Action != "" {
				fmt.Fprintln(s.out, apiErr.Action)
			}
		} else {
			fmt.Fprintf(s.out, "エラー: %v\n", err)
		}
	}

	// 成否に関わらず会話ログの末尾（プレースホルダー書き換え後）を表示する
	entries := s.log.Entries()
	if len(entries) > 0 {
		last := entries[len(entries)-1]
		if last.Role == model.ChatRoleSystem {
			fmt.Fprintln(s.out, last.Text)
		}
	}

	if s.board.Len() > 0 {
		s.printBoard()
	}
}

func (s *chatSession) connect(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "使い方: /connect <platform-id> [email]")
		return
	}
	pf, ok := platform.Lookup(args[0])
	if !ok {
		fmt.Fprintf(s.out, "未知のプラットフォームIDです: %s\n", args[0])
		return
	}

	var creds model.PlatformCredentials
	if len(args) > 1 {
		creds.Email = args[1]
	}
	s.selector.CompleteConnection(pf.ID, creds)
	fmt.Fprintf(s.out, "%s を接続しました（選択済み）。/toggle %s で選択を切り替えられます。\n", pf.DisplayName, pf.ID)
}

func (s *chatSession) toggle(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "使い方: /toggle <platform-id>")
		return
	}

	switch s.selector.Toggle(args[0]) {
	case dashboard.ToggleSelected:
		fmt.Fprintf(s.out, "%s を選択しました。\n", platform.Resolve(args[0]).DisplayName)
	case dashboard.ToggleDeselected:
		fmt.Fprintf(s.out, "%s の選択を解除しました。\n", platform.Resolve(args[0]).DisplayName)
	case dashboard.ToggleIgnored:
		fmt.Fprintf(s.out, "未知のプラットフォームIDです: %s\n", args[0])
	case dashboard.ToggleConnectRequired:
		// 接続案内はConnectPrompterが出力済み
	}
}

func (s *chatSession) boardAction(args []string, action func(int)) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "使い方: コマンドに続けてアイテム番号を指定してください（/board で一覧）")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > s.board.Len() {
		fmt.Fprintf(s.out, "アイテム番号が不正です: %s\n", args[0])
		return
	}
	action(n - 1)
	s.printBoard()
}

func (s *chatSession) save(ctx context.Context) {
	if err := s.board.Save(ctx, s.currentUserID()); err != nil {
		fmt.Fprintf(s.out, "保存に失敗しました: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%d件のコンテンツを保存しました。\n", s.board.Len())
}

func (s *chatSession) load(ctx context.Context) {
	if err := s.board.Load(ctx, s.currentUserID()); err != nil {
		fmt.Fprintf(s.out, "読み込みに失敗しました: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%d件のコンテンツを読み込みました。\n", s.board.Len())
	s.printBoard()
}

func (s *chatSession) login(args []string) {
	writer, ok := s.provider.(sessionWriter)
	if !ok {
		fmt.Fprintln(s.out, "このアイデンティティ構成ではREPLからのサインインはできません。")
		return
	}
	if len(args) < 1 {
		fmt.Fprintln(s.out, "使い方: /login <email> [name]")
		return
	}

	user := model.User{
		ID:        uuid.NewString(),
		Email:     args[0],
		CreatedAt: time.Now(),
	}
	if len(args) > 1 {
		user.Name = strings.Join(args[1:], " ")
	}

	if err := writer.SignIn(user); err != nil {
		fmt.Fprintf(s.out, "サインインに失敗しました: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s としてサインインしました。\n", user.Email)
}

func (s *chatSession) logout() {
	if err := s.provider.SignOut(); err != nil {
		fmt.Fprintf(s.out, "サインアウトに失敗しました: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "サインアウトしました。")
}

func (s *chatSession) currentUserID() string {
	if u := s.provider.CurrentUser(); u != nil {
		return u.ID
	}
	return ""
}

func (s *chatSession) printIdentity() {
	if s.provider.IsLoading() {
		fmt.Fprintln(s.out, "セッションを復元中です...")
		return
	}
	if u := s.provider.CurrentUser(); u != nil {
		fmt.Fprintf(s.out, "サインイン中: %s\n", u.Email)
		return
	}
	fmt.Fprintln(s.out, "未サインインです。/login <email> でサインインしてください。")
}

func (s *chatSession) printPlatforms() {
	for _, pf := range platform.All() {
		marks := ""
		if s.selector.IsConnected(pf.ID) {
			marks += " [接続済み]"
		}
		if s.selector.IsSelected(pf.ID) {
			marks += " [選択中]"
		}
		fmt.Fprintf(s.out, "  %-10s %s%s\n", pf.ID, pf.DisplayName, marks)
	}
}

func (s *chatSession) printBoard() {
	items := s.board.Items()
	if len(items) == 0 {
		fmt.Fprintln(s.out, "ボードは空です。")
		return
	}
	for i, item := range items {
		status := "ドラフト"
		if item.Status == model.ApprovalStatusApproved {
			status = "承認済み"
		}
		fmt.Fprintf(s.out, "[%d] %s (%s)\n", i+1, item.PlatformName, status)
		fmt.Fprintf(s.out, "    %s\n", item.Caption)
		if len(item.Hashtags) > 0 {
			fmt.Fprintf(s.out, "    %s\n", strings.Join(item.Hashtags, " "))
		}
	}
}

func (s *chatSession) printConversation() {
	for _, e := range s.log.Entries() {
		prefix := "you"
		if e.Role == model.ChatRoleSystem {
			prefix = "whirl"
		}
		fmt.Fprintf(s.out, "%s: %s\n", prefix, e.Text)
	}
}

func (s *chatSession) printHelp() {
	fmt.Fprint(s.out, `コマンド:
  /platforms            プラットフォーム一覧と接続・選択状態を表示
  /connect <id> [email] プラットフォームを接続
  /toggle <id>          プラットフォームの選択を切り替え
  /board                コンテンツボードを表示
  /log                  会話ログを表示
  /approve <n>          アイテムを承認
  /cancel <n>           アイテムをボードから削除
  /regenerate <n>       アイテムの再生成を要求
  /edit <n>             アイテムの編集を要求
  /save                 ボードを保存
  /load                 保存済みコンテンツを読み込み
  /login <email> [name] サインイン
  /logout               サインアウト
  /whoami               現在のユーザーを表示
  /quit                 終了
それ以外の入力はプロンプトとして生成リクエストに使われます。
`)
}

// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, generation, content, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeNotSignedIn          = "NOT_SIGNED_IN"
	ErrCodeEmptyPrompt          = "EMPTY_PROMPT"
	ErrCodeEmptySelection       = "EMPTY_SELECTION"
	ErrCodeGenerationInFlight   = "GENERATION_IN_FLIGHT"
	ErrCodeGenerationFailed     = "GENERATION_FAILED"
	ErrCodeContentSaveFailed    = "CONTENT_SAVE_FAILED"
	ErrCodeContentLoadFailed    = "CONTENT_LOAD_FAILED"
	ErrCodePreferencesNotFound  = "PREFERENCES_NOT_FOUND"
	ErrCodeInvalidImageURL      = "INVALID_IMAGE_URL"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
)

// NewNotSignedInError は未サインイン状態で保存・ロード・生成を
// 要求した場合のエラーを生成する。ネットワーク呼び出しは行われない。
func NewNotSignedInError() *APIError {
	return &APIError{
		Code:     ErrCodeNotSignedIn,
		Message:  "サインインしていません。",
		Category: "auth",
		Action:   "サインインしてから再度お試しください。",
	}
}

// NewEmptyPromptError は空のプロンプトで生成を開始しようとした場合の
// エラーを生成する。
func NewEmptyPromptError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyPrompt,
		Message:  "プロンプトが空です。",
		Category: "validation",
		Action:   "作成したいコンテンツの内容を入力してください。",
	}
}

// NewEmptySelectionError はプラットフォーム未選択で生成を開始しようと
// した場合のエラーを生成する。
func NewEmptySelectionError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptySelection,
		Message:  "プラットフォームが選択されていません。",
		Category: "validation",
		Action:   "少なくとも1つのプラットフォームを選択してください。",
	}
}

// NewGenerationInFlightError は生成リクエストの実行中に2つ目の送信を
// 試みた場合のエラーを生成する。同時送信は1件までに直列化される。
func NewGenerationInFlightError() *APIError {
	return &APIError{
		Code:     ErrCodeGenerationInFlight,
		Message:  "前回の生成リクエストがまだ完了していません。",
		Category: "generation",
		Action:   "現在の生成が完了するまでお待ちください。",
	}
}

// NewGenerationFailedError は生成呼び出しの失敗エラーを生成する。
// サーバーがエラー文字列を返した場合はそれをそのまま使用する。
func NewGenerationFailedError(reason string) *APIError {
	if reason == "" {
		reason = "不明なエラー"
	}
	return &APIError{
		Code:     ErrCodeGenerationFailed,
		Message:  fmt.Sprintf("コンテンツの生成に失敗しました: %s", reason),
		Category: "generation",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewContentSaveFailedError はコンテンツ保存の失敗エラーを生成する。
func NewContentSaveFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeContentSaveFailed,
		Message:  fmt.Sprintf("コンテンツの保存に失敗しました: %s", reason),
		Category: "content",
		Action:   "しばらく待ってから再度お試しください。保存は自動では再試行されません。",
	}
}

// NewContentLoadFailedError はコンテンツロードの失敗エラーを生成する。
// 失敗時にボードの状態は変更されない。
func NewContentLoadFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeContentLoadFailed,
		Message:  fmt.Sprintf("コンテンツの読み込みに失敗しました: %s", reason),
		Category: "content",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewPreferencesNotFoundError はブランド設定が未登録の場合のエラーを生成する。
// GET-by-idの404は「未設定」を意味し、呼び出し側ではエラーとして扱わない。
func NewPreferencesNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodePreferencesNotFound,
		Message:  fmt.Sprintf("指定されたユーザーのブランド設定が見つかりません: %s", userID),
		Category: "content",
		Action:   "ブランド設定フォームから設定を登録してください。",
	}
}

// NewInvalidImageURLError は保存対象の画像URLが安全性検証に失敗した
// 場合のエラーを生成する。
func NewInvalidImageURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidImageURL,
		Message:  fmt.Sprintf("無効な画像URLです: %s", reason),
		Category: "validation",
		Action:   "公開されているhttps://のURLを指定してください。",
	}
}

// NewInvalidRequestError はリクエストボディの解析・検証エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("無効なリクエストです: %s", reason),
		Category: "validation",
		Action:   "リクエスト形式を確認してください。",
	}
}

package model

// GenerationRequest は1回の生成呼び出しのパラメータを表す一時的な値オブジェクト。
// 永続化されることはない。
// TargetPlatformIDsは空であってはならない（呼び出し前に検証される）。
type GenerationRequest struct {
	UserID            string
	Prompt            string
	TargetPlatformIDs []string // 選択順（カタログ順）を保持する
}

// GenerationResult は生成呼び出しの成功レスポンスを表す。
// Messageは会話ログのプレースホルダーを書き換えるユーザー向けメッセージ。
type GenerationResult struct {
	Message string
	Drafts  []GeneratedContent
}

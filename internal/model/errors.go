package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// ハンドラー層でHTTPステータスコードへマッピングされる。
// Messageはそのままレスポンスボディのerrorフィールドとして返されるため、
// 内部のファイルパスやスタック情報を含めてはならない。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ（ユーザー向け）
	Category string // カテゴリ: validation, idea, storage
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeTitleRequired = "TITLE_REQUIRED"
	ErrCodeFileRequired  = "FILE_REQUIRED"
	ErrCodeIdeaNotFound  = "IDEA_NOT_FOUND"
	ErrCodeStorage       = "STORAGE_ERROR"
)

// NewTitleRequiredError はタイトル未指定エラーを生成する。
func NewTitleRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeTitleRequired,
		Message:  "Title is required",
		Category: "validation",
	}
}

// NewFileRequiredError はファイルパート未指定エラーを生成する。
func NewFileRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeFileRequired,
		Message:  "No file provided",
		Category: "validation",
	}
}

// NewIdeaNotFoundError はアイデア未検出エラーを生成する。
func NewIdeaNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeIdeaNotFound,
		Message:  "Idea not found",
		Category: "idea",
	}
}

// NewStorageError はストレージ障害エラーを生成する。
// 元のエラー詳細はログにのみ記録し、レスポンスには汎用メッセージを返す。
func NewStorageError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeStorage,
		Message:  message,
		Category: "storage",
	}
}

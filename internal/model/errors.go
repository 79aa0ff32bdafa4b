// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// APIError はクライアントにそのまま返すドメインエラーを表す。
// Messageはレスポンスボディとして返却される。
type APIError struct {
	Code    string // エラーコード
	Message string // レスポンスボディ
	Field   string // バリデーションエラーの対象フィールド（該当する場合のみ）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeUsernameTaken = "USERNAME_TAKEN"
	ErrCodeUserNotFound  = "USER_NOT_FOUND"
	ErrCodeUnknownUserID = "UNKNOWN_USER_ID"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeRateLimited   = "RATE_LIMITED"
)

// NewValidationError はフィールド制約違反エラーを生成する。
func NewValidationError(field, message string) *APIError {
	return &APIError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// NewUsernameTakenError はユーザー名重複エラーを生成する。
func NewUsernameTakenError() *APIError {
	return &APIError{
		Code:    ErrCodeUsernameTaken,
		Message: "Username taken",
	}
}

// NewUserNotFoundError はエクササイズ追加時にユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeUserNotFound,
		Message: "user not found",
	}
}

// NewUnknownUserIDError はログ取得時にユーザーが見つからない場合のエラーを生成する。
// 正しいクエリパラメータ名をメッセージで案内する。
func NewUnknownUserIDError() *APIError {
	return &APIError{
		Code:    ErrCodeUnknownUserID,
		Message: "unknown user id. Try ?userId=[...]",
	}
}

// NewNotFoundError は未定義ルートへのアクセスエラーを生成する。
func NewNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: "not found",
	}
}

// NewRateLimitedError はレート制限超過エラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:    ErrCodeRateLimited,
		Message: "Too Many Requests",
	}
}

// IsCode はerrがAPIErrorであり、指定コードを持つかを判定する。
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

package middleware

import (
	"net/http"

	"github.com/hitoshi/exercisetracker/internal/model"
)

// WriteError はプレーンテキストのエラーレスポンスを書き込む。
// クライアントはボディの文字列をそのまま表示する。
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(message))
}

// WriteAPIError はAPIErrorのメッセージをレスポンスボディとして書き込む。
func WriteAPIError(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	WriteError(w, statusCode, apiErr.Message)
}

// WriteInternalServerError は内部サーバーエラーのレスポンスを書き込む。
// 詳細はログのみに記録し、クライアントには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

package handler

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hitoshi/exercisetracker/internal/model"
)

// maxBodyBytes はリクエストボディの上限サイズ。
const maxBodyBytes = 1 << 20

// parseBody はリクエストボディをフォーム値として解析する。
// application/jsonの場合はトップレベルのオブジェクトを文字列値に変換して返し、
// それ以外はURLエンコードされたフォームとして扱う。
func parseBody(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return parseJSONBody(r)
	}

	if err := r.ParseForm(); err != nil {
		return nil, model.NewValidationError("body", "invalid request body")
	}
	return r.PostForm, nil
}

// parseJSONBody はJSONオブジェクトのスカラー値を文字列に変換する。
// 数値は元の表記のまま保持し、nullとネストした値は無視する。
func parseJSONBody(r *http.Request) (url.Values, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, model.NewValidationError("body", "invalid request body")
	}

	values := url.Values{}
	for key, v := range raw {
		switch val := v.(type) {
		case string:
			values.Set(key, val)
		case json.Number:
			values.Set(key, val.String())
		case bool:
			values.Set(key, strconv.FormatBool(val))
		case nil:
		default:
			values.Set(key, fmt.Sprint(val))
		}
	}
	return values, nil
}

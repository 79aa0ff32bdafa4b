package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/exercisetracker/internal/model"
)

// newUserResponse はユーザー登録のレスポンス。
type newUserResponse struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

// userResponse はユーザー一覧の要素。
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// addExerciseResponse はエクササイズ追加のレスポンス。
// _idには既存クライアントとの互換のためユーザーIDを入れ、
// エクササイズ自身のIDはexerciseIdで返す。
type addExerciseResponse struct {
	Username    string `json:"username"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	UserID      string `json:"_id"`
	Date        string `json:"date"`
	ExerciseID  string `json:"exerciseId"`
}

// logEntryResponse はログの1件分。
type logEntryResponse struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// logResponse はログ取得のレスポンス。from/toは有効な指定があった場合のみ含める。
type logResponse struct {
	UserID   string             `json:"_id"`
	Username string             `json:"user"`
	From     string             `json:"from,omitempty"`
	To       string             `json:"to,omitempty"`
	Count    int                `json:"count"`
	Log      []logEntryResponse `json:"log"`
}

func toAddExerciseResponse(ex *model.Exercise) addExerciseResponse {
	return addExerciseResponse{
		Username:    ex.Username,
		Description: ex.Description,
		Duration:    ex.Duration,
		UserID:      ex.UserID,
		Date:        ex.DisplayDate(),
		ExerciseID:  ex.ID,
	}
}

func toLogResponse(l *model.ExerciseLog) logResponse {
	resp := logResponse{
		UserID:   l.UserID,
		Username: l.Username,
		From:     formatOptionalDate(l.From),
		To:       formatOptionalDate(l.To),
		Count:    l.Count,
		Log:      make([]logEntryResponse, len(l.Entries)),
	}
	for i, e := range l.Entries {
		resp.Log[i] = logEntryResponse{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        model.FormatDisplayDate(e.Date),
		}
	}
	return resp
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return model.FormatDisplayDate(*t)
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

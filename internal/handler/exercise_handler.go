package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/exercisetracker/internal/exercise"
	"github.com/hitoshi/exercisetracker/internal/model"
)

// ExerciseServiceInterface はエクササイズハンドラーが必要とするサービスインターフェース。
type ExerciseServiceInterface interface {
	AddExercise(ctx context.Context, draft model.ExerciseDraft) (*model.Exercise, error)
	GetLog(ctx context.Context, q exercise.LogQuery) (*model.ExerciseLog, error)
}

// ExerciseHandler はエクササイズ記録とログ取得のHTTPハンドラー。
type ExerciseHandler struct {
	service ExerciseServiceInterface
}

// NewExerciseHandler はExerciseHandlerを生成する。
func NewExerciseHandler(service ExerciseServiceInterface) *ExerciseHandler {
	return &ExerciseHandler{
		service: service,
	}
}

// AddExercise はエクササイズを記録する。
// POST /api/exercise/add
func (h *ExerciseHandler) AddExercise(w http.ResponseWriter, r *http.Request) {
	form, err := parseBody(w, r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	ex, err := h.service.AddExercise(r.Context(), model.ExerciseDraft{
		UserID:      form.Get("userId"),
		Username:    form.Get("username"),
		Description: form.Get("description"),
		Duration:    form.Get("duration"),
		Date:        form.Get("date"),
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAddExerciseResponse(ex))
}

// GetLog はユーザーのエクササイズログを返す。
// GET /api/exercise/log?userId=...&from=...&to=...&limit=...
func (h *ExerciseHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	q := exercise.ParseLogQuery(r.URL.Query())

	result, err := h.service.GetLog(r.Context(), q)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toLogResponse(result))
}

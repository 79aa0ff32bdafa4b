package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/exercisetracker/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	Register(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// CreateUser はユーザーを登録する。
// POST /api/exercise/new-user
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	form, err := parseBody(w, r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), form.Get("username"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse{
		Username: user.Username,
		ID:       user.ID,
	})
}

// ListUsers は全ユーザーを返す。
// GET /api/exercise/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = userResponse{ID: u.ID, Username: u.Username}
	}
	writeJSON(w, http.StatusOK, resp)
}

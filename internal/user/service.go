// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/hitoshi/exercisetracker/internal/model"
	"github.com/hitoshi/exercisetracker/internal/repository"
)

// Recorder はユーザー登録メトリクスの記録インターフェース。
type Recorder interface {
	RecordUserRegistered()
}

// Service はユーザー管理のサービス層。
type Service struct {
	repo     repository.UserRepository
	recorder Recorder
	now      func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderはnilでもよい。
func NewService(repo repository.UserRepository, recorder Recorder) *Service {
	return &Service{
		repo:     repo,
		recorder: recorder,
		now:      time.Now,
	}
}

// Register はユーザーを登録する。
// 既存ユーザー名の事前確認を行い、同時登録による重複はストアの一意制約で検出する。
// いずれの場合もUSERNAME_TAKENのAPIErrorを返す。
func (s *Service) Register(ctx context.Context, username string) (*model.User, error) {
	switch {
	case username == "":
		return nil, model.NewValidationError("username", "username is required")
	case !model.IsStorableText(username):
		return nil, model.NewValidationError("username", "username is invalid")
	case utf8.RuneCountInString(username) > model.UsernameMaxLength:
		return nil, model.NewValidationError("username", "username too long")
	}

	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewUsernameTakenError()
	}

	user := &model.User{
		ID:        model.NewID(),
		Username:  username,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordUserRegistered()
	}

	slog.Info("ユーザーを登録しました",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// List は全ユーザーを返す。
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}
	return users, nil
}

// Package exercise はエクササイズ記録の追加（検証・補完パイプライン）と
// ログ検索のドメインロジックを提供する。
package exercise

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hitoshi/exercisetracker/internal/model"
	"github.com/hitoshi/exercisetracker/internal/repository"
)

// UserFinder はパイプラインとログ検索が必要とするユーザー解決インターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Recorder はエクササイズ関連メトリクスの記録インターフェース。
type Recorder interface {
	RecordExerciseAdded()
	RecordLogQuery(entries int)
}

// Service はエクササイズ管理のサービス層。
type Service struct {
	users     UserFinder
	exercises repository.ExerciseRepository
	recorder  Recorder
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderはnilでもよい。
func NewService(users UserFinder, exercises repository.ExerciseRepository, recorder Recorder) *Service {
	return &Service{
		users:     users,
		exercises: exercises,
		recorder:  recorder,
		now:       time.Now,
	}
}

// step はパイプラインの1段階。失敗した時点で以降の段階は実行しない。
type step func(ex *model.Exercise) error

// AddExercise はドラフトを検証・補完してエクササイズとして永続化する。
//
// 処理順序:
//
//	ユーザー解決 → ユーザー名の非正規化 → description検証 → duration検証 → date補完・検証 → 永続化
//
// ユーザー解決で得たスナップショットを以降の全段階で使用し、途中で再取得しない。
// いずれかの段階で失敗した場合は何も永続化しない。
func (s *Service) AddExercise(ctx context.Context, draft model.ExerciseDraft) (*model.Exercise, error) {
	user, err := s.resolveUser(ctx, draft.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	ex := &model.Exercise{UserID: user.ID}

	steps := []step{
		denormalizeUsername(user),
		validateDescription(draft.Description),
		validateDuration(draft.Duration),
		resolveDate(draft.Date, now),
	}
	for _, st := range steps {
		if err := st(ex); err != nil {
			return nil, err
		}
	}

	ex.ID = model.NewID()
	ex.CreatedAt = now

	if err := s.exercises.Create(ctx, ex); err != nil {
		return nil, fmt.Errorf("エクササイズの保存に失敗しました: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordExerciseAdded()
	}

	slog.Info("エクササイズを追加しました",
		slog.String("exercise_id", ex.ID),
		slog.String("user_id", ex.UserID),
		slog.Int("duration", ex.Duration),
	)

	return ex, nil
}

// resolveUser はドラフトのユーザーIDを解決する。見つからない場合はUSER_NOT_FOUNDを返す。
func (s *Service) resolveUser(ctx context.Context, userID string) (*model.User, error) {
	if !model.IsValidID(userID) {
		return nil, model.NewUserNotFoundError()
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// denormalizeUsername は解決済みユーザーのユーザー名を記録に複写する。
// クライアントが指定したユーザー名は常に無視される。
func denormalizeUsername(user *model.User) step {
	return func(ex *model.Exercise) error {
		ex.Username = user.Username
		return nil
	}
}

func validateDescription(raw string) step {
	return func(ex *model.Exercise) error {
		switch n := utf8.RuneCountInString(raw); {
		case n == 0:
			return model.NewValidationError("description", "description is required")
		case !model.IsStorableText(raw):
			return model.NewValidationError("description", "description is invalid")
		case n > model.DescriptionMaxLength:
			return model.NewValidationError("description", "description too long")
		}
		ex.Description = raw
		return nil
	}
}

// validateDuration は数値表記（"30"、"30.0"、"3e1"など）を受け付け、
// 範囲内の整数値であることを要求する。
func validateDuration(raw string) step {
	return func(ex *model.Exercise) error {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return model.NewValidationError("duration", "duration is required")
		}
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(d) || math.IsInf(d, 0) {
			return model.NewValidationError("duration", "duration must be a number")
		}
		switch {
		case d < model.DurationMin:
			return model.NewValidationError("duration", "duration too short")
		case d > model.DurationMax:
			return model.NewValidationError("duration", "duration too long")
		case d != math.Trunc(d):
			return model.NewValidationError("duration", "duration must be a whole number")
		}
		ex.Duration = int(d)
		return nil
	}
}

// resolveDate は日付未指定の場合に現在時刻を補完し、指定がある場合は解析する。
func resolveDate(raw string, now time.Time) step {
	return func(ex *model.Exercise) error {
		if strings.TrimSpace(raw) == "" {
			ex.Date = now
			return nil
		}
		d, ok := parseDate(raw)
		if !ok {
			return model.NewValidationError("date", "date is invalid")
		}
		ex.Date = d
		return nil
	}
}

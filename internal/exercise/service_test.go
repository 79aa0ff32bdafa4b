package exercise

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/exercisetracker/internal/model"
	"github.com/hitoshi/exercisetracker/internal/repository"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

// --- モック ---

type mockUserFinder struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFn(ctx, id)
}

type mockExerciseRepo struct {
	created    []*model.Exercise
	lastFilter model.LogFilter

	createFn     func(ctx context.Context, e *model.Exercise) error
	listByUserFn func(ctx context.Context, f model.LogFilter) ([]*model.Exercise, error)
}

func (m *mockExerciseRepo) Create(ctx context.Context, e *model.Exercise) error {
	if m.createFn != nil {
		return m.createFn(ctx, e)
	}
	m.created = append(m.created, e)
	return nil
}

func (m *mockExerciseRepo) ListByUser(ctx context.Context, f model.LogFilter) ([]*model.Exercise, error) {
	m.lastFilter = f
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, f)
	}
	return nil, nil
}

type mockRecorder struct {
	added      int
	logQueries int
	entries    int
}

func (m *mockRecorder) RecordExerciseAdded() { m.added++ }
func (m *mockRecorder) RecordLogQuery(entries int) {
	m.logQueries++
	m.entries += entries
}

// newTestService はメモリリポジトリ上に"alice"を登録したServiceを返す。
func newTestService(t *testing.T) (*Service, *repository.MemoryExerciseRepo, *model.User) {
	t.Helper()

	users := repository.NewMemoryUserRepo()
	alice := &model.User{ID: model.NewID(), Username: "alice", CreatedAt: fixedNow}
	if err := users.Create(context.Background(), alice); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	exercises := repository.NewMemoryExerciseRepo(users)

	svc := NewService(users, exercises, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, exercises, alice
}

// persisted はユーザーの保存済みエクササイズ件数を返す。
func persisted(t *testing.T, repo *repository.MemoryExerciseRepo, userID string) int {
	t.Helper()
	exercises, err := repo.ListByUser(context.Background(), model.LogFilter{UserID: userID})
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	return len(exercises)
}

// --- AddExercise ---

func TestAddExercise_Valid(t *testing.T) {
	svc, repo, alice := newTestService(t)

	ex, err := svc.AddExercise(context.Background(), model.ExerciseDraft{
		UserID:      alice.ID,
		Description: "run",
		Duration:    "30",
		Date:        "2026-10-01",
	})
	if err != nil {
		t.Fatalf("AddExercise() error = %v", err)
	}

	if ex.ID == "" || ex.ID == alice.ID {
		t.Errorf("expected fresh exercise ID, got %q", ex.ID)
	}
	if ex.Duration != 30 || ex.Description != "run" {
		t.Errorf("exercise = %+v", ex)
	}
	if !ex.Date.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v", ex.Date)
	}

	if n := persisted(t, repo, alice.ID); n != 1 {
		t.Errorf("persisted count = %d, want 1", n)
	}
}

// TestAddExercise_DenormalizesUsername はクライアント指定のユーザー名が無視され、
// 参照先ユーザーのユーザー名が複写されることを検証する。
func TestAddExercise_DenormalizesUsername(t *testing.T) {
	svc, _, alice := newTestService(t)

	ex, err := svc.AddExercise(context.Background(), model.ExerciseDraft{
		UserID:      alice.ID,
		Username:    "mallory",
		Description: "run",
		Duration:    "30",
	})
	if err != nil {
		t.Fatalf("AddExercise() error = %v", err)
	}
	if ex.Username != "alice" {
		t.Errorf("Username = %q, want %q", ex.Username, "alice")
	}
}

// TestAddExercise_DefaultsDateToNow は日付未指定時にリクエスト時刻が補完されることを検証する。
func TestAddExercise_DefaultsDateToNow(t *testing.T) {
	svc, _, alice := newTestService(t)

	for _, raw := range []string{"", "   "} {
		ex, err := svc.AddExercise(context.Background(), model.ExerciseDraft{
			UserID:      alice.ID,
			Description: "run",
			Duration:    "30",
			Date:        raw,
		})
		if err != nil {
			t.Fatalf("AddExercise() error = %v", err)
		}
		if !ex.Date.Equal(fixedNow) {
			t.Errorf("Date = %v, want %v", ex.Date, fixedNow)
		}
		if ex.DisplayDate() != "Fri Oct 16 2026" {
			t.Errorf("DisplayDate() = %q", ex.DisplayDate())
		}
	}
}

// TestAddExercise_UserNotFound は存在しないユーザーで何も永続化されないことを検証する。
func TestAddExercise_UserNotFound(t *testing.T) {
	svc, repo, alice := newTestService(t)

	for _, userID := range []string{model.NewID(), "not-a-uuid", ""} {
		_, err := svc.AddExercise(context.Background(), model.ExerciseDraft{
			UserID:      userID,
			Description: "run",
			Duration:    "30",
		})
		if !model.IsCode(err, model.ErrCodeUserNotFound) {
			t.Errorf("userID=%q: expected USER_NOT_FOUND, got %v", userID, err)
		}
	}

	if n := persisted(t, repo, alice.ID); n != 0 {
		t.Errorf("persisted count = %d, want 0", n)
	}
}

func TestAddExercise_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		draft     model.ExerciseDraft
		wantField string
		wantMsg   string
	}{
		{
			name:      "説明が21文字",
			draft:     model.ExerciseDraft{Description: strings.Repeat("a", 21), Duration: "30"},
			wantField: "description",
			wantMsg:   "description too long",
		},
		{
			name:      "説明が空",
			draft:     model.ExerciseDraft{Description: "", Duration: "30"},
			wantField: "description",
			wantMsg:   "description is required",
		},
		{
			name:      "時間が0分",
			draft:     model.ExerciseDraft{Description: "run", Duration: "0"},
			wantField: "duration",
			wantMsg:   "duration too short",
		},
		{
			name:      "時間が負",
			draft:     model.ExerciseDraft{Description: "run", Duration: "-5"},
			wantField: "duration",
			wantMsg:   "duration too short",
		},
		{
			name:      "時間が数値でない",
			draft:     model.ExerciseDraft{Description: "run", Duration: "abc"},
			wantField: "duration",
			wantMsg:   "duration must be a number",
		},
		{
			name:      "時間が1分未満の小数",
			draft:     model.ExerciseDraft{Description: "run", Duration: "0.5"},
			wantField: "duration",
			wantMsg:   "duration too short",
		},
		{
			name:      "時間が整数でない",
			draft:     model.ExerciseDraft{Description: "run", Duration: "30.5"},
			wantField: "duration",
			wantMsg:   "duration must be a whole number",
		},
		{
			name:      "時間がINTEGERの上限を超える",
			draft:     model.ExerciseDraft{Description: "run", Duration: "3000000000"},
			wantField: "duration",
			wantMsg:   "duration too long",
		},
		{
			name:      "時間がNaN",
			draft:     model.ExerciseDraft{Description: "run", Duration: "NaN"},
			wantField: "duration",
			wantMsg:   "duration must be a number",
		},
		{
			name:      "時間が桁あふれ",
			draft:     model.ExerciseDraft{Description: "run", Duration: "1e400"},
			wantField: "duration",
			wantMsg:   "duration must be a number",
		},
		{
			name:      "説明にNUL文字",
			draft:     model.ExerciseDraft{Description: "a\x00b", Duration: "30"},
			wantField: "description",
			wantMsg:   "description is invalid",
		},
		{
			name:      "説明が不正なUTF-8",
			draft:     model.ExerciseDraft{Description: "run\xff", Duration: "30"},
			wantField: "description",
			wantMsg:   "description is invalid",
		},
		{
			name:      "時間が空",
			draft:     model.ExerciseDraft{Description: "run", Duration: ""},
			wantField: "duration",
			wantMsg:   "duration is required",
		},
		{
			name:      "日付が不正",
			draft:     model.ExerciseDraft{Description: "run", Duration: "30", Date: "yesterday"},
			wantField: "date",
			wantMsg:   "date is invalid",
		},
		{
			name:      "最初に違反したフィールドを返す",
			draft:     model.ExerciseDraft{Description: strings.Repeat("a", 21), Duration: "0", Date: "bad"},
			wantField: "description",
			wantMsg:   "description too long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, alice := newTestService(t)
			tt.draft.UserID = alice.ID

			_, err := svc.AddExercise(context.Background(), tt.draft)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
				t.Fatalf("expected VALIDATION_ERROR, got %v", err)
			}
			if apiErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", apiErr.Field, tt.wantField)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
			if n := persisted(t, repo, alice.ID); n != 0 {
				t.Errorf("persisted count = %d, want 0", n)
			}
		})
	}
}

// TestAddExercise_NumericDurations は整数値を表す数値表記を受け付けることを検証する。
func TestAddExercise_NumericDurations(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"30", 30},
		{" 45 ", 45},
		{"30.0", 30},
		{"3e1", 30},
		{"2147483647", model.DurationMax},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			svc, _, alice := newTestService(t)

			ex, err := svc.AddExercise(context.Background(), model.ExerciseDraft{
				UserID:      alice.ID,
				Description: "run",
				Duration:    tt.raw,
			})
			if err != nil {
				t.Fatalf("AddExercise() error = %v", err)
			}
			if ex.Duration != tt.want {
				t.Errorf("Duration = %d, want %d", ex.Duration, tt.want)
			}
		})
	}
}

// TestAddExercise_DescriptionCountsRunes は説明の長さを文字数で数えることを検証する。
func TestAddExercise_DescriptionCountsRunes(t *testing.T) {
	svc, _, alice := newTestService(t)

	_, err := svc.AddExercise(context.Background(), model.ExerciseDraft{
		UserID:      alice.ID,
		Description: strings.Repeat("走", 20),
		Duration:    "30",
	})
	if err != nil {
		t.Fatalf("20文字の説明は受け付けられるべき: %v", err)
	}
}

// TestAddExercise_UsesSingleUserSnapshot はユーザー解決が1回だけ行われることを検証する。
func TestAddExercise_UsesSingleUserSnapshot(t *testing.T) {
	calls := 0
	userID := model.NewID()
	users := &mockUserFinder{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			calls++
			return &model.User{ID: id, Username: "alice"}, nil
		},
	}
	repo := &mockExerciseRepo{}
	rec := &mockRecorder{}
	svc := NewService(users, repo, rec)

	if _, err := svc.AddExercise(context.Background(), model.ExerciseDraft{
		UserID: userID, Description: "run", Duration: "30",
	}); err != nil {
		t.Fatalf("AddExercise() error = %v", err)
	}

	if calls != 1 {
		t.Errorf("FindByID calls = %d, want 1", calls)
	}
	if rec.added != 1 {
		t.Errorf("recorded added = %d, want 1", rec.added)
	}
}

func TestAddExercise_StoreErrors(t *testing.T) {
	storeErr := errors.New("connection refused")

	t.Run("ユーザー解決失敗", func(t *testing.T) {
		users := &mockUserFinder{
			findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
				return nil, storeErr
			},
		}
		svc := NewService(users, &mockExerciseRepo{}, nil)

		_, err := svc.AddExercise(context.Background(), model.ExerciseDraft{
			UserID: model.NewID(), Description: "run", Duration: "30",
		})
		if !errors.Is(err, storeErr) {
			t.Fatalf("expected wrapped store error, got %v", err)
		}
	})

	t.Run("永続化失敗", func(t *testing.T) {
		users := &mockUserFinder{
			findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
				return &model.User{ID: id, Username: "alice"}, nil
			},
		}
		repo := &mockExerciseRepo{
			createFn: func(ctx context.Context, e *model.Exercise) error { return storeErr },
		}
		rec := &mockRecorder{}
		svc := NewService(users, repo, rec)

		_, err := svc.AddExercise(context.Background(), model.ExerciseDraft{
			UserID: model.NewID(), Description: "run", Duration: "30",
		})
		if !errors.Is(err, storeErr) {
			t.Fatalf("expected wrapped store error, got %v", err)
		}
		if rec.added != 0 {
			t.Errorf("recorded added = %d, want 0", rec.added)
		}
	})
}

package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/hitoshi/exercisetracker/internal/model"
)

// MemoryUserRepo はプロセス内メモリにユーザーを保持するリポジトリ。
// ローカル開発およびテスト用。ユーザー名の一意性はロック下で保証する。
type MemoryUserRepo struct {
	mu         sync.RWMutex
	users      []*model.User
	byID       map[string]*model.User
	byUsername map[string]*model.User
}

// NewMemoryUserRepo はMemoryUserRepoを生成する。
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:       make(map[string]*model.User),
		byUsername: make(map[string]*model.User),
	}
}

// Create はユーザーを作成する。同名ユーザーが存在する場合はUSERNAME_TAKENを返す。
func (r *MemoryUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[user.Username]; ok {
		return model.NewUsernameTakenError()
	}

	u := *user
	r.users = append(r.users, &u)
	r.byID[u.ID] = &u
	r.byUsername[u.Username] = &u
	return nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byUsername[username]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// List は全ユーザーを作成順で返す。
func (r *MemoryUserRepo) List(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, len(r.users))
	for i, u := range r.users {
		cp := *u
		users[i] = &cp
	}
	return users, nil
}

func (r *MemoryUserRepo) exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok
}

// MemoryExerciseRepo はプロセス内メモリにエクササイズを保持するリポジトリ。
// user_idの参照整合性はMemoryUserRepoに対して検証する。
type MemoryExerciseRepo struct {
	users *MemoryUserRepo

	mu        sync.RWMutex
	exercises []*model.Exercise
}

// NewMemoryExerciseRepo はMemoryExerciseRepoを生成する。
func NewMemoryExerciseRepo(users *MemoryUserRepo) *MemoryExerciseRepo {
	return &MemoryExerciseRepo{users: users}
}

// Create はエクササイズを作成する。参照先ユーザーが存在しない場合はUSER_NOT_FOUNDを返す。
func (r *MemoryExerciseRepo) Create(ctx context.Context, exercise *model.Exercise) error {
	if r.users != nil && !r.users.exists(exercise.UserID) {
		return model.NewUserNotFoundError()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e := *exercise
	r.exercises = append(r.exercises, &e)
	return nil
}

// ListByUser は条件に一致するユーザーのエクササイズをdate降順で返す。
func (r *MemoryExerciseRepo) ListByUser(ctx context.Context, filter model.LogFilter) ([]*model.Exercise, error) {
	r.mu.RLock()
	matched := []*model.Exercise{}
	for _, e := range r.exercises {
		if e.UserID != filter.UserID {
			continue
		}
		if filter.From != nil && !e.Date.After(*filter.From) {
			continue
		}
		if filter.To != nil && !e.Date.Before(*filter.To) {
			continue
		}
		cp := *e
		matched = append(matched, &cp)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Date.Equal(matched[j].Date) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].Date.After(matched[j].Date)
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// compile-time interface check
var (
	_ UserRepository     = (*MemoryUserRepo)(nil)
	_ ExerciseRepository = (*MemoryExerciseRepo)(nil)
)

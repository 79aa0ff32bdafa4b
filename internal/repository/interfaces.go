// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/exercisetracker/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// ユーザー名が既に存在する場合はUSERNAME_TAKENのAPIErrorを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// List は全ユーザーを作成順で返す。
	List(ctx context.Context) ([]*model.User, error)
}

// ExerciseRepository はエクササイズデータの永続化インターフェース。
type ExerciseRepository interface {
	// Create はバリデーション・補完済みのエクササイズを作成する。
	Create(ctx context.Context, exercise *model.Exercise) error

	// ListByUser は条件に一致するユーザーのエクササイズをdate降順で返す。
	// dateはFromより大きくToより小さいもののみを対象とし、Limitが正の場合はその件数で打ち切る。
	ListByUser(ctx context.Context, filter model.LogFilter) ([]*model.Exercise, error)
}

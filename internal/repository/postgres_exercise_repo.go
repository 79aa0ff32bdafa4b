package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/exercisetracker/internal/model"
)

// PostgresExerciseRepo はPostgreSQLを使用したエクササイズリポジトリ。
type PostgresExerciseRepo struct {
	db *sql.DB
}

// NewPostgresExerciseRepo はPostgresExerciseRepoを生成する。
func NewPostgresExerciseRepo(db *sql.DB) *PostgresExerciseRepo {
	return &PostgresExerciseRepo{db: db}
}

// Create はエクササイズを作成する。
// user_idの外部キー違反はユーザー未検出として返す。
func (r *PostgresExerciseRepo) Create(ctx context.Context, exercise *model.Exercise) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO exercises (id, user_id, username, description, duration, date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		exercise.ID, exercise.UserID, exercise.Username, exercise.Description,
		exercise.Duration, exercise.Date, exercise.CreatedAt,
	)
	if code, ok := pqErrorCode(err); ok && code == pgForeignKeyViolation {
		return model.NewUserNotFoundError()
	}
	if err != nil {
		return fmt.Errorf("failed to insert exercise: %w", err)
	}
	return nil
}

// ListByUser は条件に一致するユーザーのエクササイズをdate降順で返す。
func (r *PostgresExerciseRepo) ListByUser(ctx context.Context, filter model.LogFilter) ([]*model.Exercise, error) {
	query, args := buildListByUserQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("エクササイズ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	exercises := []*model.Exercise{}
	for rows.Next() {
		e := &model.Exercise{}
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Username, &e.Description,
			&e.Duration, &e.Date, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("エクササイズのスキャンに失敗しました: %w", err)
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("エクササイズ一覧の走査に失敗しました: %w", err)
	}

	return exercises, nil
}

// buildListByUserQuery はLogFilterからSELECT文とプレースホルダ引数を組み立てる。
// 範囲条件はいずれも開区間（date > from, date < to）。
func buildListByUserQuery(filter model.LogFilter) (string, []interface{}) {
	query := `
		SELECT id, user_id, username, description, duration, date, created_at
		FROM exercises
		WHERE user_id = $1`

	args := []interface{}{filter.UserID}
	argIndex := 2

	if filter.From != nil {
		query += fmt.Sprintf(" AND date > $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND date < $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	query += " ORDER BY date DESC, created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	return query, args
}

// compile-time interface check
var _ ExerciseRepository = (*PostgresExerciseRepo)(nil)

package exercise

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/exercisetracker/internal/model"
)

// LogQuery はログ取得リクエストの解析結果を表す。
// 解析できなかったfrom/toはnil（未指定）として扱う。
type LogQuery struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// ParseLogQuery はクエリパラメータ（userId, from, to, limit）を解析する。
// 不正な日付は未指定として、数値でない・正でないlimitは制限なしとして扱う。
func ParseLogQuery(values url.Values) LogQuery {
	q := LogQuery{
		UserID: values.Get("userId"),
	}

	if t, ok := parseDate(values.Get("from")); ok {
		q.From = &t
	}
	if t, ok := parseDate(values.Get("to")); ok {
		q.To = &t
	}
	if n, err := strconv.Atoi(strings.TrimSpace(values.Get("limit"))); err == nil && n > 0 {
		q.Limit = n
	}

	return q
}

// GetLog はユーザーのエクササイズログを検索し、サマリーとして返す。
// ユーザーが見つからない場合はUNKNOWN_USER_IDを返す。
// toが未指定の場合は検索時点の現在時刻を上限とし、fromが未指定の場合は下限を設けない。
func (s *Service) GetLog(ctx context.Context, q LogQuery) (*model.ExerciseLog, error) {
	user, err := s.resolveUser(ctx, q.UserID)
	if err != nil {
		if model.IsCode(err, model.ErrCodeUserNotFound) {
			return nil, model.NewUnknownUserIDError()
		}
		return nil, err
	}

	filter := model.LogFilter{
		UserID: user.ID,
		From:   q.From,
		To:     q.To,
		Limit:  q.Limit,
	}
	if filter.To == nil {
		now := s.now().UTC()
		filter.To = &now
	}

	exercises, err := s.exercises.ListByUser(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("エクササイズログの取得に失敗しました: %w", err)
	}

	result := &model.ExerciseLog{
		UserID:   user.ID,
		Username: user.Username,
		From:     q.From,
		To:       q.To,
		Count:    len(exercises),
		Entries:  make([]model.LogEntry, len(exercises)),
	}
	for i, ex := range exercises {
		result.Entries[i] = model.LogEntry{
			Description: ex.Description,
			Duration:    ex.Duration,
			Date:        ex.Date,
		}
	}

	if s.recorder != nil {
		s.recorder.RecordLogQuery(result.Count)
	}

	return result, nil
}

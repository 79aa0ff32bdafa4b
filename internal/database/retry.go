package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetryPolicy はDB接続確認の再試行方針を表す。
type RetryPolicy struct {
	Attempts     int           // 最大試行回数（1以下なら1回のみ）
	InitialDelay time.Duration // 初回の待機時間
	MaxDelay     time.Duration // 待機時間の上限
}

// DefaultRetryPolicy は起動時のDB接続確認で使う既定の再試行方針を返す。
// 初回500ms、2倍ずつ増加、最大8秒。
func DefaultRetryPolicy(attempts int) RetryPolicy {
	return RetryPolicy{
		Attempts:     attempts,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     8 * time.Second,
	}
}

// Backoff はfailures回連続で失敗した後の待機時間を計算する。
func (p RetryPolicy) Backoff(failures int) time.Duration {
	delay := p.InitialDelay
	for i := 1; i < failures; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// Retry はfnが成功するまで指数バックオフで再試行する。
// 試行回数を使い切った場合は最後のエラーを返し、ctxがキャンセルされた場合はctxのエラーを返す。
func Retry(ctx context.Context, p RetryPolicy, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if i == attempts {
			break
		}

		delay := p.Backoff(i)
		slog.Warn("database not ready, retrying",
			slog.Int("attempt", i),
			slog.Duration("retry_in", delay),
			slog.String("error", err.Error()),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", attempts, err)
}

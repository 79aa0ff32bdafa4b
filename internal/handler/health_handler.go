package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/exercisetracker/internal/middleware"
)

// HealthChecker はストアへの疎通確認を行う関数。
type HealthChecker func(ctx context.Context) error

// healthHandler はストアの疎通を確認し、正常なら200 "ok"を返す。
// 疎通できない場合は503を返す。
func healthHandler(check HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				slog.Warn("health check failed", slog.String("error", err.Error()))
				middleware.WriteError(w, http.StatusServiceUnavailable, "unavailable")
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}

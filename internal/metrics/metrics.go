// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// user.Recorder、exercise.Recorder、middleware.HTTPRecorderを満たす。
type Collector struct {
	usersRegistered prometheus.Counter
	exercisesAdded  prometheus.Counter
	logQueries      prometheus.Counter
	logEntries      prometheus.Histogram
	httpStatus      *prometheus.CounterVec
	httpLatency     prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exercisetracker_users_registered_total",
			Help: "登録されたユーザーの合計数",
		}),
		exercisesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exercisetracker_exercises_added_total",
			Help: "記録されたエクササイズの合計数",
		}),
		logQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exercisetracker_log_queries_total",
			Help: "ログ検索の合計数",
		}),
		logEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "exercisetracker_log_entries",
			Help:    "ログ検索1回あたりの返却件数",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exercisetracker_http_requests_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "exercisetracker_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.usersRegistered,
		c.exercisesAdded,
		c.logQueries,
		c.logEntries,
		c.httpStatus,
		c.httpLatency,
	)

	return c
}

// RecordUserRegistered はユーザー登録を記録する。
func (c *Collector) RecordUserRegistered() {
	c.usersRegistered.Inc()
}

// RecordExerciseAdded はエクササイズの記録を記録する。
func (c *Collector) RecordExerciseAdded() {
	c.exercisesAdded.Inc()
}

// RecordLogQuery はログ検索と返却件数を記録する。
func (c *Collector) RecordLogQuery(entries int) {
	c.logQueries.Inc()
	c.logEntries.Observe(float64(entries))
}

// RecordHTTPRequest はHTTPステータスコードと処理時間を記録する。
func (c *Collector) RecordHTTPRequest(statusCode int, duration time.Duration) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

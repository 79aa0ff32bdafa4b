// Package model はドメインモデルを定義する。
package model

import (
	"math"
	"time"
)

// 記述・時間のフィールド制約。DurationMaxはdurationカラム（INTEGER）の上限に合わせる。
const (
	DescriptionMaxLength = 20
	DurationMin          = 1
	DurationMax          = math.MaxInt32
)

// DisplayDateLayout はログ表示用の日付フォーマット（例: "Fri Oct 16 2026"）。
const DisplayDateLayout = "Mon Jan 02 2006"

// Exercise はユーザーに紐付くエクササイズ記録を表す。
// Usernameは作成時点のユーザー名のスナップショットであり、以後同期されない。
type Exercise struct {
	ID          string
	UserID      string
	Username    string
	Description string
	Duration    int // 分
	Date        time.Time
	CreatedAt   time.Time
}

// DisplayDate は日付部分のみを人間可読な文字列で返す。
func (e *Exercise) DisplayDate() string {
	return FormatDisplayDate(e.Date)
}

// FormatDisplayDate はUTCの日付を表示用フォーマットに変換する。
func FormatDisplayDate(t time.Time) string {
	return t.UTC().Format(DisplayDateLayout)
}

// ExerciseDraft はパイプライン処理前のエクササイズ追加リクエストを表す。
// Duration・Dateはクライアント入力の生文字列のまま保持する。
type ExerciseDraft struct {
	UserID      string
	Username    string // クライアント指定値。永続化時には常に上書きされる
	Description string
	Duration    string
	Date        string
}

// LogFilter はエクササイズログの検索条件を表す。
// From/Toがnilの場合はその方向に上限・下限を設けない。
// Limitが0以下の場合は件数を制限しない。
type LogFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// LogEntry はログに含まれるエクササイズ1件分の情報。
type LogEntry struct {
	Description string
	Duration    int
	Date        time.Time
}

// ExerciseLog はログ取得結果のサマリーを表す。
// From/Toはリクエストで有効な値が指定された場合のみ設定される。
type ExerciseLog struct {
	UserID   string
	Username string
	From     *time.Time
	To       *time.Time
	Count    int
	Entries  []LogEntry
}

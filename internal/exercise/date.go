package exercise

import (
	"strings"
	"time"
)

// acceptedDateLayouts は日付入力として受け付けるフォーマット。
// タイムゾーンを含まない入力はUTCとして解釈する。
var acceptedDateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parseDate は日付文字列を解析する。解析できない場合はok=falseを返す。
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

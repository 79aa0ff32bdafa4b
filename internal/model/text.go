package model

import (
	"strings"
	"unicode/utf8"
)

// IsStorableText はsが正しいUTF-8でありNUL文字を含まないかを判定する。
// PostgreSQLのテキスト型はいずれも受け付けない。
func IsStorableText(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

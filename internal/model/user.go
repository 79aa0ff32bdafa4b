// Package model はドメインモデルを定義する。
package model

import "time"

// UsernameMaxLength はユーザー名の最大文字数。usernameカラムのVARCHAR(255)に合わせる。
const UsernameMaxLength = 255

// User はエクササイズを記録するユーザーを表す。
// 作成後に更新・削除されることはない。
type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

package model

import "github.com/google/uuid"

// NewID はエンティティ用の新しい識別子（UUID v4）を生成する。
func NewID() string {
	return uuid.New().String()
}

// IsValidID はidがエンティティ識別子として解釈可能かを判定する。
// 不正な形式のIDはストアに問い合わせるまでもなく存在しないものとして扱う。
func IsValidID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

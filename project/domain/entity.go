package domain

import (
	"fmt"
	"strings"
)

// エンジンから渡される出題レコード。
// WinningAnswer と WinningUser は直前の問題の結果、
// それ以外の項目は新しく出題する問題を表します
type Question struct {
	// WinningAnswer は直前の問題の正解（表示用）
	WinningAnswer string `json:"winning_answer"`

	// WinningUser は直前の問題の正解者。正解者なし（スキップ等）の場合は nil
	WinningUser *WinningUser `json:"winning_user,omitempty"`

	// Year は出題年
	Year int `json:"year"`

	// Category はカテゴリ名
	Category string `json:"category"`

	// Value は配点
	Value int `json:"value"`

	// Comment は補足コメント。空の場合は表示されません
	Comment string `json:"comment,omitempty"`

	// Question は新しく出題する問題文
	Question string `json:"question"`
}

// WinningUser は正解者の当日成績を表します
type WinningUser struct {
	// UID は正解者のユーザーID（表示名解決に使用）
	UID string `json:"uid"`

	// Score は当日の累計スコア
	Score int64 `json:"score"`

	// Rank は当日スコアの順位（1始まり）
	Rank int `json:"rank"`
}

// UserProfile はプラットフォームのユーザープロフィールのうち
// 表示名解決に使う項目だけを抜き出したものです
type UserProfile struct {
	// DisplayNameNormalized は正規化済み表示名（最優先で採用）
	DisplayNameNormalized string

	// RealNameNormalized は正規化済み実名（表示名が空の場合に採用）
	RealNameNormalized string
}

// Validate は Question の必須項目を検証します
func (q Question) Validate() error {
	if strings.TrimSpace(q.WinningAnswer) == "" {
		return fmt.Errorf("%w: WinningAnswer は必須項目です", ErrInvalid)
	}
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("%w: Question は必須項目です", ErrInvalid)
	}
	if q.WinningUser != nil && strings.TrimSpace(q.WinningUser.UID) == "" {
		return fmt.Errorf("%w: WinningUser.UID は必須項目です", ErrInvalid)
	}
	return nil
}

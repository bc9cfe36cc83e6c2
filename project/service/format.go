package service

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"slack-trivia/project/domain"
)

// FormatQuestion は問題レコードを3行の表示テキストに整形します。
//
//	1行目: 正解者がいれば "Correct: *answer* -- 表示名 (today: 1,234 #2)"、
//	       いなければ "Answer: *answer*"
//	2行目: "(year) *category* for *value*"（comment があれば " _comment_" を追記）
//	3行目: 新しい問題文の引用（">" プレフィックス）
//
// resolve はユーザーIDから表示名への解決関数です（名前キャッシュを渡す）
func FormatQuestion(q *domain.Question, resolve func(uid string) string) string {
	var line1 string
	if user := q.WinningUser; user != nil {
		username := resolve(user.UID)
		line1 = fmt.Sprintf("Correct: *%s* -- %s (today: %s #%d)",
			q.WinningAnswer, username, humanize.Comma(user.Score), user.Rank)
	} else {
		line1 = fmt.Sprintf("Answer: *%s*", q.WinningAnswer)
	}

	line2 := fmt.Sprintf("(%d) *%s* for *%d*", q.Year, q.Category, q.Value)
	if q.Comment != "" {
		line2 += fmt.Sprintf(" _%s_", q.Comment)
	}

	line3 := fmt.Sprintf(">%s", q.Question)

	return strings.Join([]string{line1, line2, line3}, "\n")
}

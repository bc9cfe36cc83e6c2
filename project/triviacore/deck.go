package triviacore

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// deckQuestion は問題ファイル内の1問を表します
type deckQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Year     int    `json:"year"`
	Category string `json:"category"`
	Value    int    `json:"value"`
	Comment  string `json:"comment,omitempty"`
}

// loadDeck は JSON の問題ファイルを読み込みます
func loadDeck(path string) ([]deckQuestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("triviacore: 問題ファイル読み込み失敗 (path=%s): %w", path, err)
	}

	var deck []deckQuestion
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("triviacore: 問題ファイルパース失敗 (path=%s): %w", path, err)
	}

	if len(deck) == 0 {
		return nil, fmt.Errorf("triviacore: 問題ファイルが空です (path=%s)", path)
	}

	for i, q := range deck {
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer) == "" {
			return nil, fmt.Errorf("triviacore: 問題 %d に question / answer がありません", i)
		}
	}

	return deck, nil
}

// normalizeAnswer は正誤比較用に回答を正規化します。
// 小文字化、記号除去、冠詞（the / a / an）の除去、空白の畳み込みを行います
func normalizeAnswer(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	if len(fields) > 1 {
		switch fields[0] {
		case "the", "a", "an":
			fields = fields[1:]
		}
	}

	return strings.Join(fields, " ")
}

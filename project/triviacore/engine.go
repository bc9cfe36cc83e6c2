package triviacore

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"
	"time"

	"slack-trivia/project/domain"
	"slack-trivia/project/dto"
	"slack-trivia/project/service"
)

// dayFormat は日次スコアボードの区切りに使う日付キーの書式です
const dayFormat = "2006-01-02"

// Engine は service.Engine を満たす参照実装のトリビアエンジンです。
// JSON の問題ファイルから出題し、正規化した文字列比較で正誤判定を行い、
// 当日分のスコアボードをメモリ上に保持します。
// アダプター側はこの実装に依存せず、ポート越しにのみ接続されます
type Engine struct {
	adminUID string
	platform string
	cb       service.Callbacks

	deck    []deckQuestion
	current int

	scoreDay string           // 当日キー（日付が変わるとスコアはリセット）
	scores   map[string]int64 // uid -> 当日スコア

	now func() time.Time
}

// New はエンジンを構築し、コールバック一式を登録します。
// coreCfg は設定ファイルの trivia_core 項目で、
// admin_uid と questions_file を必須とします
func New(coreCfg map[string]any, platform string, cb service.Callbacks) (*Engine, error) {
	adminUID, _ := coreCfg["admin_uid"].(string)
	if adminUID == "" {
		return nil, fmt.Errorf("triviacore: admin_uid は必須項目です")
	}

	path, _ := coreCfg["questions_file"].(string)
	if path == "" {
		return nil, fmt.Errorf("triviacore: questions_file は必須項目です")
	}

	deck, err := loadDeck(path)
	if err != nil {
		return nil, err
	}

	// shuffle: false を指定した場合のみファイル順のまま出題する
	if shuffle, ok := coreCfg["shuffle"].(bool); !ok || shuffle {
		rand.Shuffle(len(deck), func(i, j int) {
			deck[i], deck[j] = deck[j], deck[i]
		})
	}

	e := &Engine{
		adminUID: adminUID,
		platform: platform,
		cb:       cb,
		deck:     deck,
		scores:   make(map[string]int64),
		now:      time.Now,
	}
	e.scoreDay = e.now().Format(dayFormat)

	log.Printf("トリビアエンジン初期化 (platform=%s, questions=%d)", platform, len(deck))

	return e, nil
}

// Start は最初の問題を投稿してゲームを開始します。
// 初回だけは「直前の正解」が存在しないため、問題レコードではなく素のテキストで出題します
func (e *Engine) Start() {
	q := e.deck[e.current]
	e.cb.PostMessage(fmt.Sprintf("(%d) *%s* for *%d*\n>%s", q.Year, q.Category, q.Value, q.Question))
}

// HandleMessage は受信メッセージを処理します。
// 管理者の "!" コマンドはコマンドとして処理し、それ以外は回答として判定します。
// 誤答は OnError コールバックで本人に通知し、その配送エラーのみ呼び出し元へ返します
func (e *Engine) HandleMessage(uid, text string, payload *dto.MessagePayload) error {
	if uid == e.adminUID && strings.HasPrefix(text, "!") {
		e.handleCommand(text, payload)
		return nil
	}

	guess := normalizeAnswer(text)
	if guess == "" {
		return nil
	}

	if guess != normalizeAnswer(e.deck[e.current].Answer) {
		return e.cb.OnError(payload, "Sorry, that's not the answer.")
	}

	e.rollDay()
	e.scores[uid] += int64(e.deck[e.current].Value)

	winner := &domain.WinningUser{
		UID:   uid,
		Score: e.scores[uid],
		Rank:  e.rank(uid),
	}

	e.cb.CorrectAnswer(payload)
	e.advance(winner)

	return nil
}

// handleCommand は管理者コマンドを処理します。応答は元イベントのチャンネルへ返します
func (e *Engine) handleCommand(text string, payload *dto.MessagePayload) {
	switch strings.Fields(text)[0] {
	case "!skip":
		e.advance(nil)
	case "!scores":
		e.cb.PostReply(e.cb.PreFormat(e.scoreboard()), payload)
	case "!help":
		e.cb.PostReply("commands: !skip !scores !help", payload)
	default:
		e.cb.PostReply(fmt.Sprintf("unknown command: %s", text), payload)
	}
}

// advance は現在の問題を確定させ、その正解と次の問題を1レコードにまとめて投稿します。
// winner が nil の場合（スキップ）は正解のみが表示されます
func (e *Engine) advance(winner *domain.WinningUser) {
	answered := e.deck[e.current]
	e.current = (e.current + 1) % len(e.deck)
	next := e.deck[e.current]

	e.cb.PostQuestion(&domain.Question{
		WinningAnswer: answered.Answer,
		WinningUser:   winner,
		Year:          next.Year,
		Category:      next.Category,
		Value:         next.Value,
		Comment:       next.Comment,
		Question:      next.Question,
	})
}

// rollDay は日付が変わっていたら当日スコアをリセットします
func (e *Engine) rollDay() {
	day := e.now().Format(dayFormat)
	if day != e.scoreDay {
		e.scoreDay = day
		e.scores = make(map[string]int64)
	}
}

// rank は uid の当日順位を返します（同点は同順位、1始まり）
func (e *Engine) rank(uid string) int {
	rank := 1
	for other, score := range e.scores {
		if other != uid && score > e.scores[uid] {
			rank++
		}
	}
	return rank
}

// scoreboard は当日スコアの順位表テキストを作ります
func (e *Engine) scoreboard() string {
	if len(e.scores) == 0 {
		return "no scores today"
	}

	uids := make([]string, 0, len(e.scores))
	for uid := range e.scores {
		uids = append(uids, uid)
	}
	sort.Slice(uids, func(i, j int) bool {
		if e.scores[uids[i]] != e.scores[uids[j]] {
			return e.scores[uids[i]] > e.scores[uids[j]]
		}
		return uids[i] < uids[j]
	})

	var lines []string
	for _, uid := range uids {
		lines = append(lines, fmt.Sprintf("#%d %s: %d", e.rank(uid), e.cb.GetDisplayName(uid), e.scores[uid]))
	}

	return strings.Join(lines, "\n")
}

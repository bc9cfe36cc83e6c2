package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"slack-trivia/project/domain"
	"slack-trivia/project/dto"
	"slack-trivia/project/infrastructure/config"
)

// apiTimeout は個々のプラットフォーム API 呼び出しの上限時間です
const apiTimeout = 10 * time.Second

// sendRetryInterval は送信再試行の間隔です
const sendRetryInterval = time.Second

// TriviaService はエンジンのコールバック一式と送信リトライを担うアダプター本体です。
// イベント処理は1件ずつ同期的に行われる前提ですが、
// 名前キャッシュ側はロックを持つため並行呼び出しにも耐えます
type TriviaService struct {
	cfg   *config.Config
	port  ChatPort
	names *NameCache

	// sleep はリトライ間の待機関数。テストで差し替えます
	sleep func(time.Duration)
}

// NewTriviaService は TriviaService を作成します
func NewTriviaService(cfg *config.Config, port ChatPort) *TriviaService {
	return &TriviaService{
		cfg:   cfg,
		port:  port,
		names: NewNameCache(port),
		sleep: time.Sleep,
	}
}

// Callbacks はエンジンへ登録するコールバック一式を返します。
// 1スロットにつき1ハンドラを構築時に割り当てます
func (s *TriviaService) Callbacks() Callbacks {
	return Callbacks{
		PreFormat:      s.PreFormat,
		PostQuestion:   s.PostQuestion,
		PostMessage:    s.PostMessage,
		PostReply:      s.PostReply,
		GetDisplayName: s.GetDisplayName,
		CorrectAnswer:  s.CorrectAnswer,
		OnError:        s.OnError,
	}
}

// PreFormat は表示用テキストをコードブロックで包みます
func (s *TriviaService) PreFormat(text string) string {
	return fmt.Sprintf("```%s```", text)
}

// PostQuestion は問題レコードを整形してトリビアチャンネルへ投稿します
func (s *TriviaService) PostQuestion(q *domain.Question) {
	s.sendMessage(s.cfg.TriviaChannel, FormatQuestion(q, s.GetDisplayName))
}

// PostMessage はテキストをそのままトリビアチャンネルへ投稿します
func (s *TriviaService) PostMessage(text string) {
	s.sendMessage(s.cfg.TriviaChannel, text)
}

// PostReply は元イベントのチャンネルへ投稿します。
// 管理者が DM から操作している場合はトリビアチャンネルと異なるチャンネルになります
func (s *TriviaService) PostReply(text string, payload *dto.MessagePayload) {
	s.sendMessage(payload.Channel, text)
}

// GetDisplayName は名前キャッシュ経由で表示名を解決します
func (s *TriviaService) GetDisplayName(uid string) string {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
	defer cancel()

	return s.names.Resolve(ctx, uid)
}

// CorrectAnswer は正解メッセージに white_check_mark リアクションを付与します。
// リアクションの付与失敗はプレイヤーに見えるエラーではないため、ログのみ残して握りつぶします
func (s *TriviaService) CorrectAnswer(payload *dto.MessagePayload) {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
	defer cancel()

	if err := s.port.AddReaction(ctx, "white_check_mark", s.cfg.TriviaChannel, payload.Timestamp); err != nil {
		log.Printf("正解リアクション付与失敗 (ts=%s): %v", payload.Timestamp, err)
	}
}

// OnError はエンジンが報告したエラーを本人に通知します。
// 元メッセージに x リアクションを付け、エラー文をエフェメラルで送ります。
// 他のハンドラーと異なり、ここでのプラットフォームエラーは呼び出し元へ返します
func (s *TriviaService) OnError(payload *dto.MessagePayload, text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
	defer cancel()

	if err := s.port.AddReaction(ctx, "x", payload.Channel, payload.Timestamp); err != nil {
		return fmt.Errorf("OnError: 否定リアクション付与失敗 (ts=%s): %w", payload.Timestamp, err)
	}

	if err := s.port.PostEphemeral(ctx, payload.Channel, payload.User, text); err != nil {
		return fmt.Errorf("OnError: エフェメラル送信失敗 (user=%s): %w", payload.User, err)
	}

	return nil
}

// sendMessage はメッセージ送信を max_tries 回まで再試行します（回数は最低1回）。
// 試行ごとに失敗をログに残し、1秒待ってから再試行します。
// 全試行が失敗した場合は諦めて戻ります（ベストエフォート配送の方針）
func (s *TriviaService) sendMessage(channel, text string) {
	maxTries := s.cfg.MaxTries
	if maxTries < 1 {
		maxTries = 1
	}

	for tries := 1; tries <= maxTries; tries++ {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		err := s.port.PostMessage(ctx, channel, text)
		cancel()
		if err == nil {
			return
		}

		log.Printf("Slack 送信エラー (try=%d/%d, channel=%s): %v", tries, maxTries, channel, err)
		s.sleep(sendRetryInterval)
	}
}

package handler

import (
	"slack-trivia/project/dto"
	"slack-trivia/project/infrastructure/config"
	"slack-trivia/project/service"
)

// MessageHandler は RTM セッションから届いた message イベントを
// フィルタしてエンジンへ転送するイベントルーターです
type MessageHandler struct {
	triviaChannel string
	adminUID      string
	engine        service.Engine
}

// NewMessageHandler はメッセージハンドラーを作成します
func NewMessageHandler(cfg *config.Config, engine service.Engine) *MessageHandler {
	return &MessageHandler{
		triviaChannel: cfg.TriviaChannel,
		adminUID:      cfg.AdminUID(),
		engine:        engine,
	}
}

// HandleMessageEvent は1件の message イベントを処理します。
// 対象外のイベントは何もせずに捨てます（エラーにしない）。
// 返り値はエンジン経由で伝播した OnError 系のエラーです
func (h *MessageHandler) HandleMessageEvent(ev *dto.MessagePayload) error {
	if !h.shouldHandle(ev) {
		return nil
	}

	return h.engine.HandleMessage(ev.User, ev.Text, ev)
}

// shouldHandle は転送条件を判定します。
// 条件: type が message、subtype なし、スレッド外、かつ
// トリビアチャンネル内のメッセージまたは管理者からのメッセージであること
func (h *MessageHandler) shouldHandle(ev *dto.MessagePayload) bool {
	if ev.Type != "message" {
		return false
	}
	if ev.SubType != "" {
		return false
	}
	if ev.ThreadTs != "" {
		return false
	}
	if ev.Channel != h.triviaChannel && ev.User != h.adminUID {
		return false
	}
	return true
}

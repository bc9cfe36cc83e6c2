package handler

import (
	"testing"

	"slack-trivia/project/dto"
	"slack-trivia/project/infrastructure/config"
)

// fakeEngine は service.Engine のテスト用実装です
type fakeEngine struct {
	calls []fakeCall
}

type fakeCall struct {
	uid  string
	text string
}

func (f *fakeEngine) HandleMessage(uid, text string, _ *dto.MessagePayload) error {
	f.calls = append(f.calls, fakeCall{uid: uid, text: text})
	return nil
}

func newTestHandler() (*MessageHandler, *fakeEngine) {
	cfg := &config.Config{
		SlackBotToken: "xoxb-test",
		TriviaChannel: "CTRIVIA",
		MaxTries:      1,
		TriviaCore:    map[string]any{"admin_uid": "UADMIN"},
	}
	engine := &fakeEngine{}
	return NewMessageHandler(cfg, engine), engine
}

func TestHandleMessageEventFilter(t *testing.T) {
	tests := []struct {
		name    string
		ev      dto.MessagePayload
		forward bool
	}{
		{
			name:    "トリビアチャンネルの通常メッセージは転送",
			ev:      dto.MessagePayload{Type: "message", User: "U1", Text: "paris", Channel: "CTRIVIA"},
			forward: true,
		},
		{
			name:    "他チャンネルの一般ユーザーは破棄",
			ev:      dto.MessagePayload{Type: "message", User: "U1", Text: "paris", Channel: "COTHER"},
			forward: false,
		},
		{
			name:    "管理者は他チャンネルからでも転送",
			ev:      dto.MessagePayload{Type: "message", User: "UADMIN", Text: "!skip", Channel: "DADMIN"},
			forward: true,
		},
		{
			name:    "管理者のDMも転送",
			ev:      dto.MessagePayload{Type: "message", User: "UADMIN", Text: "!scores", Channel: "D123"},
			forward: true,
		},
		{
			name:    "subtype 付きは管理者でも破棄",
			ev:      dto.MessagePayload{Type: "message", User: "UADMIN", Text: "x", Channel: "CTRIVIA", SubType: "message_changed"},
			forward: false,
		},
		{
			name:    "subtype 付きはトリビアチャンネルでも破棄",
			ev:      dto.MessagePayload{Type: "message", User: "U1", Text: "x", Channel: "CTRIVIA", SubType: "bot_message"},
			forward: false,
		},
		{
			name:    "スレッド内は破棄",
			ev:      dto.MessagePayload{Type: "message", User: "U1", Text: "x", Channel: "CTRIVIA", ThreadTs: "1700000000.000100"},
			forward: false,
		},
		{
			name:    "スレッド内は管理者でも破棄",
			ev:      dto.MessagePayload{Type: "message", User: "UADMIN", Text: "x", Channel: "CTRIVIA", ThreadTs: "1700000000.000100"},
			forward: false,
		},
		{
			name:    "message 以外の type は破棄",
			ev:      dto.MessagePayload{Type: "reaction_added", User: "U1", Text: "x", Channel: "CTRIVIA"},
			forward: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, engine := newTestHandler()

			if err := h.HandleMessageEvent(&tt.ev); err != nil {
				t.Fatalf("HandleMessageEvent returned error: %v", err)
			}

			forwarded := len(engine.calls) == 1
			if forwarded != tt.forward {
				t.Errorf("forwarded = %v, want %v", forwarded, tt.forward)
			}
			if forwarded {
				if engine.calls[0].uid != tt.ev.User || engine.calls[0].text != tt.ev.Text {
					t.Errorf("forwarded (uid=%q, text=%q), want (uid=%q, text=%q)",
						engine.calls[0].uid, engine.calls[0].text, tt.ev.User, tt.ev.Text)
				}
			}
		})
	}
}

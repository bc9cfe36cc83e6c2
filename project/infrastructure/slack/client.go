package slack

import (
	"context"
	"fmt"
	"log"

	"github.com/slack-go/slack"

	"slack-trivia/project/domain"
	"slack-trivia/project/dto"
	"slack-trivia/project/infrastructure/config"
)

// Client は service.ChatPort の Slack SDK 実装です。
// Web API 呼び出しと長命な RTM セッションの両方を保持します。
// RTM セッションはプロセスにつき1つで、終了までクローズしません
type Client struct {
	api     *slack.Client
	rtm     *slack.RTM
	botOpts []slack.MsgOption
}

// EventHandler は RTM セッションから届いた message イベントの処理先です
type EventHandler interface {
	HandleMessageEvent(ev *dto.MessagePayload) error
}

// NewClient は Slack クライアントを初期化します。
// bot の表示オプション（名前・アイコン）は全送信に共通で付与されます
func NewClient(token string, bot config.BotOptions) *Client {
	api := slack.New(token)

	var opts []slack.MsgOption
	if bot.Username != "" {
		opts = append(opts, slack.MsgOptionUsername(bot.Username))
	}
	if bot.IconEmoji != "" {
		opts = append(opts, slack.MsgOptionIconEmoji(bot.IconEmoji))
	}
	if bot.IconURL != "" {
		opts = append(opts, slack.MsgOptionIconURL(bot.IconURL))
	}

	return &Client{
		api:     api,
		rtm:     api.NewRTM(),
		botOpts: opts,
	}
}

// AuthTest は Bot トークンの有効性を確認します。
// 認証拒否は起動失敗として扱うため domain.ErrAuth を返します
func (c *Client) AuthTest(ctx context.Context) error {
	if _, err := c.api.AuthTestContext(ctx); err != nil {
		return fmt.Errorf("%w: auth.test 失敗: %v", domain.ErrAuth, err)
	}
	return nil
}

// TeamID はワークスペースのチームIDを取得します（エンジンの platform 識別子）
func (c *Client) TeamID(ctx context.Context) (string, error) {
	info, err := c.api.GetTeamInfoContext(ctx)
	if err != nil {
		return "", fmt.Errorf("slack: チーム情報取得失敗: %w", err)
	}
	return info.ID, nil
}

// PostMessage はチャンネルにメッセージを投稿します
func (c *Client) PostMessage(ctx context.Context, channel, text string) error {
	opts := append([]slack.MsgOption{slack.MsgOptionText(text, false)}, c.botOpts...)
	if _, _, err := c.api.PostMessageContext(ctx, channel, opts...); err != nil {
		return fmt.Errorf("slack: メッセージ投稿失敗 (channel=%s): %w", channel, err)
	}
	return nil
}

// PostEphemeral は指定ユーザーにのみ見えるメッセージを投稿します
func (c *Client) PostEphemeral(ctx context.Context, channel, user, text string) error {
	opts := append([]slack.MsgOption{slack.MsgOptionText(text, false)}, c.botOpts...)
	if _, err := c.api.PostEphemeralContext(ctx, channel, user, opts...); err != nil {
		return fmt.Errorf("slack: エフェメラル投稿失敗 (channel=%s, user=%s): %w", channel, user, err)
	}
	return nil
}

// AddReaction はメッセージにリアクションを付与します
func (c *Client) AddReaction(ctx context.Context, name, channel, timestamp string) error {
	if err := c.api.AddReactionContext(ctx, name, slack.NewRefToMessage(channel, timestamp)); err != nil {
		return fmt.Errorf("slack: リアクション付与失敗 (channel=%s, ts=%s, name=%s): %w", channel, timestamp, name, err)
	}
	return nil
}

// GetUserProfile はユーザープロフィールのうち表示名関連の項目を取得します
func (c *Client) GetUserProfile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	user, err := c.api.GetUserInfoContext(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("slack: ユーザー情報取得失敗 (uid=%s): %w", uid, err)
	}

	return &domain.UserProfile{
		DisplayNameNormalized: user.Profile.DisplayNameNormalized,
		RealNameNormalized:    user.Profile.RealNameNormalized,
	}, nil
}

// Run は RTM セッションを開始し、message イベントを handler へ1件ずつ同期的に渡します。
// エンジンから伝播したエラーはログに残しますが、ループは止めません。
// 認証拒否・セッション終了・ctx キャンセルで戻ります
func (c *Client) Run(ctx context.Context, h EventHandler) error {
	go c.rtm.ManageConnection()
	defer c.rtm.Disconnect()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg, ok := <-c.rtm.IncomingEvents:
			if !ok {
				return fmt.Errorf("slack: RTM セッションが終了しました")
			}

			switch ev := msg.Data.(type) {
			case *slack.ConnectedEvent:
				log.Printf("RTM 接続完了 (team=%s)", ev.Info.Team.ID)

			case *slack.MessageEvent:
				if err := h.HandleMessageEvent(toMessagePayload(ev)); err != nil {
					log.Printf("イベント処理エラー: %v", err)
				}

			case *slack.InvalidAuthEvent:
				return fmt.Errorf("%w: RTM 認証が拒否されました", domain.ErrAuth)

			case *slack.RTMError:
				log.Printf("RTM エラー: %s", ev.Error())
			}
		}
	}
}

// toMessagePayload は RTM の message イベントを dto へ変換します
func toMessagePayload(ev *slack.MessageEvent) *dto.MessagePayload {
	return &dto.MessagePayload{
		Type:      ev.Type,
		User:      ev.User,
		Text:      ev.Text,
		Channel:   ev.Channel,
		Timestamp: ev.Timestamp,
		ThreadTs:  ev.ThreadTimestamp,
		SubType:   ev.SubType,
	}
}

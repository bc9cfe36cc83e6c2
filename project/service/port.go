package service

import (
	"context"

	"slack-trivia/project/domain"
	"slack-trivia/project/dto"
)

// ChatPort はチャットプラットフォーム API 呼び出しのポートです
type ChatPort interface {
	// PostMessage はチャンネルにメッセージを投稿します（Bot 表示オプション込み）
	PostMessage(ctx context.Context, channel, text string) error

	// PostEphemeral は指定ユーザーにのみ見えるメッセージを投稿します
	PostEphemeral(ctx context.Context, channel, user, text string) error

	// AddReaction はメッセージ（channel と ts で特定）にリアクションを付与します
	AddReaction(ctx context.Context, name, channel, timestamp string) error

	// GetUserProfile はユーザープロフィールの表示名関連項目を取得します
	GetUserProfile(ctx context.Context, uid string) (*domain.UserProfile, error)
}

// Engine はトリビアエンジン（外部コラボレーター）のポートです。
// 出題の選択・採点・正誤判定はすべてエンジンの内部事情であり、
// アダプターはこの入口と Callbacks 経由の出力依頼だけを知っています
type Engine interface {
	// HandleMessage は受信メッセージをエンジンへ渡します。
	// 返り値は OnError コールバック経由で伝播したエラーです（他の失敗は伝播しない）
	HandleMessage(uid, text string, payload *dto.MessagePayload) error
}

// Callbacks はエンジンがアダプターへ出力を依頼するためのコールバック一式です。
// エンジン構築時に1スロット1ハンドラで明示的に登録します
type Callbacks struct {
	// PreFormat は表示前のテキスト装飾（コードブロック化）。失敗しません
	PreFormat func(text string) string

	// PostQuestion は問題レコードを3行に整形してトリビアチャンネルへ投稿します
	PostQuestion func(q *domain.Question)

	// PostMessage はテキストをそのままトリビアチャンネルへ投稿します
	PostMessage func(text string)

	// PostReply は元イベントのチャンネルへ投稿します（管理者DMの場合はそちらへ）
	PostReply func(text string, payload *dto.MessagePayload)

	// GetDisplayName はユーザーIDを表示名に解決します。失敗しません
	GetDisplayName func(uid string) string

	// CorrectAnswer は正解メッセージに肯定リアクションを付与します
	CorrectAnswer func(payload *dto.MessagePayload)

	// OnError は否定リアクションとエフェメラル通知でエラーを本人に知らせます。
	// ここでのプラットフォームエラーは握りつぶさず呼び出し元へ返します
	OnError func(payload *dto.MessagePayload, text string) error
}

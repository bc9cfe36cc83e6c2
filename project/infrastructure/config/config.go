package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix は環境変数上書きのプレフィックスです（TRIVIA_SLACK_BOT_TOKEN など）
const envPrefix = "TRIVIA_"

// Config は設定ファイルから読み込まれるアプリケーション設定を表します。
// 起動時に一度だけ読み込まれ、以降は変更されません
type Config struct {
	// Slack API 設定
	// SlackBotToken は Bot トークンの直書き。空の場合は Secret Manager から取得します
	SlackBotToken string `koanf:"slack_bot_token"`

	// SlackBotTokenSecret は Secret Manager 上のシークレット名（トークン直書きの代替）
	SlackBotTokenSecret string `koanf:"slack_bot_token_secret"`

	// GcpProject は Secret Manager を使う場合の GCP プロジェクトID
	GcpProject string `koanf:"gcp_project"`

	// TriviaChannel は出題先チャンネルのID
	TriviaChannel string `koanf:"trivia_channel"`

	// MaxTries はメッセージ送信の最大試行回数（1以上）
	MaxTries int `koanf:"max_tries"`

	// Bot は全送信に付与する表示オプション
	Bot BotOptions `koanf:"bot"`

	// TriviaCore はエンジンへそのまま渡す設定。admin_uid を必ず含みます
	TriviaCore map[string]any `koanf:"trivia_core"`
}

// BotOptions は送信メッセージの Bot 表示オプションです
type BotOptions struct {
	Username  string `koanf:"username"`
	IconEmoji string `koanf:"icon_emoji"`
	IconURL   string `koanf:"icon_url"`
}

// NewConfig は設定ファイルと環境変数から設定を読み込みます。
// 拡張子が .yaml / .yml の場合は YAML、それ以外は JSON として解釈し、
// TRIVIA_ プレフィックスの環境変数でトップレベル項目を上書きできます
func NewConfig(path string) (*Config, error) {
	k := koanf.New(".")

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	default:
		parser = json.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("config: 設定ファイル読み込み失敗 (path=%s): %w", path, err)
	}

	// 環境変数で上書き: TRIVIA_SLACK_BOT_TOKEN -> slack_bot_token など
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("config: 環境変数読み込み失敗: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: 設定パース失敗: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate は必須項目を検証します
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SlackBotToken) == "" && strings.TrimSpace(c.SlackBotTokenSecret) == "" {
		return fmt.Errorf("config: slack_bot_token または slack_bot_token_secret のいずれかが必要です")
	}
	if c.SlackBotToken == "" && strings.TrimSpace(c.GcpProject) == "" {
		return fmt.Errorf("config: slack_bot_token_secret を使う場合は gcp_project が必要です")
	}
	if strings.TrimSpace(c.TriviaChannel) == "" {
		return fmt.Errorf("config: trivia_channel は必須項目です")
	}
	if c.MaxTries < 1 {
		return fmt.Errorf("config: max_tries は1以上の整数が必要です (got=%d)", c.MaxTries)
	}
	if c.AdminUID() == "" {
		return fmt.Errorf("config: trivia_core.admin_uid は必須項目です")
	}
	return nil
}

// AdminUID はエンジン設定から管理者のユーザーIDを取り出します。
// trivia_core はエンジンにとって不透明な設定ですが、
// admin_uid だけはイベントルーターのフィルタ条件としても参照します
func (c *Config) AdminUID() string {
	v, ok := c.TriviaCore["admin_uid"]
	if !ok {
		return ""
	}
	uid, _ := v.(string)
	return uid
}

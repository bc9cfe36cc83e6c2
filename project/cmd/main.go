package main

import (
	"context"
	"flag"
	"log"

	"slack-trivia/project/handler"
	"slack-trivia/project/infrastructure/config"
	"slack-trivia/project/infrastructure/secret"
	"slack-trivia/project/infrastructure/slack"
	"slack-trivia/project/service"
	"slack-trivia/project/triviacore"
)

func main() {
	configPath := flag.String("config", "config.json", "設定ファイルのパス")
	flag.Parse()

	ctx := context.Background()

	// 1. 設定を読み込む
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Fatalf("設定読み込み失敗: %v", err)
	}

	// 2. Bot トークンを決定（設定ファイル直書き、なければ Secret Manager）
	token := cfg.SlackBotToken
	if token == "" {
		secretMgr, err := secret.NewManager(ctx, cfg.GcpProject)
		if err != nil {
			log.Fatalf("Secret Manager 初期化失敗: %v", err)
		}
		token, err = secretMgr.GetSecret(ctx, cfg.SlackBotTokenSecret)
		if err != nil {
			log.Fatalf("Bot トークン取得失敗: %v", err)
		}
		secretMgr.Close()
	}

	// 3. Slack クライアント初期化と認証確認（認証拒否は起動失敗、リトライしない）
	client := slack.NewClient(token, cfg.Bot)
	if err := client.AuthTest(ctx); err != nil {
		log.Fatalf("Slack 認証失敗: %v", err)
	}

	// 4. エンジンの platform 識別子としてチームIDを取得
	teamID, err := client.TeamID(ctx)
	if err != nil {
		log.Fatalf("チームID取得失敗: %v", err)
	}

	// 5. アダプターとエンジンを構築（コールバックを1スロットずつ登録）
	adapter := service.NewTriviaService(cfg, client)
	engine, err := triviacore.New(cfg.TriviaCore, teamID, adapter.Callbacks())
	if err != nil {
		log.Fatalf("エンジン初期化失敗: %v", err)
	}
	engine.Start()

	// 6. RTM イベントループを開始（プロセス終了まで動き続ける）
	h := handler.NewMessageHandler(cfg, engine)
	log.Printf("トリビアボット起動 (team=%s, channel=%s)", teamID, cfg.TriviaChannel)

	if err := client.Run(ctx, h); err != nil {
		log.Fatalf("RTM ループ終了: %v", err)
	}
}

package service

import (
	"context"
	"log"
	"sync"
	"time"
)

// nameCacheTTL は表示名キャッシュの有効期限です
const nameCacheTTL = 12 * time.Hour

// namePlaceholder は表示名を解決できなかった場合の代替表示です
const namePlaceholder = "(no user)"

// nameEntry はキャッシュ済みの表示名と取得時刻の組です
type nameEntry struct {
	name      string
	fetchedAt time.Time
}

// NameCache はユーザーIDから表示名への TTL 付きメモ化レイヤーです。
// プロセス存続中のみ保持し、永続化しません。
// 解決に失敗した場合もエントリを現在時刻で書き直すため、
// 未知のユーザーへの照会が連続で発生することはありません
type NameCache struct {
	mu      sync.Mutex
	entries map[string]nameEntry
	port    ChatPort

	// now は現在時刻の取得関数。テストで差し替えます
	now func() time.Time
}

// NewNameCache は NameCache を作成します
func NewNameCache(port ChatPort) *NameCache {
	return &NameCache{
		entries: make(map[string]nameEntry),
		port:    port,
		now:     time.Now,
	}
}

// Resolve は uid の表示名を返します。
// キャッシュが TTL 内ならそのまま返し、期限切れまたは未登録なら
// プロフィールを照会します。解決できない場合はプレースホルダーを返します（失敗しません）
func (nc *NameCache) Resolve(ctx context.Context, uid string) string {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	now := nc.now()

	var name string
	entry, ok := nc.entries[uid]
	if ok {
		name = entry.name
	}

	if !ok || now.After(entry.fetchedAt.Add(nameCacheTTL)) {
		log.Printf("表示名を照会します (uid=%s)", uid)
		name = nc.lookup(ctx, uid)
	}

	if name == "" {
		name = namePlaceholder
	}

	// 解決の成否に関わらずエントリを現在時刻で書き直し、TTL 窓を更新する
	nc.entries[uid] = nameEntry{name: name, fetchedAt: now}

	return name
}

// lookup はプロフィールを照会し、優先順で最初の非空項目を返します。
// 照会に失敗した場合（ユーザーなし・APIエラー）は空文字を返します
func (nc *NameCache) lookup(ctx context.Context, uid string) string {
	profile, err := nc.port.GetUserProfile(ctx, uid)
	if err != nil {
		// ユーザーが存在しない等。呼び出し側がプレースホルダーで継続する
		return ""
	}

	// 正規化表示名 → 正規化実名 の優先順
	for _, candidate := range []string{profile.DisplayNameNormalized, profile.RealNameNormalized} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

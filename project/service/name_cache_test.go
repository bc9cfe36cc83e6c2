package service

import (
	"context"
	"testing"
	"time"

	"slack-trivia/project/domain"
)

// newTestCache は時刻を固定した NameCache を作ります。
// 返り値の *time.Time を書き換えることで時計を進められます
func newTestCache(port *fakeChatPort) (*NameCache, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	nc := NewNameCache(port)
	nc.now = func() time.Time { return now }
	return nc, &now
}

func TestResolvePrefersDisplayName(t *testing.T) {
	port := &fakeChatPort{profiles: map[string]*domain.UserProfile{
		"U1": {DisplayNameNormalized: "alice", RealNameNormalized: "Alice Smith"},
	}}
	nc, _ := newTestCache(port)

	if got := nc.Resolve(context.Background(), "U1"); got != "alice" {
		t.Errorf("Resolve = %q, want %q", got, "alice")
	}
}

func TestResolveFallsBackToRealName(t *testing.T) {
	port := &fakeChatPort{profiles: map[string]*domain.UserProfile{
		"U1": {RealNameNormalized: "Alice Smith"},
	}}
	nc, _ := newTestCache(port)

	if got := nc.Resolve(context.Background(), "U1"); got != "Alice Smith" {
		t.Errorf("Resolve = %q, want %q", got, "Alice Smith")
	}
}

func TestResolveCachesWithinTTL(t *testing.T) {
	port := &fakeChatPort{profiles: map[string]*domain.UserProfile{
		"U1": {DisplayNameNormalized: "alice"},
	}}
	nc, now := newTestCache(port)

	nc.Resolve(context.Background(), "U1")
	*now = now.Add(11 * time.Hour)
	nc.Resolve(context.Background(), "U1")

	if port.profileCalls != 1 {
		t.Errorf("profile lookups = %d, want 1 (second call within TTL)", port.profileCalls)
	}
}

func TestResolveRefreshesAfterTTL(t *testing.T) {
	port := &fakeChatPort{profiles: map[string]*domain.UserProfile{
		"U1": {DisplayNameNormalized: "alice"},
	}}
	nc, now := newTestCache(port)

	nc.Resolve(context.Background(), "U1")
	*now = now.Add(13 * time.Hour)
	nc.Resolve(context.Background(), "U1")

	if port.profileCalls != 2 {
		t.Errorf("profile lookups = %d, want 2 (TTL expired)", port.profileCalls)
	}
}

func TestResolveUnknownUserReturnsPlaceholder(t *testing.T) {
	port := &fakeChatPort{profileErr: domain.ErrNotFound}
	nc, _ := newTestCache(port)

	if got := nc.Resolve(context.Background(), "UNOPE"); got != "(no user)" {
		t.Errorf("Resolve = %q, want %q", got, "(no user)")
	}
}

func TestFailedLookupStillRefreshesTTL(t *testing.T) {
	port := &fakeChatPort{profileErr: domain.ErrNotFound}
	nc, now := newTestCache(port)

	// 失敗した解決もエントリを書き直すため、TTL 内の再照会は発生しない
	nc.Resolve(context.Background(), "UNOPE")
	*now = now.Add(time.Minute)
	got := nc.Resolve(context.Background(), "UNOPE")

	if port.profileCalls != 1 {
		t.Errorf("profile lookups = %d, want 1 (failed lookup must suppress retry)", port.profileCalls)
	}
	if got != "(no user)" {
		t.Errorf("Resolve = %q, want %q", got, "(no user)")
	}
}

func TestResolveEmptyProfileReturnsPlaceholder(t *testing.T) {
	port := &fakeChatPort{profiles: map[string]*domain.UserProfile{
		"U1": {},
	}}
	nc, _ := newTestCache(port)

	if got := nc.Resolve(context.Background(), "U1"); got != "(no user)" {
		t.Errorf("Resolve = %q, want %q", got, "(no user)")
	}
}

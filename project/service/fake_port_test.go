package service

import (
	"context"
	"errors"

	"slack-trivia/project/domain"
)

// fakeChatPort は ChatPort のテスト用実装です。
// 呼び出しを記録し、設定したエラーを返します
type fakeChatPort struct {
	posts        []postedMessage
	postFailures int // 最初の n 回の PostMessage を失敗させる（-1 で常に失敗）

	ephemerals   []postedMessage
	ephemeralErr error

	reactions   []addedReaction
	reactionErr error

	profiles     map[string]*domain.UserProfile
	profileErr   error
	profileCalls int
}

type postedMessage struct {
	channel string
	user    string
	text    string
}

type addedReaction struct {
	name      string
	channel   string
	timestamp string
}

var errTransport = errors.New("transport failure")

func (f *fakeChatPort) PostMessage(_ context.Context, channel, text string) error {
	f.posts = append(f.posts, postedMessage{channel: channel, text: text})
	if f.postFailures < 0 {
		return errTransport
	}
	if f.postFailures > 0 {
		f.postFailures--
		return errTransport
	}
	return nil
}

func (f *fakeChatPort) PostEphemeral(_ context.Context, channel, user, text string) error {
	if f.ephemeralErr != nil {
		return f.ephemeralErr
	}
	f.ephemerals = append(f.ephemerals, postedMessage{channel: channel, user: user, text: text})
	return nil
}

func (f *fakeChatPort) AddReaction(_ context.Context, name, channel, timestamp string) error {
	if f.reactionErr != nil {
		return f.reactionErr
	}
	f.reactions = append(f.reactions, addedReaction{name: name, channel: channel, timestamp: timestamp})
	return nil
}

func (f *fakeChatPort) GetUserProfile(_ context.Context, uid string) (*domain.UserProfile, error) {
	f.profileCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	profile, ok := f.profiles[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}

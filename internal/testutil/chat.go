package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"giveaway-tracker/internal/features/tracker/models"
)

// ErrChannelUnavailable is returned for channels registered as failing.
var ErrChannelUnavailable = errors.New("channel unavailable")

// FakeChatSource serves canned channel histories.
type FakeChatSource struct {
	mu      sync.Mutex
	history map[string][]models.ChatMessage
	failing map[string]bool
	Fetches map[string]int
	OnFetch func(channelID string)
}

func NewFakeChatSource() *FakeChatSource {
	return &FakeChatSource{
		history: make(map[string][]models.ChatMessage),
		failing: make(map[string]bool),
		Fetches: make(map[string]int),
	}
}

// Post appends messages to a channel history.
func (f *FakeChatSource) Post(channelID string, msgs ...models.ChatMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		m.ChannelID = channelID
		f.history[channelID] = append(f.history[channelID], m)
	}
}

// Fail makes every fetch of channelID fail.
func (f *FakeChatSource) Fail(channelID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[channelID] = true
}

func (f *FakeChatSource) FetchRecent(_ context.Context, channelID string, limit int) ([]models.ChatMessage, error) {
	f.mu.Lock()
	f.Fetches[channelID]++
	hook := f.OnFetch
	if f.failing[channelID] {
		f.mu.Unlock()
		return nil, fmt.Errorf("fetch %s: %w", channelID, ErrChannelUnavailable)
	}
	msgs := f.history[channelID]
	out := make([]models.ChatMessage, 0, min(limit, len(msgs)))
	for i := len(msgs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, msgs[i])
	}
	f.mu.Unlock()

	if hook != nil {
		hook(channelID)
	}
	return out, nil
}

// CheckTextChannel accepts every channel not registered as failing.
func (f *FakeChatSource) CheckTextChannel(_ context.Context, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[channelID] {
		return ErrChannelUnavailable
	}
	return nil
}

// PublishedMessage is one summary the FakePublisher has seen.
type PublishedMessage struct {
	ChannelID string
	MessageID string
	Summary   models.Summary
	Edited    bool
}

// FakePublisher records sends and edits.
type FakePublisher struct {
	mu        sync.Mutex
	nextID    int
	Messages  []PublishedMessage
	FailEdits bool
	FailSends bool
	// SendDelay stalls Send before it records the message.
	SendDelay time.Duration
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (p *FakePublisher) Send(_ context.Context, channelID string, summary models.Summary) (string, error) {
	p.mu.Lock()
	delay := p.SendDelay
	p.mu.Unlock()
	time.Sleep(delay)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailSends {
		return "", ErrChannelUnavailable
	}
	p.nextID++
	id := fmt.Sprintf("summary-%d", p.nextID)
	p.Messages = append(p.Messages, PublishedMessage{ChannelID: channelID, MessageID: id, Summary: summary})
	return id, nil
}

func (p *FakePublisher) Edit(_ context.Context, channelID, messageID string, summary models.Summary) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailEdits {
		return ErrChannelUnavailable
	}
	p.Messages = append(p.Messages, PublishedMessage{ChannelID: channelID, MessageID: messageID, Summary: summary, Edited: true})
	return nil
}

// Published returns a copy of everything recorded so far.
func (p *FakePublisher) Published() []PublishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PublishedMessage(nil), p.Messages...)
}

// FakeTimer is a settable freecache.Timer.
type FakeTimer struct {
	mu  sync.Mutex
	now uint32
}

func NewFakeTimer(start uint32) *FakeTimer {
	return &FakeTimer{now: start}
}

func (t *FakeTimer) Now() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now
}

func (t *FakeTimer) Advance(seconds uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now += seconds
}

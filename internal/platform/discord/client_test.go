package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-tracker/internal/features/tracker/models"
)

type fakeSession struct {
	history  []*discordgo.Message
	calls    []int
	channels map[string]*discordgo.Channel
	sent     []*discordgo.MessageSend
	edits    []*discordgo.MessageEdit
	editErr  error
}

func (f *fakeSession) ChannelMessages(_ string, limit int, beforeID, _, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.calls = append(f.calls, limit)
	start := 0
	if beforeID != "" {
		for i, m := range f.history {
			if m.ID == beforeID {
				start = i + 1
			}
		}
	}
	end := min(start+limit, len(f.history))
	return f.history[start:end], nil
}

func (f *fakeSession) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, errors.New("unknown channel")
	}
	return ch, nil
}

func (f *fakeSession) ChannelMessageSendComplex(_ string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.sent = append(f.sent, data)
	return &discordgo.Message{ID: fmt.Sprintf("sent-%d", len(f.sent))}, nil
}

func (f *fakeSession) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.editErr != nil {
		return nil, f.editErr
	}
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID}, nil
}

func history(n int) []*discordgo.Message {
	out := make([]*discordgo.Message, n)
	for i := range out {
		out[i] = &discordgo.Message{ID: strconv.Itoa(n - i), ChannelID: "c1", Author: &discordgo.User{ID: "a"}}
	}
	return out
}

func TestFetchRecent_Pages(t *testing.T) {
	s := &fakeSession{history: history(250)}
	c := NewClient(s)

	msgs, err := c.FetchRecent(context.Background(), "c1", 200)
	require.NoError(t, err)

	assert.Len(t, msgs, 200)
	assert.Equal(t, []int{100, 100}, s.calls)
	assert.Equal(t, "250", msgs[0].ID)
	assert.Equal(t, "51", msgs[199].ID)
}

func TestFetchRecent_ShortHistory(t *testing.T) {
	s := &fakeSession{history: history(30)}
	msgs, err := NewClient(s).FetchRecent(context.Background(), "c1", 200)
	require.NoError(t, err)
	assert.Len(t, msgs, 30)
	assert.Equal(t, []int{100}, s.calls)
}

func TestCheckTextChannel(t *testing.T) {
	s := &fakeSession{channels: map[string]*discordgo.Channel{
		"text":  {ID: "text", Type: discordgo.ChannelTypeGuildText},
		"news":  {ID: "news", Type: discordgo.ChannelTypeGuildNews},
		"voice": {ID: "voice", Type: discordgo.ChannelTypeGuildVoice},
	}}
	c := NewClient(s)
	ctx := context.Background()

	assert.NoError(t, c.CheckTextChannel(ctx, "text"))
	assert.NoError(t, c.CheckTextChannel(ctx, "news"))
	assert.Error(t, c.CheckTextChannel(ctx, "voice"))
	assert.Error(t, c.CheckTextChannel(ctx, "missing"))
}

func TestSendAndEdit(t *testing.T) {
	s := &fakeSession{}
	c := NewClient(s)
	ctx := context.Background()

	id, err := c.Send(ctx, "d", models.Summary{EntryCount: 3})
	require.NoError(t, err)
	assert.Equal(t, "sent-1", id)
	require.Len(t, s.sent, 1)
	assert.Len(t, s.sent[0].Embeds, 1)
	assert.Len(t, s.sent[0].Components, 1)

	require.NoError(t, c.Edit(ctx, "d", id, models.Summary{}))
	require.Len(t, s.edits, 1)
	assert.Equal(t, id, s.edits[0].ID)
	require.NotNil(t, s.edits[0].Embeds)
	require.NotNil(t, s.edits[0].Components)

	s.editErr = errors.New("unknown message")
	assert.Error(t, c.Edit(ctx, "d", id, models.Summary{}))
}

func TestToChatMessage(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	m := &discordgo.Message{
		ID:        "m",
		ChannelID: "c",
		Content:   "100TRX/50$",
		Timestamp: ts,
		Author:    &discordgo.User{ID: "a", Bot: true},
		Mentions:  []*discordgo.User{{ID: "w1"}, {ID: "w2"}},
		Embeds:    []*discordgo.MessageEmbed{{Title: "x"}},
	}

	msg := ToChatMessage(m)

	assert.Equal(t, "m", msg.ID)
	assert.Equal(t, "c", msg.ChannelID)
	assert.Equal(t, "a", msg.AuthorID)
	assert.True(t, msg.AuthorIsBot)
	assert.True(t, msg.HasEmbeds)
	assert.Equal(t, ts, msg.CreatedAt)
	assert.Equal(t, []string{"w1", "w2"}, msg.MentionIDs)
}

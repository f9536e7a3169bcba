// Package discord adapts a discordgo session to the tracker's chat
// collaborator interfaces.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"giveaway-tracker/internal/features/tracker/models"
)

// maxPageSize is the most messages Discord returns per history request.
const maxPageSize = 100

// Session is the part of *discordgo.Session the client calls.
type Session interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Client struct {
	session Session
}

func NewClient(session Session) *Client {
	return &Client{session: session}
}

// NewSession creates a bot session that receives guild messages with their
// content.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	return s, nil
}

// FetchRecent pages backwards through the channel history until limit
// messages are read or the history ends. Messages are newest first.
func (c *Client) FetchRecent(ctx context.Context, channelID string, limit int) ([]models.ChatMessage, error) {
	out := make([]models.ChatMessage, 0, limit)
	before := ""
	for len(out) < limit {
		page, err := c.session.ChannelMessages(channelID, min(limit-len(out), maxPageSize), before, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("fetch history of %s: %w", channelID, err)
		}
		for _, m := range page {
			out = append(out, ToChatMessage(m))
		}
		if len(page) < maxPageSize {
			break
		}
		before = page[len(page)-1].ID
	}
	return out, nil
}

// CheckTextChannel fails unless channelID is a text or announcement channel
// the bot can see.
func (c *Client) CheckTextChannel(ctx context.Context, channelID string) error {
	ch, err := c.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("lookup channel %s: %w", channelID, err)
	}
	switch ch.Type {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return nil
	default:
		return fmt.Errorf("channel %s is not a text channel", channelID)
	}
}

func (c *Client) Send(ctx context.Context, channelID string, summary models.Summary) (string, error) {
	msg, err := c.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{SummaryEmbed(summary)},
		Components: SummaryComponents(),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send summary to %s: %w", channelID, err)
	}
	return msg.ID, nil
}

func (c *Client) Edit(ctx context.Context, channelID, messageID string, summary models.Summary) error {
	components := SummaryComponents()
	edit := discordgo.NewMessageEdit(channelID, messageID).
		SetEmbeds([]*discordgo.MessageEmbed{SummaryEmbed(summary)})
	edit.Components = &components
	if _, err := c.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit summary %s/%s: %w", channelID, messageID, err)
	}
	return nil
}

// ToChatMessage keeps the fields ingestion reads.
func ToChatMessage(m *discordgo.Message) models.ChatMessage {
	msg := models.ChatMessage{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		HasEmbeds: len(m.Embeds) > 0,
		CreatedAt: m.Timestamp,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorIsBot = m.Author.Bot
	}
	for _, u := range m.Mentions {
		if u != nil {
			msg.MentionIDs = append(msg.MentionIDs, u.ID)
		}
	}
	return msg
}

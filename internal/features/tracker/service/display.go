package service

import (
	"context"
	"sync"

	apperrors "giveaway-tracker/internal/common/errors"
	"giveaway-tracker/internal/common/logger"
	"giveaway-tracker/internal/features/tracker/models"
	"giveaway-tracker/internal/features/tracker/store"
)

// Display keeps a single summary message per display channel up to date.
type Display struct {
	// mu covers reading the message id through recording a new one, so at
	// most one summary message is ever posted for a missing id.
	mu        sync.Mutex
	configs   *store.ConfigStore
	publisher Publisher
}

func NewDisplay(configs *store.ConfigStore, publisher Publisher) *Display {
	return &Display{configs: configs, publisher: publisher}
}

// Sync edits the tracked summary message, or posts a new one when there is
// none or the edit fails. Without a display channel it does nothing. build
// is called under the lock so the latest state wins.
func (d *Display) Sync(ctx context.Context, build func() models.Summary) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cfg := d.configs.Get()
	if cfg.DisplayChannelID == nil || *cfg.DisplayChannelID == "" {
		logger.Debug().Msg("No display channel configured, skipping refresh")
		return nil
	}
	channelID := *cfg.DisplayChannelID
	summary := build()

	if cfg.DisplayMessageID != nil && *cfg.DisplayMessageID != "" {
		err := d.publisher.Edit(ctx, channelID, *cfg.DisplayMessageID, summary)
		if err == nil {
			return nil
		}
		logger.Warn().Err(err).
			Str("channel_id", channelID).
			Str("message_id", *cfg.DisplayMessageID).
			Msg("Failed to edit summary message, posting a new one")
	}

	messageID, err := d.publisher.Send(ctx, channelID, summary)
	if err != nil {
		return apperrors.NewTransportError(channelID, err)
	}
	logger.Info().Str("channel_id", channelID).Str("message_id", messageID).Msg("Summary message posted")
	return d.configs.SetDisplayMessage(ctx, messageID)
}

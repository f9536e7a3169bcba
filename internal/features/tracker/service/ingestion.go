package service

import (
	"context"
	"time"

	apperrors "giveaway-tracker/internal/common/errors"
	"giveaway-tracker/internal/common/logger"
	"giveaway-tracker/internal/features/tracker/extractor"
	"giveaway-tracker/internal/features/tracker/models"
	"giveaway-tracker/internal/features/tracker/store"
	"giveaway-tracker/internal/metrics"
)

// Ingestor turns chat messages into store entries. Bulk and live paths share
// one code path so they produce identical entries for identical input.
type Ingestor struct {
	entries      *store.EntryStore
	source       ChatSource
	historyLimit int
	recorder     metrics.Recorder
}

func NewIngestor(entries *store.EntryStore, source ChatSource, historyLimit int, recorder metrics.Recorder) *Ingestor {
	if recorder == nil {
		recorder = metrics.Noop()
	}
	return &Ingestor{
		entries:      entries,
		source:       source,
		historyLimit: historyLimit,
		recorder:     recorder,
	}
}

// EntriesFromMessage extracts one entry per match. Skipped messages (bots,
// embeds) and messages without matches yield nil.
func EntriesFromMessage(msg models.ChatMessage) []models.GiveawayEntry {
	if msg.AuthorIsBot || msg.HasEmbeds {
		return nil
	}

	var winner *string
	if len(msg.MentionIDs) > 0 {
		id := msg.MentionIDs[0]
		winner = &id
	}

	var out []models.GiveawayEntry
	for m := range extractor.Scan(msg.Content) {
		out = append(out, models.GiveawayEntry{
			ChannelID:   msg.ChannelID,
			MessageID:   msg.ID,
			TimestampMs: msg.CreatedAt.UnixMilli(),
			Coin:        m.Coin,
			CoinAmount:  m.CoinAmount,
			USDAmount:   m.USDAmount,
			WinnerID:    winner,
			Source:      models.SourceOthers,
		})
	}
	return out
}

// Live ingests one freshly arrived message and returns the number of entries
// appended.
func (i *Ingestor) Live(ctx context.Context, msg models.ChatMessage) (int, error) {
	return i.ingest(ctx, msg, metrics.PathLive)
}

func (i *Ingestor) ingest(ctx context.Context, msg models.ChatMessage, path string) (int, error) {
	if i.entries.ContainsMessage(msg.ChannelID, msg.ID) {
		return 0, nil
	}
	entries := EntriesFromMessage(msg)
	if len(entries) == 0 {
		return 0, nil
	}

	appended, err := i.entries.AppendIfAbsent(ctx, models.DedupKey{ChannelID: msg.ChannelID, MessageID: msg.ID}, entries...)
	if !appended {
		return 0, err
	}
	i.recorder.IncEntriesAppended(path, len(entries))
	logger.Debug().
		Str("channel_id", msg.ChannelID).
		Str("message_id", msg.ID).
		Str("path", path).
		Int("entries", len(entries)).
		Msg("Giveaway entries appended")
	return len(entries), err
}

// Rescan walks the recent history of one channel. Messages already in the
// store are skipped, so running it repeatedly is idempotent. A persistence
// failure does not stop the walk; the last one is returned.
func (i *Ingestor) Rescan(ctx context.Context, channelID string) (int, error) {
	messages, err := i.source.FetchRecent(ctx, channelID, i.historyLimit)
	if err != nil {
		if _, ok := apperrors.AsAppError(err); ok {
			return 0, err
		}
		return 0, apperrors.NewTransportError(channelID, err)
	}

	total := 0
	var lastErr error
	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := i.ingest(ctx, msg, metrics.PathBulk)
		total += n
		if err != nil {
			lastErr = err
		}
	}
	return total, lastErr
}

// RescanAll rescans every channel. A channel that cannot be read is logged
// and skipped; the others still run.
func (i *Ingestor) RescanAll(ctx context.Context, channelIDs []string) int {
	total := 0
	for _, channelID := range channelIDs {
		start := time.Now()
		n, err := i.Rescan(ctx, channelID)
		total += n
		if err != nil {
			if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code == apperrors.ErrCodeTransportUnavailable {
				i.recorder.IncScanFailures(channelID)
				logger.Warn().Err(err).Str("channel_id", channelID).Msg("Skipping unavailable channel")
				continue
			}
			logger.Error().Err(err).Str("channel_id", channelID).Msg("Channel rescan finished with errors")
		}
		logger.Debug().
			Str("channel_id", channelID).
			Int("entries", n).
			Dur("took", time.Since(start)).
			Msg("Channel rescanned")
	}
	return total
}

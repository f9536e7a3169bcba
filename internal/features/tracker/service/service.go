package service

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	apperrors "giveaway-tracker/internal/common/errors"
	"giveaway-tracker/internal/common/logger"
	"giveaway-tracker/internal/common/validation"
	"giveaway-tracker/internal/features/tracker/models"
	"giveaway-tracker/internal/features/tracker/store"
	"giveaway-tracker/internal/metrics"
)

// Options carries the process settings the tracker needs.
type Options struct {
	// OwnerID restricts admin mutations to one caller. Empty allows anyone.
	OwnerID         string
	LeaderboardSize int
}

type trackerService struct {
	entries    *store.EntryStore
	configs    *store.ConfigStore
	ingestor   *Ingestor
	display    *Display
	correlator *Correlator
	checker    ChannelChecker
	recorder   metrics.Recorder
	opts       Options

	// cycleMu keeps rescan cycles from overlapping.
	cycleMu sync.Mutex

	listenerMu sync.RWMutex
	listeners  []func(minutes int)

	now func() time.Time
}

func NewTrackerService(
	entries *store.EntryStore,
	configs *store.ConfigStore,
	ingestor *Ingestor,
	display *Display,
	correlator *Correlator,
	checker ChannelChecker,
	recorder metrics.Recorder,
	opts Options,
) TrackerService {
	if recorder == nil {
		recorder = metrics.Noop()
	}
	return &trackerService{
		entries:    entries,
		configs:    configs,
		ingestor:   ingestor,
		display:    display,
		correlator: correlator,
		checker:    checker,
		recorder:   recorder,
		opts:       opts,
		now:        time.Now,
	}
}

func (s *trackerService) RunCycle(ctx context.Context) (models.CycleResult, error) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	start := s.now()
	cfg := s.configs.Get()
	appended := s.ingestor.RescanAll(ctx, cfg.TrackedChannels)
	err := s.display.Sync(ctx, s.Summary)
	took := s.now().Sub(start)
	s.recorder.ObserveCycle(took)

	result := models.CycleResult{
		Channels:   len(cfg.TrackedChannels),
		Appended:   appended,
		EntryCount: s.entries.Len(),
		DurationMs: took.Milliseconds(),
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to refresh summary display")
	}
	logger.Info().
		Int("channels", result.Channels).
		Int("appended", result.Appended).
		Int("entries", result.EntryCount).
		Dur("took", took).
		Msg("Scan cycle finished")
	return result, err
}

func (s *trackerService) HandleMessage(ctx context.Context, msg models.ChatMessage) (int, error) {
	if !slices.Contains(s.configs.Get().TrackedChannels, msg.ChannelID) {
		return 0, nil
	}
	return s.ingestor.Live(ctx, msg)
}

func (s *trackerService) StageImport(userID, usdRaw, coinRaw string) (models.PendingImport, error) {
	return s.correlator.SubmitAmount(userID, usdRaw, coinRaw)
}

// CommitImport commits step two and refreshes the display so the import is
// visible right away. An import kept in memory after a persistence failure
// is shown too; the error is still returned.
func (s *trackerService) CommitImport(ctx context.Context, userID, ownerID, source string) (models.GiveawayEntry, error) {
	entry, err := s.correlator.Commit(ctx, userID, ownerID, source)
	if !ImportKept(err) {
		return entry, err
	}
	if syncErr := s.display.Sync(ctx, s.Summary); syncErr != nil {
		logger.Warn().Err(syncErr).Msg("Failed to refresh summary after import")
	}
	return entry, err
}

func (s *trackerService) Summary() models.Summary {
	return BuildSummary(s.entries.Snapshot(), s.configs.Get(), s.now(), s.opts.LeaderboardSize)
}

func (s *trackerService) GetConfig() models.TrackingConfig {
	return s.configs.Get()
}

func (s *trackerService) UpdateConfig(ctx context.Context, callerID string, update models.ConfigUpdate) (models.TrackingConfig, error) {
	if err := s.authorize(callerID); err != nil {
		return models.TrackingConfig{}, err
	}
	if err := validateUpdate(&update); err != nil {
		return models.TrackingConfig{}, err
	}
	for _, channelID := range update.TrackedChannels {
		if err := s.checkChannel(ctx, "tracked_channels", channelID); err != nil {
			return models.TrackingConfig{}, err
		}
	}
	if update.DisplayChannelID != nil && *update.DisplayChannelID != "" {
		if err := s.checkChannel(ctx, "display_channel_id", *update.DisplayChannelID); err != nil {
			return models.TrackingConfig{}, err
		}
	}

	before := s.configs.Get()
	cfg, err := s.configs.Update(ctx, func(cfg *models.TrackingConfig) error {
		applyUpdate(cfg, update)
		return nil
	})
	if err != nil {
		return cfg, err
	}

	logger.Info().Str("user_id", callerID).Strs("tracked_channels", cfg.TrackedChannels).Msg("Tracking config updated")
	if cfg.UpdateIntervalMinutes != before.UpdateIntervalMinutes {
		s.notifyInterval(cfg.UpdateIntervalMinutes)
	}
	return cfg, nil
}

func (s *trackerService) GetData() models.DataView {
	snap := s.entries.Snapshot()
	cfg := s.configs.Get()
	return models.DataView{
		Entries:     snap.Entries,
		Aggregate:   snap.Aggregate,
		Leaderboard: RankLeaderboard(snap.Aggregate.Leaderboard),
		Totals:      ComputeBucketTotals(snap.Entries, s.now(), cfg.CustomDays),
	}
}

func (s *trackerService) TriggerScan(ctx context.Context, callerID string) (models.CycleResult, error) {
	if err := s.authorize(callerID); err != nil {
		return models.CycleResult{}, err
	}
	return s.RunCycle(ctx)
}

func (s *trackerService) OnIntervalChange(fn func(minutes int)) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *trackerService) notifyInterval(minutes int) {
	s.listenerMu.RLock()
	defer s.listenerMu.RUnlock()
	for _, fn := range s.listeners {
		fn(minutes)
	}
}

func (s *trackerService) authorize(callerID string) error {
	if s.opts.OwnerID == "" || callerID == s.opts.OwnerID {
		return nil
	}
	logger.Warn().Str("user_id", callerID).Msg("Admin request from non-owner rejected")
	return apperrors.NewAuthorizationError(callerID)
}

func (s *trackerService) checkChannel(ctx context.Context, field, channelID string) error {
	if s.checker == nil {
		return nil
	}
	if err := s.checker.CheckTextChannel(ctx, channelID); err != nil {
		return apperrors.NewValidationError(field, "channel "+channelID+" is not an accessible text channel").
			WithDetail("channel_id", channelID)
	}
	return nil
}

// validateUpdate checks field ranges and deduplicates channel ids in place.
func validateUpdate(update *models.ConfigUpdate) error {
	if update.UpdateIntervalMinutes != nil {
		if err := validation.ValidateIntervalMinutes(*update.UpdateIntervalMinutes); err != nil {
			return apperrors.NewValidationError("update_interval_minutes", err.Error())
		}
	}
	if update.CustomDays != nil {
		if err := validation.ValidateCustomDays(*update.CustomDays); err != nil {
			return apperrors.NewValidationError("custom_days", err.Error())
		}
	}
	if update.TrackedChannels != nil {
		seen := make(map[string]struct{}, len(update.TrackedChannels))
		channels := make([]string, 0, len(update.TrackedChannels))
		for _, id := range update.TrackedChannels {
			if err := validation.ValidateChannelID(id); err != nil {
				return apperrors.NewValidationError("tracked_channels", err.Error())
			}
			id = strings.TrimSpace(id)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			channels = append(channels, id)
		}
		update.TrackedChannels = channels
	}
	if update.DisplayChannelID != nil && *update.DisplayChannelID != "" {
		if err := validation.ValidateChannelID(*update.DisplayChannelID); err != nil {
			return apperrors.NewValidationError("display_channel_id", err.Error())
		}
		id := strings.TrimSpace(*update.DisplayChannelID)
		update.DisplayChannelID = &id
	}
	return nil
}

func applyUpdate(cfg *models.TrackingConfig, update models.ConfigUpdate) {
	if update.TrackedChannels != nil {
		cfg.TrackedChannels = update.TrackedChannels
	}
	if update.DisplayChannelID != nil {
		changed := cfg.DisplayChannelID == nil || *cfg.DisplayChannelID != *update.DisplayChannelID
		if *update.DisplayChannelID == "" {
			cfg.DisplayChannelID = nil
		} else {
			id := *update.DisplayChannelID
			cfg.DisplayChannelID = &id
		}
		if changed {
			cfg.DisplayMessageID = nil
		}
	}
	if update.UpdateIntervalMinutes != nil {
		cfg.UpdateIntervalMinutes = *update.UpdateIntervalMinutes
	}
	if update.Buckets != nil {
		cfg.Buckets = *update.Buckets
	}
	if update.CustomDays != nil {
		cfg.CustomDays = *update.CustomDays
	}
}

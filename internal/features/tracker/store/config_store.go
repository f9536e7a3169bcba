package store

import (
	"context"
	"sync"

	apperrors "giveaway-tracker/internal/common/errors"
	"giveaway-tracker/internal/common/logger"
	"giveaway-tracker/internal/features/tracker/models"
	"giveaway-tracker/internal/features/tracker/repository"
	"giveaway-tracker/internal/metrics"
)

// ConfigStore owns the TrackingConfig and persists it on every mutation.
type ConfigStore struct {
	mu       sync.RWMutex
	docs     repository.DocumentStore
	recorder metrics.Recorder
	cfg      models.TrackingConfig
}

func NewConfigStore(docs repository.DocumentStore, defaults models.TrackingConfig, recorder metrics.Recorder) *ConfigStore {
	if recorder == nil {
		recorder = metrics.Noop()
	}
	return &ConfigStore{docs: docs, recorder: recorder, cfg: defaults.Clone()}
}

// Load reads the persisted config. When none exists the defaults are kept
// and written out.
func (s *ConfigStore) Load(ctx context.Context) error {
	var cfg models.TrackingConfig
	found, err := s.docs.Load(ctx, repository.DocumentConfig, &cfg)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodePersistenceFailure, "Failed to load tracking config")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !found {
		logger.Info().Msg("No tracking config stored, using defaults")
		return s.persistLocked(ctx)
	}
	if cfg.TrackedChannels == nil {
		cfg.TrackedChannels = []string{}
	}
	if cfg.UpdateIntervalMinutes <= 0 {
		cfg.UpdateIntervalMinutes = s.cfg.UpdateIntervalMinutes
	}
	if cfg.CustomDays <= 0 {
		cfg.CustomDays = models.DefaultCustomDays
	}
	s.cfg = cfg
	return nil
}

func (s *ConfigStore) Get() models.TrackingConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// Update applies mutate to a copy of the config. If mutate returns an error
// nothing changes; otherwise the copy becomes current and is persisted.
func (s *ConfigStore) Update(ctx context.Context, mutate func(cfg *models.TrackingConfig) error) (models.TrackingConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg.Clone()
	if err := mutate(&next); err != nil {
		return s.cfg.Clone(), err
	}
	s.cfg = next
	return s.cfg.Clone(), s.persistLocked(ctx)
}

// SetDisplayMessage records the id of the posted summary message.
func (s *ConfigStore) SetDisplayMessage(ctx context.Context, messageID string) error {
	_, err := s.Update(ctx, func(cfg *models.TrackingConfig) error {
		cfg.DisplayMessageID = &messageID
		return nil
	})
	return err
}

func (s *ConfigStore) persistLocked(ctx context.Context) error {
	if err := s.docs.Save(ctx, repository.DocumentConfig, s.cfg); err != nil {
		s.recorder.IncPersistenceFailures(repository.DocumentConfig)
		logger.Error().Err(err).Msg("Failed to persist tracking config")
		return apperrors.NewPersistenceError(repository.DocumentConfig, err)
	}
	return nil
}

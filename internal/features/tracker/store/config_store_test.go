package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-tracker/internal/features/tracker/models"
	"giveaway-tracker/internal/features/tracker/repository"
	"giveaway-tracker/internal/testutil"
)

func TestConfigStore_LoadPersistsDefaults(t *testing.T) {
	docs := testutil.NewMemoryDocumentStore()
	s := NewConfigStore(docs, models.DefaultTrackingConfig(60), nil)

	require.NoError(t, s.Load(context.Background()))

	cfg := s.Get()
	assert.Equal(t, 60, cfg.UpdateIntervalMinutes)
	assert.Equal(t, models.DefaultCustomDays, cfg.CustomDays)
	assert.Equal(t, []string{}, cfg.TrackedChannels)
	assert.Equal(t, 1, docs.SaveCount(repository.DocumentConfig))
}

func TestConfigStore_LoadNormalizesStoredConfig(t *testing.T) {
	docs := testutil.NewMemoryDocumentStore()
	ctx := context.Background()
	require.NoError(t, docs.Save(ctx, repository.DocumentConfig, models.TrackingConfig{}))

	s := NewConfigStore(docs, models.DefaultTrackingConfig(15), nil)
	require.NoError(t, s.Load(ctx))

	cfg := s.Get()
	assert.NotNil(t, cfg.TrackedChannels)
	assert.Equal(t, 15, cfg.UpdateIntervalMinutes)
	assert.Equal(t, models.DefaultCustomDays, cfg.CustomDays)
}

func TestConfigStore_UpdateAndReload(t *testing.T) {
	docs := testutil.NewMemoryDocumentStore()
	ctx := context.Background()
	s := NewConfigStore(docs, models.DefaultTrackingConfig(60), nil)
	require.NoError(t, s.Load(ctx))

	display := "d1"
	_, err := s.Update(ctx, func(cfg *models.TrackingConfig) error {
		cfg.TrackedChannels = []string{"c1", "c2"}
		cfg.DisplayChannelID = &display
		cfg.UpdateIntervalMinutes = 5
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, s.SetDisplayMessage(ctx, "msg"))

	reloaded := NewConfigStore(docs, models.DefaultTrackingConfig(60), nil)
	require.NoError(t, reloaded.Load(ctx))

	cfg := reloaded.Get()
	assert.Equal(t, []string{"c1", "c2"}, cfg.TrackedChannels)
	require.NotNil(t, cfg.DisplayChannelID)
	assert.Equal(t, "d1", *cfg.DisplayChannelID)
	require.NotNil(t, cfg.DisplayMessageID)
	assert.Equal(t, "msg", *cfg.DisplayMessageID)
	assert.Equal(t, 5, cfg.UpdateIntervalMinutes)
}

func TestConfigStore_UpdateRejectedLeavesConfig(t *testing.T) {
	docs := testutil.NewMemoryDocumentStore()
	ctx := context.Background()
	s := NewConfigStore(docs, models.DefaultTrackingConfig(60), nil)
	require.NoError(t, s.Load(ctx))

	boom := errors.New("rejected")
	_, err := s.Update(ctx, func(cfg *models.TrackingConfig) error {
		cfg.TrackedChannels = []string{"bad"}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, s.Get().TrackedChannels)
	assert.Equal(t, 1, docs.SaveCount(repository.DocumentConfig))
}

func TestConfigStore_GetReturnsCopy(t *testing.T) {
	s := NewConfigStore(testutil.NewMemoryDocumentStore(), models.DefaultTrackingConfig(60), nil)
	_, err := s.Update(context.Background(), func(cfg *models.TrackingConfig) error {
		cfg.TrackedChannels = []string{"c1"}
		return nil
	})
	require.NoError(t, err)

	cfg := s.Get()
	cfg.TrackedChannels[0] = "mutated"
	assert.Equal(t, []string{"c1"}, s.Get().TrackedChannels)
}

func TestConfigStore_PersistFailure(t *testing.T) {
	docs := testutil.NewMemoryDocumentStore()
	s := NewConfigStore(docs, models.DefaultTrackingConfig(60), nil)
	docs.SetFailSaves(true)

	err := s.SetDisplayMessage(context.Background(), "m")
	require.Error(t, err)
	require.NotNil(t, s.Get().DisplayMessageID)
}

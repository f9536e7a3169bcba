package service

import (
	"context"

	"giveaway-tracker/internal/features/tracker/models"
)

// ChatSource reads channel history from the chat platform.
type ChatSource interface {
	// FetchRecent returns up to limit of the newest messages in channelID,
	// newest first.
	FetchRecent(ctx context.Context, channelID string, limit int) ([]models.ChatMessage, error)
}

// Publisher posts the rendered summary to the chat platform.
type Publisher interface {
	// Send posts a new summary message and returns its id.
	Send(ctx context.Context, channelID string, summary models.Summary) (string, error)
	// Edit replaces the content of an existing summary message.
	Edit(ctx context.Context, channelID, messageID string, summary models.Summary) error
}

// ChannelChecker verifies that a channel exists and accepts text messages.
type ChannelChecker interface {
	CheckTextChannel(ctx context.Context, channelID string) error
}

// TrackerService is the entry point used by the chat handlers, the admin API
// and the scheduler.
type TrackerService interface {
	// RunCycle rescans every tracked channel and refreshes the display.
	RunCycle(ctx context.Context) (models.CycleResult, error)
	// HandleMessage ingests a live message from a tracked channel.
	HandleMessage(ctx context.Context, msg models.ChatMessage) (int, error)
	StageImport(userID, usdRaw, coinRaw string) (models.PendingImport, error)
	CommitImport(ctx context.Context, userID, ownerID, source string) (models.GiveawayEntry, error)
	Summary() models.Summary
	GetConfig() models.TrackingConfig
	UpdateConfig(ctx context.Context, callerID string, update models.ConfigUpdate) (models.TrackingConfig, error)
	GetData() models.DataView
	TriggerScan(ctx context.Context, callerID string) (models.CycleResult, error)
	// OnIntervalChange registers fn to be called when the update interval
	// changes.
	OnIntervalChange(fn func(minutes int))
}

package models

import "slices"

// BucketToggles selects which windows the summary shows.
type BucketToggles struct {
	Weekly   bool `json:"weekly"`
	Biweekly bool `json:"biweekly"`
	Monthly  bool `json:"monthly"`
	Custom   bool `json:"custom"`
}

// TrackingConfig is the runtime configuration managed from the admin API.
type TrackingConfig struct {
	TrackedChannels       []string      `json:"tracked_channels"`
	DisplayChannelID      *string       `json:"display_channel_id"`
	DisplayMessageID      *string       `json:"display_message_id"`
	UpdateIntervalMinutes int           `json:"update_interval_minutes"`
	Buckets               BucketToggles `json:"buckets"`
	CustomDays            int           `json:"custom_days"`
}

const DefaultCustomDays = 3

func DefaultTrackingConfig(intervalMinutes int) TrackingConfig {
	return TrackingConfig{
		TrackedChannels:       []string{},
		UpdateIntervalMinutes: intervalMinutes,
		Buckets:               BucketToggles{Weekly: true, Biweekly: true, Monthly: true},
		CustomDays:            DefaultCustomDays,
	}
}

func (c TrackingConfig) Clone() TrackingConfig {
	out := c
	out.TrackedChannels = slices.Clone(c.TrackedChannels)
	if c.DisplayChannelID != nil {
		v := *c.DisplayChannelID
		out.DisplayChannelID = &v
	}
	if c.DisplayMessageID != nil {
		v := *c.DisplayMessageID
		out.DisplayMessageID = &v
	}
	return out
}

// ConfigUpdate is a partial TrackingConfig change; nil fields are left as is.
type ConfigUpdate struct {
	TrackedChannels       []string       `json:"tracked_channels,omitempty"`
	DisplayChannelID      *string        `json:"display_channel_id,omitempty"`
	UpdateIntervalMinutes *int           `json:"update_interval_minutes,omitempty"`
	Buckets               *BucketToggles `json:"buckets,omitempty"`
	CustomDays            *int           `json:"custom_days,omitempty"`
}

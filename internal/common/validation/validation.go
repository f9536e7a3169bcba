package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxChannelIDLength = 64
	MaxIntervalMinutes = 7 * 24 * 60
	MaxCustomDays      = 3650
)

// Chat platform ids: Discord snowflakes and anything test doubles hand out.
var channelIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateChannelID checks a channel id taken from user input.
func ValidateChannelID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("channel id cannot be empty")
	}
	if len(id) > MaxChannelIDLength {
		return fmt.Errorf("channel id cannot exceed %d characters", MaxChannelIDLength)
	}
	if !channelIDRegex.MatchString(id) {
		return fmt.Errorf("channel id %q contains invalid characters", id)
	}
	return nil
}

// ValidateIntervalMinutes checks the scan interval.
func ValidateIntervalMinutes(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("must be a positive number of minutes")
	}
	if minutes > MaxIntervalMinutes {
		return fmt.Errorf("cannot exceed %d minutes", MaxIntervalMinutes)
	}
	return nil
}

// ValidateCustomDays checks the length of the custom bucket window.
func ValidateCustomDays(days int) error {
	if days <= 0 {
		return fmt.Errorf("must be a positive number of days")
	}
	if days > MaxCustomDays {
		return fmt.Errorf("cannot exceed %d days", MaxCustomDays)
	}
	return nil
}

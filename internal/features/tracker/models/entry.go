package models

import "fmt"

// Source classifies where a giveaway happened.
type Source string

const (
	SourceOthers   Source = "Others"
	SourceCasino   Source = "Casino"
	SourceDiscord  Source = "Discord"
	SourceTwitter  Source = "Twitter"
	SourceTelegram Source = "Telegram"
)

// Sources lists every accepted classification label in display order.
var Sources = []Source{SourceCasino, SourceDiscord, SourceTwitter, SourceTelegram, SourceOthers}

func ParseSource(s string) (Source, error) {
	for _, src := range Sources {
		if string(src) == s {
			return src, nil
		}
	}
	return "", fmt.Errorf("unknown source %q", s)
}

const (
	// ManualChannelID marks entries created through the import dialog.
	ManualChannelID = "manual"
	// NoCoin is stored when the importing user leaves the coin field empty.
	NoCoin = "N/A"
)

// GiveawayEntry is one accepted giveaway event. Entries are never mutated
// after they are appended to the store.
type GiveawayEntry struct {
	ID          string  `json:"id"`
	ChannelID   string  `json:"channel_id"`
	MessageID   string  `json:"message_id"`
	TimestampMs int64   `json:"timestamp"`
	Coin        string  `json:"coin"`
	CoinAmount  float64 `json:"coin_amount"`
	USDAmount   float64 `json:"usd_amount"`
	WinnerID    *string `json:"winner_id"`
	Source      Source  `json:"source"`
}

// DedupKey identifies the source message of an entry.
type DedupKey struct {
	ChannelID string
	MessageID string
}

func (e *GiveawayEntry) Key() DedupKey {
	return DedupKey{ChannelID: e.ChannelID, MessageID: e.MessageID}
}

// SourceOrDefault returns the entry's source, falling back to Others.
func (e *GiveawayEntry) SourceOrDefault() Source {
	if e.Source == "" {
		return SourceOthers
	}
	return e.Source
}

package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coocood/freecache"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	apperrors "giveaway-tracker/internal/common/errors"
	"giveaway-tracker/internal/common/logger"
	"giveaway-tracker/internal/features/tracker/models"
	"giveaway-tracker/internal/features/tracker/store"
	"giveaway-tracker/internal/metrics"
)

// pendingCacheSize is the freecache minimum; pending imports are tiny.
const pendingCacheSize = 512 * 1024

// Correlator joins the two steps of the manual import dialog. Pending
// imports are kept per user and expire after ttl.
type Correlator struct {
	mu       sync.Mutex
	pending  *freecache.Cache
	ttl      time.Duration
	entries  *store.EntryStore
	recorder metrics.Recorder
	now      func() time.Time
}

// NewCorrelator creates a Correlator. timer may be nil to use wall time.
func NewCorrelator(entries *store.EntryStore, ttl time.Duration, recorder metrics.Recorder, timer freecache.Timer) *Correlator {
	if recorder == nil {
		recorder = metrics.Noop()
	}
	cache := freecache.NewCache(pendingCacheSize)
	if timer != nil {
		cache = freecache.NewCacheCustomTimer(pendingCacheSize, timer)
	}
	return &Correlator{
		pending:  cache,
		ttl:      ttl,
		entries:  entries,
		recorder: recorder,
		now:      time.Now,
	}
}

// ParseAmount reads a USD amount from free text. Anything unparsable,
// negative or non-finite becomes 0.
func ParseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// NormalizeCoin uppercases a coin symbol, defaulting to models.NoCoin.
func NormalizeCoin(raw string) string {
	coin := strings.ToUpper(strings.TrimSpace(raw))
	if coin == "" {
		return models.NoCoin
	}
	return coin
}

// SubmitAmount records step one for userID, replacing any earlier pending
// import of the same user.
func (c *Correlator) SubmitAmount(userID, usdRaw, coinRaw string) (models.PendingImport, error) {
	p := models.PendingImport{
		ByUser:    userID,
		USDAmount: ParseAmount(usdRaw),
		Coin:      NormalizeCoin(coinRaw),
		CreatedAt: c.now(),
	}
	data, err := json.Marshal(p)
	if err != nil {
		return models.PendingImport{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to encode pending import")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.pending.Set([]byte(userID), data, c.ttlSeconds()); err != nil {
		return models.PendingImport{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to store pending import")
	}
	logger.Debug().Str("user_id", userID).Float64("usd", p.USDAmount).Str("coin", p.Coin).Msg("Pending import staged")
	return p, nil
}

// Pending returns the pending import of userID, if any.
func (c *Correlator) Pending(userID string) (models.PendingImport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.getLocked(userID)
	return p, err == nil
}

// Commit completes step two. userID is the submitter and ownerID the user
// the step-two control was issued to. A mismatch, or a pending record owned
// by someone else, is rejected without touching any state. A
// PERSISTENCE_FAILURE error comes with the entry that was kept in memory;
// see ImportKept.
func (c *Correlator) Commit(ctx context.Context, userID, ownerID, sourceLabel string) (models.GiveawayEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ownerID != "" && ownerID != userID {
		logger.Warn().Str("user_id", userID).Str("owner_id", ownerID).Msg("Rejected import from another user")
		return models.GiveawayEntry{}, apperrors.Wrap(ErrCorrelationMismatch, apperrors.ErrCodeCorrelationMismatch, "This import belongs to another user").
			WithDetail("user_id", userID)
	}

	p, err := c.getLocked(userID)
	if err != nil {
		return models.GiveawayEntry{}, err
	}
	if p.ByUser != userID {
		return models.GiveawayEntry{}, apperrors.Wrap(ErrCorrelationMismatch, apperrors.ErrCodeCorrelationMismatch, "This import belongs to another user").
			WithDetail("user_id", userID)
	}

	source, err := models.ParseSource(sourceLabel)
	if err != nil {
		return models.GiveawayEntry{}, apperrors.Wrap(ErrUnknownSource, apperrors.ErrCodeValidation, err.Error()).
			WithDetail("source", sourceLabel)
	}

	winner := userID
	entry := models.GiveawayEntry{
		ID:          newEntryID(),
		ChannelID:   models.ManualChannelID,
		MessageID:   uuid.NewString(),
		TimestampMs: c.now().UnixMilli(),
		Coin:        p.Coin,
		USDAmount:   p.USDAmount,
		WinnerID:    &winner,
		Source:      source,
	}

	c.pending.Del([]byte(userID))
	err = c.entries.Append(ctx, entry)
	c.recorder.IncEntriesAppended(metrics.PathManual, 1)
	logger.Info().
		Str("user_id", userID).
		Float64("usd", entry.USDAmount).
		Str("coin", entry.Coin).
		Str("source", string(source)).
		Msg("Manual import committed")
	return entry, err
}

// ImportKept reports whether a Commit error still left the entry in the
// store.
func ImportKept(err error) bool {
	return err == nil || apperrors.HasCode(err, apperrors.ErrCodePersistenceFailure)
}

func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (c *Correlator) getLocked(userID string) (models.PendingImport, error) {
	data, err := c.pending.Get([]byte(userID))
	if errors.Is(err, freecache.ErrNotFound) {
		return models.PendingImport{}, apperrors.Wrap(ErrNoPendingImport, apperrors.ErrCodePendingNotFound, "No pending import, start again with the Import button").
			WithDetail("user_id", userID)
	}
	if err != nil {
		return models.PendingImport{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to read pending import")
	}
	var p models.PendingImport
	if err := json.Unmarshal(data, &p); err != nil {
		return models.PendingImport{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to decode pending import")
	}
	return p, nil
}

func (c *Correlator) ttlSeconds() int {
	return max(int(c.ttl.Seconds()), 1)
}

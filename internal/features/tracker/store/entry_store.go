package store

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"

	apperrors "giveaway-tracker/internal/common/errors"
	"giveaway-tracker/internal/common/logger"
	"giveaway-tracker/internal/features/tracker/models"
	"giveaway-tracker/internal/features/tracker/repository"
	"giveaway-tracker/internal/metrics"
)

// Snapshot is a read-only copy of the store contents.
type Snapshot struct {
	Entries   []models.GiveawayEntry  `json:"entries"`
	Aggregate models.SummaryAggregate `json:"aggregate"`
}

// EntryStore is the append-only giveaway log with its running aggregate.
// Every append is persisted as a whole document before the call returns.
type EntryStore struct {
	mu        sync.RWMutex
	docs      repository.DocumentStore
	recorder  metrics.Recorder
	entries   []models.GiveawayEntry
	seen      map[models.DedupKey]struct{}
	aggregate models.SummaryAggregate
	newID     func() string
}

func NewEntryStore(docs repository.DocumentStore, recorder metrics.Recorder) *EntryStore {
	if recorder == nil {
		recorder = metrics.Noop()
	}
	return &EntryStore{
		docs:      docs,
		recorder:  recorder,
		seen:      make(map[models.DedupKey]struct{}),
		aggregate: models.NewSummaryAggregate(),
		newID:     newEntryID,
	}
}

// newEntryID returns a time-ordered UUID.
func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Load replaces the in-memory state with the persisted document. The
// aggregate is rebuilt from the log; a stored aggregate that disagrees is
// logged and replaced.
func (s *EntryStore) Load(ctx context.Context) error {
	var data models.TrackedData
	found, err := s.docs.Load(ctx, repository.DocumentData, &data)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodePersistenceFailure, "Failed to load tracked data")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.seen = make(map[models.DedupKey]struct{})
	s.aggregate = models.NewSummaryAggregate()
	if !found {
		return nil
	}

	s.entries = data.Entries
	for i := range s.entries {
		s.seen[s.entries[i].Key()] = struct{}{}
	}
	s.aggregate = Recompute(s.entries)
	if !aggregatesEqual(s.aggregate, data.Aggregate) {
		logger.Warn().Int("entries", len(s.entries)).Msg("Stored aggregate differs from entry log, rebuilt")
	}
	logger.Info().Int("entries", len(s.entries)).Msg("Tracked data loaded")
	return nil
}

// Append adds entries unconditionally. Deduplication is the caller's job;
// see AppendIfAbsent.
func (s *EntryStore) Append(ctx context.Context, entries ...models.GiveawayEntry) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(entries)
	return s.persistLocked(ctx)
}

// AppendIfAbsent appends entries only when no entry for key exists yet. The
// check and the append happen under one lock, so two ingestion paths racing
// on the same message cannot both succeed. It reports whether the entries
// were appended.
func (s *EntryStore) AppendIfAbsent(ctx context.Context, key models.DedupKey, entries ...models.GiveawayEntry) (bool, error) {
	if len(entries) == 0 {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false, nil
	}
	s.appendLocked(entries)
	return true, s.persistLocked(ctx)
}

func (s *EntryStore) appendLocked(entries []models.GiveawayEntry) {
	for _, e := range entries {
		if e.ID == "" {
			e.ID = s.newID()
		}
		if e.Source == "" {
			e.Source = models.SourceOthers
		}
		s.entries = append(s.entries, e)
		s.seen[e.Key()] = struct{}{}
		s.aggregate.Apply(&e)
	}
}

// persistLocked writes the full document. On failure the in-memory state
// keeps the mutation so that dedup stays correct for the rest of the run.
func (s *EntryStore) persistLocked(ctx context.Context) error {
	data := models.TrackedData{Entries: s.entries, Aggregate: s.aggregate}
	if err := s.docs.Save(ctx, repository.DocumentData, data); err != nil {
		s.recorder.IncPersistenceFailures(repository.DocumentData)
		logger.Error().Err(err).Int("entries", len(s.entries)).Msg("Failed to persist tracked data")
		return apperrors.NewPersistenceError(repository.DocumentData, err)
	}
	return nil
}

// ContainsMessage reports whether any entry came from the given message.
func (s *EntryStore) ContainsMessage(channelID, messageID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[models.DedupKey{ChannelID: channelID, MessageID: messageID}]
	return ok
}

func (s *EntryStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Entries:   append([]models.GiveawayEntry(nil), s.entries...),
		Aggregate: s.aggregate.Clone(),
	}
}

func (s *EntryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Recompute folds the whole log into a fresh aggregate.
func Recompute(entries []models.GiveawayEntry) models.SummaryAggregate {
	agg := models.NewSummaryAggregate()
	for i := range entries {
		agg.Apply(&entries[i])
	}
	return agg
}

func aggregatesEqual(a, b models.SummaryAggregate) bool {
	if len(a.Leaderboard) == 0 && len(b.Leaderboard) == 0 &&
		len(a.Distribution) == 0 && len(b.Distribution) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

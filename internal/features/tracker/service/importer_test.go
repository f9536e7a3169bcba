package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "giveaway-tracker/internal/common/errors"
	"giveaway-tracker/internal/features/tracker/models"
	"giveaway-tracker/internal/features/tracker/store"
	"giveaway-tracker/internal/testutil"
)

func newCorrelator(t *testing.T) (*Correlator, *store.EntryStore, *testutil.FakeTimer) {
	t.Helper()
	c, entries, timer, _ := newCorrelatorWithDocs(t)
	return c, entries, timer
}

func newCorrelatorWithDocs(t *testing.T) (*Correlator, *store.EntryStore, *testutil.FakeTimer, *testutil.MemoryDocumentStore) {
	t.Helper()
	docs := testutil.NewMemoryDocumentStore()
	entries := store.NewEntryStore(docs, nil)
	timer := testutil.NewFakeTimer(1000)
	return NewCorrelator(entries, 10*time.Minute, nil, timer), entries, timer, docs
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 12.5, ParseAmount(" 12.5 "))
	assert.Equal(t, 0.0, ParseAmount("abc"))
	assert.Equal(t, 0.0, ParseAmount(""))
	assert.Equal(t, 0.0, ParseAmount("-3"))
	assert.Equal(t, 0.0, ParseAmount("NaN"))
}

func TestNormalizeCoin(t *testing.T) {
	assert.Equal(t, "TRX", NormalizeCoin(" trx "))
	assert.Equal(t, models.NoCoin, NormalizeCoin(""))
}

func TestCorrelator_Commit(t *testing.T) {
	c, entries, _ := newCorrelator(t)
	ctx := context.Background()

	p, err := c.SubmitAmount("u1", "25", "usdt")
	require.NoError(t, err)
	assert.Equal(t, 25.0, p.USDAmount)
	assert.Equal(t, "USDT", p.Coin)

	entry, err := c.Commit(ctx, "u1", "u1", "Casino")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, models.ManualChannelID, entry.ChannelID)
	assert.NotEmpty(t, entry.MessageID)
	assert.Equal(t, 25.0, entry.USDAmount)
	assert.Equal(t, "USDT", entry.Coin)
	assert.Equal(t, models.SourceCasino, entry.Source)
	require.NotNil(t, entry.WinnerID)
	assert.Equal(t, "u1", *entry.WinnerID)

	snap := entries.Snapshot()
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, 25.0, snap.Aggregate.Distribution[models.SourceCasino])
	assert.Equal(t, models.WinnerStats{Wins: 1, TotalUSD: 25}, snap.Aggregate.Leaderboard["u1"])

	_, ok := c.Pending("u1")
	assert.False(t, ok)
}

func TestCorrelator_CommitFromOtherUserRejected(t *testing.T) {
	c, entries, _ := newCorrelator(t)
	ctx := context.Background()
	_, err := c.SubmitAmount("u1", "25", "TRX")
	require.NoError(t, err)

	_, err = c.Commit(ctx, "intruder", "u1", "Casino")
	require.ErrorIs(t, err, ErrCorrelationMismatch)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeCorrelationMismatch, appErr.Code)

	assert.Zero(t, entries.Len())
	p, ok := c.Pending("u1")
	require.True(t, ok)
	assert.Equal(t, 25.0, p.USDAmount)
}

func TestCorrelator_CommitWithoutPending(t *testing.T) {
	c, entries, _ := newCorrelator(t)
	_, err := c.SubmitAmount("u1", "25", "TRX")
	require.NoError(t, err)

	_, err = c.Commit(context.Background(), "u2", "u2", "Casino")
	require.ErrorIs(t, err, ErrNoPendingImport)
	assert.Zero(t, entries.Len())

	_, ok := c.Pending("u1")
	assert.True(t, ok)
}

func TestCorrelator_ConcurrentUsersDoNotCollide(t *testing.T) {
	c, entries, _ := newCorrelator(t)
	ctx := context.Background()
	_, err := c.SubmitAmount("u1", "10", "A")
	require.NoError(t, err)
	_, err = c.SubmitAmount("u2", "20", "B")
	require.NoError(t, err)

	e1, err := c.Commit(ctx, "u1", "u1", "Discord")
	require.NoError(t, err)
	e2, err := c.Commit(ctx, "u2", "u2", "Twitter")
	require.NoError(t, err)

	assert.Equal(t, 10.0, e1.USDAmount)
	assert.Equal(t, "A", e1.Coin)
	assert.Equal(t, 20.0, e2.USDAmount)
	assert.Equal(t, "B", e2.Coin)
	assert.NotEqual(t, e1.MessageID, e2.MessageID)
	assert.Equal(t, 2, entries.Len())
}

func TestCorrelator_ResubmitOverwritesOwnPending(t *testing.T) {
	c, _, _ := newCorrelator(t)
	_, err := c.SubmitAmount("u1", "10", "A")
	require.NoError(t, err)
	_, err = c.SubmitAmount("u1", "99", "B")
	require.NoError(t, err)

	p, ok := c.Pending("u1")
	require.True(t, ok)
	assert.Equal(t, 99.0, p.USDAmount)
	assert.Equal(t, "B", p.Coin)
}

func TestCorrelator_PendingExpires(t *testing.T) {
	c, entries, timer := newCorrelator(t)
	_, err := c.SubmitAmount("u1", "10", "A")
	require.NoError(t, err)

	timer.Advance(uint32((10 * time.Minute).Seconds()) + 1)

	_, err = c.Commit(context.Background(), "u1", "u1", "Casino")
	require.ErrorIs(t, err, ErrNoPendingImport)
	assert.Zero(t, entries.Len())
}

func TestCorrelator_UnknownSource(t *testing.T) {
	c, entries, _ := newCorrelator(t)
	_, err := c.SubmitAmount("u1", "10", "A")
	require.NoError(t, err)

	_, err = c.Commit(context.Background(), "u1", "u1", "Myspace")
	require.ErrorIs(t, err, ErrUnknownSource)
	assert.Zero(t, entries.Len())

	_, ok := c.Pending("u1")
	assert.True(t, ok)
}

func TestCorrelator_DoubleCommitCreatesOneEntry(t *testing.T) {
	c, entries, _ := newCorrelator(t)
	ctx := context.Background()
	_, err := c.SubmitAmount("u1", "10", "A")
	require.NoError(t, err)

	_, err = c.Commit(ctx, "u1", "u1", "Casino")
	require.NoError(t, err)
	_, err = c.Commit(ctx, "u1", "u1", "Casino")
	require.ErrorIs(t, err, ErrNoPendingImport)
	assert.Equal(t, 1, entries.Len())
}

func TestCorrelator_CommitPersistenceFailureKeepsEntry(t *testing.T) {
	c, entries, _, docs := newCorrelatorWithDocs(t)
	_, err := c.SubmitAmount("u1", "25", "trx")
	require.NoError(t, err)
	docs.SetFailSaves(true)

	entry, err := c.Commit(context.Background(), "u1", "u1", "Casino")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodePersistenceFailure))
	assert.True(t, ImportKept(err))
	assert.NotEmpty(t, entry.ID)

	snap := entries.Snapshot()
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, entry.ID, snap.Entries[0].ID)
}

func TestImportKept(t *testing.T) {
	assert.True(t, ImportKept(nil))
	assert.True(t, ImportKept(apperrors.NewPersistenceError("data", errors.New("disk full"))))
	assert.False(t, ImportKept(apperrors.Wrap(ErrNoPendingImport, apperrors.ErrCodePendingNotFound, "gone")))
	assert.False(t, ImportKept(errors.New("plain")))
}

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-tracker/internal/features/tracker/models"
)

type countingRunner struct {
	calls atomic.Int32
	ran   chan struct{}
	err   error
}

func newCountingRunner() *countingRunner {
	return &countingRunner{ran: make(chan struct{}, 16)}
}

func (r *countingRunner) RunCycle(context.Context) (models.CycleResult, error) {
	r.calls.Add(1)
	r.ran <- struct{}{}
	return models.CycleResult{}, r.err
}

func waitRun(t *testing.T, r *countingRunner) {
	t.Helper()
	select {
	case <-r.ran:
	case <-time.After(5 * time.Second):
		t.Fatal("cycle did not run")
	}
}

func TestScanScheduler_RunsImmediately(t *testing.T) {
	runner := newCountingRunner()
	s, err := NewScanScheduler(runner)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })

	require.NoError(t, s.Start(context.Background(), 60))
	waitRun(t, runner)

	assert.Equal(t, int32(1), runner.calls.Load())
	assert.Equal(t, time.Hour, s.Interval())
}

func TestScanScheduler_Reschedule(t *testing.T) {
	runner := newCountingRunner()
	s, err := NewScanScheduler(runner)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })

	require.NoError(t, s.Start(context.Background(), 60))
	waitRun(t, runner)

	require.NoError(t, s.Reschedule(5))
	assert.Equal(t, 5*time.Minute, s.Interval())
}

func TestScanScheduler_RescheduleBeforeStartIsNoop(t *testing.T) {
	s, err := NewScanScheduler(newCountingRunner())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })

	require.NoError(t, s.Reschedule(5))
	assert.Zero(t, s.Interval())
}

func TestScanScheduler_FailingCycleKeepsScheduler(t *testing.T) {
	runner := newCountingRunner()
	runner.err = errors.New("display down")
	s, err := NewScanScheduler(runner)
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background(), 1))
	waitRun(t, runner)
	assert.NoError(t, s.Stop())
}

func TestMinutes(t *testing.T) {
	assert.Equal(t, time.Minute, minutes(0))
	assert.Equal(t, 3*time.Minute, minutes(3))
}

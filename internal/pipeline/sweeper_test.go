package pipeline

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLister struct {
	names []string
	err   error
}

func (l *stubLister) ListObjects(context.Context, string) ([]string, error) {
	return l.names, l.err
}

type stubRunner struct {
	mu          sync.Mutex
	calls       []string
	failFor     map[string]bool
	delay       time.Duration
	inFlight    int32
	maxInFlight int32
}

func (r *stubRunner) Run(_ context.Context, objectName string) error {
	current := atomic.AddInt32(&r.inFlight, 1)
	defer atomic.AddInt32(&r.inFlight, -1)
	for {
		observed := atomic.LoadInt32(&r.maxInFlight)
		if current <= observed || atomic.CompareAndSwapInt32(&r.maxInFlight, observed, current) {
			break
		}
	}
	if r.delay > 0 {
		time.Sleep(r.delay)
	}

	r.mu.Lock()
	r.calls = append(r.calls, objectName)
	r.mu.Unlock()

	if r.failFor[objectName] {
		return errors.New("job failed")
	}
	return nil
}

func (r *stubRunner) sortedCalls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	calls := append([]string(nil), r.calls...)
	sort.Strings(calls)
	return calls
}

func TestSweepStartsJobsForPDFObjectsOnly(t *testing.T) {
	lister := &stubLister{names: []string{"a.pdf", "notes.txt", "b.PDF", "image.png"}}
	runner := &stubRunner{}
	sweeper := NewSweeper(lister, runner, zerolog.Nop())

	started, err := sweeper.Sweep(context.Background(), "", 2, false)

	require.NoError(t, err)
	assert.Equal(t, 2, started)
	assert.Equal(t, []string{"a.pdf", "b.PDF"}, runner.sortedCalls())
}

func TestSweepDryRunCountsWithoutStartingJobs(t *testing.T) {
	lister := &stubLister{names: []string{"a.pdf", "b.pdf", "notes.txt"}}
	runner := &stubRunner{}
	sweeper := NewSweeper(lister, runner, zerolog.Nop())

	started, err := sweeper.Sweep(context.Background(), "", 2, true)

	require.NoError(t, err)
	assert.Equal(t, 2, started)
	assert.Empty(t, runner.sortedCalls())
}

func TestSweepBoundsConcurrency(t *testing.T) {
	names := make([]string, 8)
	for i := range names {
		names[i] = string(rune('a'+i)) + ".pdf"
	}
	lister := &stubLister{names: names}
	runner := &stubRunner{delay: 5 * time.Millisecond}
	sweeper := NewSweeper(lister, runner, zerolog.Nop())

	started, err := sweeper.Sweep(context.Background(), "", 2, false)

	require.NoError(t, err)
	assert.Equal(t, 8, started)
	assert.Len(t, runner.sortedCalls(), 8)
	assert.LessOrEqual(t, atomic.LoadInt32(&runner.maxInFlight), int32(2))
}

func TestSweepContinuesPastFailedJobs(t *testing.T) {
	lister := &stubLister{names: []string{"a.pdf", "bad.pdf", "c.pdf"}}
	runner := &stubRunner{failFor: map[string]bool{"bad.pdf": true}}
	sweeper := NewSweeper(lister, runner, zerolog.Nop())

	started, err := sweeper.Sweep(context.Background(), "", 1, false)

	require.NoError(t, err, "a per-job failure must not abort the sweep")
	assert.Equal(t, 3, started)
	assert.Equal(t, []string{"a.pdf", "bad.pdf", "c.pdf"}, runner.sortedCalls())
}

func TestSweepReturnsListError(t *testing.T) {
	lister := &stubLister{err: errors.New("bucket unavailable")}
	runner := &stubRunner{}
	sweeper := NewSweeper(lister, runner, zerolog.Nop())

	started, err := sweeper.Sweep(context.Background(), "", 2, false)

	require.Error(t, err)
	assert.Zero(t, started)
	assert.Empty(t, runner.sortedCalls())
}

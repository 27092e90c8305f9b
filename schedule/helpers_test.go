package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func nopLogger() *zap.Logger { return zap.NewNop() }

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingDeliverer struct {
	mu       sync.Mutex
	attempts []Entry
	failFor  map[int64]bool
	panicFor map[int64]bool
}

func (d *recordingDeliverer) Deliver(_ context.Context, e Entry) (Outcome, error) {
	d.mu.Lock()
	d.attempts = append(d.attempts, e)
	fail, boom := d.failFor[e.OwnerID], d.panicFor[e.OwnerID]
	d.mu.Unlock()
	if boom {
		panic("boom")
	}
	if fail {
		return OutcomeDropped, errors.New("unreachable")
	}
	return OutcomeDM, nil
}

func (d *recordingDeliverer) Attempts() []Entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Entry(nil), d.attempts...)
}

type memStore struct {
	mu      sync.Mutex
	loaded  []Entry
	saved   [][]Entry
	saveErr error
}

func (s *memStore) Load(context.Context) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.loaded...)
}

func (s *memStore) Save(_ context.Context, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, entries)
	return nil
}

func (s *memStore) Last() ([]Entry, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saved) == 0 {
		return nil, 0
	}
	return s.saved[len(s.saved)-1], len(s.saved)
}

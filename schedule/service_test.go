package schedule

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, kind Kind, store Store, d Deliverer, clock *fakeClock) *Service {
	t.Helper()
	s := NewService(kind, store, d, nopLogger(), WithClock(clock.Now))
	s.Load(context.Background())
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func TestService_ScheduleBounds(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	s := newTestService(t, Timers, &memStore{}, &recordingDeliverer{}, clock)

	_, _, err := s.Schedule(1, nil, "soon", "x")
	assert.ErrorIs(t, err, ErrInvalidDuration)
	_, _, err = s.Schedule(1, nil, "0s", "x")
	assert.ErrorIs(t, err, ErrNonPositive)
	_, _, err = s.Schedule(1, nil, "24h1s", "x")
	assert.ErrorIs(t, err, ErrOverHorizon)
	assert.Equal(t, 0, s.Registry().Len())

	e, secs, err := s.Schedule(1, Int64(5), "24h", "")
	require.NoError(t, err)
	assert.Equal(t, int64(86400), secs)
	assert.Equal(t, clock.Now().Unix()+86400, e.DueAt)
	assert.Greater(t, e.DueAt, clock.Now().Unix())
	assert.True(t, strings.HasPrefix(e.ID, "1700086400-1-"))
}

func TestService_ReminderRequiresTextAndHasOneYearHorizon(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	s := newTestService(t, Reminders, &memStore{}, &recordingDeliverer{}, clock)

	_, _, err := s.Schedule(1, nil, "10m", "   ")
	assert.ErrorIs(t, err, ErrEmptyPayload)
	_, _, err = s.Schedule(1, nil, "366d", "later")
	assert.ErrorIs(t, err, ErrOverHorizon)

	e, _, err := s.Schedule(1, nil, "365d", "later")
	require.NoError(t, err)
	assert.Empty(t, e.ID)

	_, err = s.Cancel(1, "x")
	assert.ErrorIs(t, err, ErrNotCancelable)
}

func TestService_TimerIDsUniqueWithinSameMillisecond(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	s := newTestService(t, Timers, &memStore{}, &recordingDeliverer{}, clock)

	a, _, err := s.Schedule(1, nil, "5m", "a")
	require.NoError(t, err)
	b, _, err := s.Schedule(1, nil, "5m", "b")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestService_Cancel(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	s := newTestService(t, Timers, &memStore{}, &recordingDeliverer{}, clock)

	mine, _, err := s.Schedule(1, nil, "5m", "mine")
	require.NoError(t, err)
	_, _, err = s.Schedule(2, nil, "5m", "theirs")
	require.NoError(t, err)

	_, err = s.Cancel(1, "")
	assert.ErrorIs(t, err, ErrEmptyPrefix)
	_, err = s.Cancel(1, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := s.Cancel(1, mine.ShortID())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, s.ListFor(1))
	assert.Len(t, s.ListFor(2), 1)
}

func TestService_DueEntryDeliveredOnce(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	d := &recordingDeliverer{}
	s := newTestService(t, Reminders, &memStore{}, d, clock)

	_, _, err := s.Schedule(1, nil, "5s", "lunch")
	require.NoError(t, err)

	s.Scanner().Scan(context.Background())
	assert.Empty(t, d.Attempts())
	assert.Len(t, s.ListFor(1), 1)

	clock.Advance(6 * time.Second)
	s.Scanner().Scan(context.Background())
	s.Scanner().Scan(context.Background())

	assert.Empty(t, s.ListFor(1))
	attempts := d.Attempts()
	require.Len(t, attempts, 1)
	assert.Equal(t, int64(1), attempts[0].OwnerID)
	assert.Equal(t, "lunch", attempts[0].Payload)
}

func TestService_SurvivesRestart(t *testing.T) {
	fs := afero.NewMemMapFs()
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	newStore := func() *FileStore {
		st := NewFileStore(fs, "data", Timers, nopLogger())
		st.now = clock.Now
		return st
	}

	first := NewService(Timers, newStore(), &recordingDeliverer{}, nopLogger(), WithClock(clock.Now))
	first.Load(context.Background())
	e, _, err := first.Schedule(3, Int64(77), "1h", "pizza")
	require.NoError(t, err)
	require.NoError(t, first.Shutdown(context.Background()))

	second := newTestService(t, Timers, newStore(), &recordingDeliverer{}, clock)
	got := second.ListFor(3)
	require.Len(t, got, 1)
	assert.Equal(t, e, got[0])
}

func TestService_ShutdownBeforeLoadLeavesFileAlone(t *testing.T) {
	store := &memStore{loaded: []Entry{{OwnerID: 1, DueAt: 1}}}
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	s := NewService(Reminders, store, &recordingDeliverer{}, nopLogger(), WithClock(clock.Now))

	_, _, err := s.Schedule(2, nil, "1m", "early")
	require.NoError(t, err)
	require.NoError(t, s.Shutdown(context.Background()))

	_, n := store.Last()
	assert.Equal(t, 0, n)
}

func TestService_HealthFollowsScanner(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	s := newTestService(t, Timers, &memStore{}, &recordingDeliverer{}, clock)

	err := s.Health(context.Background())
	assert.ErrorIs(t, err, ErrScanNotStarted)
	assert.Contains(t, err.Error(), "timer")

	s.Scanner().Scan(context.Background())
	assert.NoError(t, s.Health(context.Background()))

	clock.Advance(time.Minute)
	assert.ErrorIs(t, s.Health(context.Background()), ErrScanStalled)
}

package schedule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaver_FlushWritesLatestSnapshot(t *testing.T) {
	store := &memStore{}
	s := NewSaver(store, "timer", nopLogger())
	defer s.Close(testCtx(t))

	s.Enqueue([]Entry{{ID: "a"}})
	s.Enqueue([]Entry{{ID: "a"}, {ID: "b"}})
	require.NoError(t, s.Flush(testCtx(t)))

	last, n := store.Last()
	require.GreaterOrEqual(t, n, 1)
	assert.Len(t, last, 2)

	// nothing pending: flush is a no-op
	require.NoError(t, s.Flush(testCtx(t)))
	_, again := store.Last()
	assert.Equal(t, n, again)
}

func TestSaver_FailureReportedOnlyToFlush(t *testing.T) {
	store := &memStore{saveErr: errors.New("read-only filesystem")}
	s := NewSaver(store, "reminder", nopLogger())

	assert.NotPanics(t, func() { s.Enqueue([]Entry{{OwnerID: 1}}) })
	s.Enqueue([]Entry{{OwnerID: 1}, {OwnerID: 2}})

	// the kick may already have consumed the snapshot, so only the shape of
	// the result is checked
	err := s.Flush(testCtx(t))
	if err != nil {
		assert.Contains(t, err.Error(), "read-only")
	}
	require.NoError(t, s.Close(testCtx(t)))
}

func TestSaver_CloseFlushesAndStops(t *testing.T) {
	store := &memStore{}
	s := NewSaver(store, "timer", nopLogger())

	s.Enqueue([]Entry{{ID: "final"}})
	require.NoError(t, s.Close(testCtx(t)))

	last, _ := store.Last()
	require.Len(t, last, 1)
	assert.Equal(t, "final", last[0].ID)

	assert.ErrorIs(t, s.Flush(testCtx(t)), ErrSaverClosed)
	assert.NoError(t, s.Close(testCtx(t)))
}

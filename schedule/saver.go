package schedule

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrSaverClosed = errors.New("saver closed")

const saveTimeout = 10 * time.Second

// Saver serializes writes of one kind's store on a single goroutine.
// Snapshots coalesce: only the newest pending one is written.
type Saver struct {
	store Store
	kind  string
	log   *zap.Logger

	mu      sync.Mutex
	pending []Entry
	dirty   bool

	kick    chan struct{}
	flushes chan chan error
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewSaver(store Store, kind string, log *zap.Logger) *Saver {
	s := &Saver{
		store:   store,
		kind:    kind,
		log:     log,
		kick:    make(chan struct{}, 1),
		flushes: make(chan chan error),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Enqueue schedules a write of snapshot without waiting for it.
func (s *Saver) Enqueue(snapshot []Entry) {
	s.mu.Lock()
	s.pending = snapshot
	s.dirty = true
	s.mu.Unlock()

	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Flush writes the newest pending snapshot, if any, and waits for it.
func (s *Saver) Flush(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case s.flushes <- reply:
	case <-s.done:
		return ErrSaverClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending work and stops the worker.
func (s *Saver) Close(ctx context.Context) error {
	err := s.Flush(ctx)
	if errors.Is(err, ErrSaverClosed) {
		err = nil
	}
	s.once.Do(func() { close(s.quit) })
	select {
	case <-s.done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

func (s *Saver) run() {
	defer close(s.done)
	for {
		select {
		case <-s.kick:
			_ = s.saveLatest()
		case reply := <-s.flushes:
			reply <- s.saveLatest()
		case <-s.quit:
			return
		}
	}
}

func (s *Saver) saveLatest() error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	snapshot := s.pending
	s.pending = nil
	s.dirty = false
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := s.store.Save(ctx, snapshot); err != nil {
		mSaves.WithLabelValues(s.kind, "error").Inc()
		s.log.Error("failed to save entries", zap.Int("count", len(snapshot)), zap.Error(err))
		return err
	}
	mSaves.WithLabelValues(s.kind, "ok").Inc()
	s.log.Debug("saved entries", zap.Int("count", len(snapshot)))
	return nil
}

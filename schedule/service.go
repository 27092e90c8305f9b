package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrEmptyPayload  = errors.New("nothing to be reminded about")
	ErrNotCancelable = errors.New("entries of this kind cannot be cancelled")
	ErrEmptyPrefix   = errors.New("an id prefix is required")
	ErrNotFound      = errors.New("no matching entry")
)

// Service binds one kind's store, registry, saver and scanner.
type Service struct {
	Kind Kind

	store   Store
	saver   *Saver
	reg     *Registry
	scanner *Scanner
	log     *zap.Logger
	now     func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for scheduling and scanning.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.scanner.now = now
	}
}

// WithScanInterval overrides the kind's default scan interval.
func WithScanInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.scanner.interval = d
		}
	}
}

func NewService(kind Kind, store Store, d Deliverer, log *zap.Logger, opts ...Option) *Service {
	log = log.With(zap.String("kind", kind.Name))
	saver := NewSaver(store, kind.Name, log.Named("saver"))
	reg := NewRegistry(kind.Name, saver)
	s := &Service{
		Kind:    kind,
		store:   store,
		saver:   saver,
		reg:     reg,
		scanner: NewScanner(reg, d, kind.ScanInterval, kind.Name, log.Named("scanner")),
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry exposes the live registry.
func (s *Service) Registry() *Registry {
	return s.reg
}

// Scanner exposes the expiry scanner.
func (s *Service) Scanner() *Scanner {
	return s.scanner
}

// Schedule validates a request and registers a new entry. Nothing is
// mutated when validation fails.
func (s *Service) Schedule(owner int64, dest *int64, duration, payload string) (Entry, int64, error) {
	seconds, err := ParseDuration(duration)
	if err != nil {
		return Entry{}, 0, err
	}
	if seconds <= 0 {
		return Entry{}, 0, ErrNonPositive
	}
	if seconds > int64(s.Kind.Horizon/time.Second) {
		return Entry{}, 0, fmt.Errorf("%w of %s", ErrOverHorizon, FormatDuration(int64(s.Kind.Horizon/time.Second)))
	}
	payload = strings.TrimSpace(payload)
	if s.Kind.RequireText && payload == "" {
		return Entry{}, 0, ErrEmptyPayload
	}

	now := s.now()
	e := Entry{
		OwnerID:       owner,
		DestinationID: dest,
		Payload:       s.Kind.truncate(payload),
		DueAt:         now.Unix() + seconds,
	}

	if !s.Kind.HasID() {
		if err := s.reg.Add(e); err != nil {
			return Entry{}, 0, err
		}
	} else {
		suffix := now.UnixMilli() % 1000
		for i := int64(0); ; i++ {
			e.ID = formatTimerID(e.DueAt, owner, (suffix+i)%1000)
			err := s.reg.Add(e)
			if err == nil {
				break
			}
			if !errors.Is(err, ErrDuplicateID) || i >= 999 {
				return Entry{}, 0, err
			}
		}
	}

	mScheduled.WithLabelValues(s.Kind.Name).Inc()
	s.log.Debug("entry scheduled", zap.String("owner", e.Owner()), zap.String("id", e.ID), zap.Int64("due_at", e.DueAt))
	return e, seconds, nil
}

// ListFor returns owner's pending entries, soonest first.
func (s *Service) ListFor(owner int64) []Entry {
	return s.reg.ListFor(owner)
}

// Cancel removes owner's entries whose id starts with prefix.
func (s *Service) Cancel(owner int64, prefix string) (int, error) {
	if !s.Kind.Cancelable {
		return 0, ErrNotCancelable
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return 0, ErrEmptyPrefix
	}
	n := s.reg.Cancel(owner, prefix)
	if n == 0 {
		return 0, ErrNotFound
	}
	mCancelled.WithLabelValues(s.Kind.Name).Add(float64(n))
	return n, nil
}

// Run loads persisted entries and scans until ctx is canceled. Call it once
// the gateway is ready.
func (s *Service) Run(ctx context.Context) error {
	s.Load(ctx)
	s.log.Info("service started", zap.Int("pending", s.reg.Len()))
	return s.scanner.Run(ctx)
}

// Load merges the persisted entries into the registry. Writes are held back
// until this has happened.
func (s *Service) Load(ctx context.Context) {
	s.reg.Restore(s.store.Load(ctx))
}

// Health reports whether the expiry scanner is keeping up.
func (s *Service) Health(_ context.Context) error {
	if err := s.scanner.Healthy(); err != nil {
		return fmt.Errorf("%s: %w", s.Kind.Name, err)
	}
	return nil
}

// Shutdown writes the remaining entries and stops the saver.
func (s *Service) Shutdown(ctx context.Context) error {
	if s.reg.Restored() {
		s.saver.Enqueue(s.reg.Snapshot())
	}
	if err := s.saver.Close(ctx); err != nil {
		return fmt.Errorf("final %s save: %w", s.Kind.Name, err)
	}
	return nil
}

package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	ErrScanNotStarted = errors.New("expiry scanner has not run yet")
	ErrScanStalled    = errors.New("expiry scanner stalled")
)

// Scanner pops due entries on a fixed interval and hands each one to the
// deliverer. A failing delivery never stops the rest of the batch.
type Scanner struct {
	reg      *Registry
	deliver  Deliverer
	interval time.Duration
	kind     string
	log      *zap.Logger
	now      func() time.Time
	last     atomic.Int64 // unix nanos of the latest scan
}

func NewScanner(reg *Registry, d Deliverer, interval time.Duration, kind string, log *zap.Logger) *Scanner {
	return &Scanner{
		reg:      reg,
		deliver:  d,
		interval: interval,
		kind:     kind,
		log:      log,
		now:      time.Now,
	}
}

// Run scans until ctx is canceled. In-flight deliveries finish; only the
// next tick is suppressed.
func (s *Scanner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("expiry scanner started", zap.Duration("interval", s.interval))
	s.Scan(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("expiry scanner stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Scan(ctx)
		}
	}
}

// Scan delivers everything due now and returns how many entries were popped.
func (s *Scanner) Scan(ctx context.Context) int {
	start := time.Now()
	s.last.Store(s.now().UnixNano())
	defer func() { mScanDur.WithLabelValues(s.kind).Observe(time.Since(start).Seconds()) }()

	due := s.reg.PopDue(s.now().Unix())
	if len(due) == 0 {
		return 0
	}
	mDue.WithLabelValues(s.kind).Add(float64(len(due)))

	dctx := context.WithoutCancel(ctx)
	for _, e := range due {
		outcome, err := s.deliverOne(dctx, e)
		mDeliveries.WithLabelValues(s.kind, string(outcome)).Inc()
		if err != nil {
			s.log.Warn("notification dropped",
				zap.String("owner", e.Owner()),
				zap.String("id", e.ID),
				zap.Error(err))
			continue
		}
		s.log.Debug("notification delivered",
			zap.String("owner", e.Owner()),
			zap.String("via", string(outcome)))
	}
	return len(due)
}

// LastScan reports when Scan last ran, or the zero time.
func (s *Scanner) LastScan() time.Time {
	n := s.last.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Healthy fails before the first scan and once three intervals pass
// without one.
func (s *Scanner) Healthy() error {
	last := s.LastScan()
	if last.IsZero() {
		return ErrScanNotStarted
	}
	if age := s.now().Sub(last); age > 3*s.interval {
		return fmt.Errorf("%w: last scan %s ago", ErrScanStalled, age.Round(time.Second))
	}
	return nil
}

func (s *Scanner) deliverOne(ctx context.Context, e Entry) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = OutcomeDropped
			err = fmt.Errorf("delivery panicked: %v", r)
		}
	}()
	outcome, err = s.deliver.Deliver(ctx, e)
	if err != nil {
		outcome = OutcomeDropped
	}
	return outcome, err
}

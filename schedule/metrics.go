package schedule

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mScheduled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_entries_scheduled_total", Help: "Entries created by users.",
	}, []string{"kind"})
	mCancelled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_entries_cancelled_total", Help: "Entries removed by cancellation.",
	}, []string{"kind"})
	mDue = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_entries_due_total", Help: "Entries popped for delivery.",
	}, []string{"kind"})
	mDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_deliveries_total", Help: "Delivery attempts by outcome.",
	}, []string{"kind", "outcome"})
	mSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_saves_total", Help: "Store writes by result.",
	}, []string{"kind", "result"})
	mPending = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "schedule_pending_entries", Help: "Entries currently in the registry.",
	}, []string{"kind"})
	mScanDur = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "schedule_scan_duration_seconds", Help: "Expiry scan duration.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
)

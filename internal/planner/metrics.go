package planner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors updated by the Service.
type Metrics struct {
	PlansCreated   prometheus.Counter
	PlansExpired   prometheus.Counter
	ProgressEvents prometheus.Counter
	PagesRecorded  prometheus.Counter
	BooksFinished  prometheus.Counter
	Errors         *prometheus.CounterVec
	Duration       *prometheus.HistogramVec
}

// NewMetrics creates the planner collectors and registers them with reg.
// A nil reg leaves them unregistered, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PlansCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: "readplan",
			Subsystem: "planner",
			Name:      "plans_created_total",
			Help:      "Reading plans created",
		}),
		PlansExpired: f.NewCounter(prometheus.CounterOpts{
			Namespace: "readplan",
			Subsystem: "planner",
			Name:      "plans_expired_total",
			Help:      "Reading plans evicted on read after their end date",
		}),
		ProgressEvents: f.NewCounter(prometheus.CounterOpts{
			Namespace: "readplan",
			Subsystem: "planner",
			Name:      "progress_events_total",
			Help:      "Progress submissions applied to a plan",
		}),
		PagesRecorded: f.NewCounter(prometheus.CounterOpts{
			Namespace: "readplan",
			Subsystem: "planner",
			Name:      "pages_recorded_total",
			Help:      "Pages submitted through progress events",
		}),
		BooksFinished: f.NewCounter(prometheus.CounterOpts{
			Namespace: "readplan",
			Subsystem: "planner",
			Name:      "books_finished_total",
			Help:      "Books completed by a progress event",
		}),
		Errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "readplan",
			Subsystem: "planner",
			Name:      "errors_total",
			Help:      "Planner operation failures by operation and kind",
		}, []string{"operation", "kind"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "readplan",
			Subsystem: "planner",
			Name:      "operation_duration_seconds",
			Help:      "Planner operation latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

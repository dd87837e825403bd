package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation labels.
const (
	OpGroupSchedule = "group_schedule"
	OpNextPhase     = "next_phase"
	OpReorganize    = "reorganize"
	OpReset         = "reset"
)

// Metrics decouples the services from Prometheus.
type Metrics interface {
	IncGenerations(operation, outcome string)
	ObserveGenerationDuration(operation string, seconds float64)
	ObserveSlots(slots int)
	AddMatchesWritten(operation string, n int)
	IncInvariantFailures()
	IncVenueFallbacks(n int)
}

type Service struct {
	Generations        *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	SlotsPerSchedule   prometheus.Histogram
	MatchesWritten     *prometheus.CounterVec
	InvariantFailures  prometheus.Counter
	VenueFallbacks     prometheus.Counter
}

var _ Metrics = (*Service)(nil)

// NewService creates and registers the collectors on reg, or on the default
// registerer when reg is nil.
func NewService(reg prometheus.Registerer) *Service {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &Service{
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_generations_total",
			Help: "Schedule and bracket operations by outcome.",
		}, []string{"operation", "outcome"}),
		GenerationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scheduler_generation_duration_seconds",
			Help:    "Wall time of schedule and bracket operations, writes included.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
		SlotsPerSchedule: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scheduler_slots_per_schedule",
			Help:    "Number of slots produced by the slot optimizer.",
			Buckets: prometheus.ExponentialBuckets(4, 2, 8),
		}),
		MatchesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_matches_written_total",
			Help: "Matches created or updated.",
		}, []string{"operation"}),
		InvariantFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_invariant_failures_total",
			Help: "Slot optimizer runs that hit the iteration ceiling.",
		}),
		VenueFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_venue_fallbacks_total",
			Help: "Configured venues that did not exist and were substituted.",
		}),
	}
	reg.MustRegister(s.Generations, s.GenerationDuration, s.SlotsPerSchedule, s.MatchesWritten, s.InvariantFailures, s.VenueFallbacks)
	return s
}

// NewHandler exposes gatherer, or the default gatherer when nil.
func NewHandler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (s *Service) IncGenerations(operation, outcome string) {
	s.Generations.WithLabelValues(operation, outcome).Inc()
}

func (s *Service) ObserveGenerationDuration(operation string, seconds float64) {
	s.GenerationDuration.WithLabelValues(operation).Observe(seconds)
}

func (s *Service) ObserveSlots(slots int) {
	s.SlotsPerSchedule.Observe(float64(slots))
}

func (s *Service) AddMatchesWritten(operation string, n int) {
	s.MatchesWritten.WithLabelValues(operation).Add(float64(n))
}

func (s *Service) IncInvariantFailures() {
	s.InvariantFailures.Inc()
}

func (s *Service) IncVenueFallbacks(n int) {
	s.VenueFallbacks.Add(float64(n))
}

// Package metrics exports tournament activity as Prometheus metrics. A
// Recorder subscribes to the event bus; Handler serves its registry next to
// a health probe.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Iron-Ham/knockout/internal/event"
)

const namespace = "knockout"

// Recorder turns bus events into metric updates.
type Recorder struct {
	registry *prometheus.Registry

	tournaments   prometheus.Counter
	matches       *prometheus.CounterVec
	goals         *prometheus.CounterVec
	penalties     *prometheus.CounterVec
	shootouts     prometheus.Counter
	inFlight      prometheus.Gauge
	matchDuration prometheus.Histogram
	champions     *prometheus.CounterVec
}

// NewRecorder registers the tournament metrics on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		tournaments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournaments_total",
			Help:      "Tournaments completed.",
		}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Matches resolved, by round.",
		}, []string{"round"}),
		goals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "goals_total",
			Help:      "Regular-time goals, by side and whether the operator forced them.",
		}, []string{"side", "forced"}),
		penalties: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "penalty_kicks_total",
			Help:      "Shoot-out kicks, by side and outcome.",
		}, []string{"side", "scored"}),
		shootouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shootouts_total",
			Help:      "Matches decided by a penalty shoot-out.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "matches_in_flight",
			Help:      "Matches claimed and not yet finished.",
		}),
		matchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_duration_seconds",
			Help:      "Wall-clock time from kick-off to final whistle.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		champions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "champions_total",
			Help:      "Tournament wins, by team.",
		}, []string{"team"}),
	}

	r.registry.MustRegister(
		r.tournaments,
		r.matches,
		r.goals,
		r.penalties,
		r.shootouts,
		r.inFlight,
		r.matchDuration,
		r.champions,
	)
	return r
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Attach subscribes the recorder to bus and returns a function that
// detaches it.
func (r *Recorder) Attach(bus *event.Bus) func() {
	id := bus.SubscribeAll(r.Observe)
	return func() { bus.Unsubscribe(id) }
}

// Observe applies one event.
func (r *Recorder) Observe(e event.Event) {
	switch ev := e.(type) {
	case event.MatchStartedEvent:
		r.inFlight.Inc()
	case event.GoalScoredEvent:
		r.goals.WithLabelValues(ev.Side.String(), strconv.FormatBool(ev.Forced)).Inc()
	case event.PenaltyKickEvent:
		r.penalties.WithLabelValues(ev.Side.String(), strconv.FormatBool(ev.Scored)).Inc()
	case event.MatchFinishedEvent:
		r.inFlight.Dec()
		r.matches.WithLabelValues(strconv.Itoa(ev.Round)).Inc()
		r.matchDuration.Observe(ev.Elapsed.Seconds())
		if ev.Shootout {
			r.shootouts.Inc()
		}
	case event.TournamentFinishedEvent:
		r.tournaments.Inc()
		r.champions.WithLabelValues(ev.Champion.Name).Inc()
	}
}

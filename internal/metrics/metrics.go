// Package metrics records refresh activity as Prometheus metrics and serves
// them, together with a JSON status document, over HTTP.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Elpulgo/pullrefresh/internal/refresh"
)

const namespace = "pullrefresh"

// Trigger names what started a loading episode.
type Trigger string

const (
	TriggerGesture Trigger = "gesture"
	TriggerKey     Trigger = "key"
	TriggerAuto    Trigger = "auto"
)

// Status is the JSON document served at /status.
type Status struct {
	State       string    `json:"state"`
	Episode     uint64    `json:"episode"`
	Source      string    `json:"source"`
	LastRefresh time.Time `json:"last_refresh,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
}

// Recorder owns a private registry so several recorders can coexist in tests.
type Recorder struct {
	registry *prometheus.Registry

	episodes      *prometheus.CounterVec
	cancellations prometheus.Counter
	fetchErrors   prometheus.Counter
	fetchDuration *prometheus.HistogramVec
	state         *prometheus.GaugeVec
	pullDistance  prometheus.Histogram

	mu     sync.RWMutex
	status Status
}

// NewRecorder creates a Recorder with the refresh metrics plus the Go runtime
// and process collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		episodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loading_episodes_total",
				Help:      "Total number of loading episodes by trigger",
			},
			[]string{"trigger"},
		),
		cancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loading_cancelled_total",
			Help:      "Loading episodes cancelled by calibration",
		}),
		fetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Snapshot collections that returned an error",
		}),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of snapshot collections",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"outcome"},
		),
		state: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "state",
				Help:      "1 for the current refresh state, 0 otherwise",
			},
			[]string{"state"},
		),
		pullDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "release_distance",
			Help:      "Pull distance at the moment a drag was released",
			Buckets:   prometheus.LinearBuckets(0, 20, 9),
		}),
		status: Status{State: refresh.Idle.String(), Source: "empty"},
	}

	r.registry.MustRegister(
		r.episodes,
		r.cancellations,
		r.fetchErrors,
		r.fetchDuration,
		r.state,
		r.pullDistance,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r.setState(refresh.Idle)
	return r
}

// Registry returns the registry the metrics are registered with.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// StateChanged tracks the current state. A drag release is recorded with
// the distance it happened at.
func (r *Recorder) StateChanged(from, to refresh.State, distance float64) {
	r.setState(to)
	if from.IsPulling() && to.IsReleased() {
		r.pullDistance.Observe(distance)
	}
}

func (r *Recorder) setState(current refresh.State) {
	for _, s := range refresh.States() {
		v := 0.0
		if s == current {
			v = 1
		}
		r.state.WithLabelValues(s.String()).Set(v)
	}

	r.mu.Lock()
	r.status.State = current.String()
	r.mu.Unlock()
}

// LoadStarted counts a new loading episode.
func (r *Recorder) LoadStarted(episode uint64, trigger Trigger) {
	r.episodes.WithLabelValues(string(trigger)).Inc()

	r.mu.Lock()
	r.status.Episode = episode
	r.mu.Unlock()
}

// LoadCancelled counts an episode abandoned by calibration.
func (r *Recorder) LoadCancelled() {
	r.cancellations.Inc()
}

// FetchCompleted records one snapshot collection.
func (r *Recorder) FetchCompleted(d time.Duration, err error, at time.Time) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		r.fetchErrors.Inc()
	}
	r.fetchDuration.WithLabelValues(outcome).Observe(d.Seconds())

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.status.LastError = err.Error()
		return
	}
	r.status.LastError = ""
	r.status.LastRefresh = at
}

// SourceChanged records the freshness of the displayed data.
func (r *Recorder) SourceChanged(source string) {
	r.mu.Lock()
	r.status.Source = source
	r.mu.Unlock()
}

// Status returns a copy of the current status document.
func (r *Recorder) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

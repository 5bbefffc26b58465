// Package metrics exports bootstrap telemetry in the Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/bootload/internal/lifecycle"
	"github.com/agbru/bootload/internal/orchestration"
	"github.com/agbru/bootload/internal/retry"
)

const namespace = "bootload"

// Outcome label values.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

var (
	_ orchestration.TaskObserver = (*Recorder)(nil)
	_ lifecycle.LoadObserver     = (*Recorder)(nil)
	_ retry.AttemptObserver      = (*Recorder)(nil)
)

// Recorder owns a private registry so several recorders can coexist in one
// process (tests, reloads).
type Recorder struct {
	registry *prometheus.Registry
	handler  http.Handler

	tasksRegistered   prometheus.Counter
	tasksCompleted    *prometheus.CounterVec
	taskDuration      prometheus.Histogram
	tasksPending      prometheus.Gauge
	loadDuration      *prometheus.HistogramVec
	loadState         prometheus.Gauge
	reconnectAttempts *prometheus.CounterVec
	activeRequests    prometheus.Gauge
	requestsTotal     *prometheus.CounterVec
}

// NewRecorder creates a recorder with Go runtime and process collectors
// already registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		tasksRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_registered_total",
			Help:      "Bootstrap tasks issued.",
		}),
		tasksCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_completed_total",
			Help:      "Bootstrap tasks settled, by outcome.",
		}, []string{"outcome"}),
		taskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Work duration of bootstrap tasks that started.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		tasksPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks_pending",
			Help:      "Entries currently in the pending task list.",
		}),
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Total client load duration, by outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"outcome"}),
		loadState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "load_state",
			Help:      "Lifecycle state of the current client (0 loading, 1 succeeded, 2 failed).",
		}),
		reconnectAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconnect_attempts_total",
			Help:      "Connect attempts made by the reconnector, by outcome.",
		}, []string{"outcome"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "HTTP requests currently being served.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by path.",
		}, []string{"path"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.tasksRegistered,
		r.tasksCompleted,
		r.taskDuration,
		r.tasksPending,
		r.loadDuration,
		r.loadState,
		r.reconnectAttempts,
		r.activeRequests,
		r.requestsTotal,
	)
	r.handler = promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
	return r
}

// Registry returns the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the exposition format.
func (r *Recorder) Handler() http.Handler { return r.handler }

// WritePrometheus writes the current metrics to w.
func (r *Recorder) WritePrometheus(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// TaskRegistered implements orchestration.TaskObserver.
func (r *Recorder) TaskRegistered(_ string, pending int) {
	r.tasksRegistered.Inc()
	r.tasksPending.Set(float64(pending))
}

// TaskCompleted implements orchestration.TaskObserver. Tasks that failed
// before starting contribute no duration sample.
func (r *Recorder) TaskCompleted(_ string, elapsed time.Duration, err error, pending int) {
	r.tasksPending.Set(float64(pending))
	if err != nil {
		r.tasksCompleted.WithLabelValues(outcomeFailure).Inc()
	} else {
		r.tasksCompleted.WithLabelValues(outcomeSuccess).Inc()
	}
	if elapsed > 0 {
		r.taskDuration.Observe(elapsed.Seconds())
	}
}

// LoadSettled implements lifecycle.LoadObserver.
func (r *Recorder) LoadSettled(state lifecycle.State, elapsed time.Duration) {
	r.loadState.Set(float64(state))
	outcome := outcomeSuccess
	if state == lifecycle.Failed {
		outcome = outcomeFailure
	}
	r.loadDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ResetLoad marks a new client as loading, after a reload.
func (r *Recorder) ResetLoad() {
	r.loadState.Set(float64(lifecycle.Loading))
}

// ReconnectAttempt implements retry.AttemptObserver.
func (r *Recorder) ReconnectAttempt(_ int, err error) {
	if err != nil {
		r.reconnectAttempts.WithLabelValues(outcomeFailure).Inc()
		return
	}
	r.reconnectAttempts.WithLabelValues(outcomeSuccess).Inc()
}

// IncrementActiveRequests increments the in-flight HTTP request gauge.
func (r *Recorder) IncrementActiveRequests() { r.activeRequests.Inc() }

// DecrementActiveRequests decrements the in-flight HTTP request gauge.
func (r *Recorder) DecrementActiveRequests() { r.activeRequests.Dec() }

// ObserveRequest counts a served request.
func (r *Recorder) ObserveRequest(path string) {
	r.requestsTotal.WithLabelValues(path).Inc()
}

package codelog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tansive/commitproof/internal/common/middleware"
)

// Metrics counts run outcomes on its own registry.
type Metrics struct {
	Registry *prometheus.Registry
	codes    prometheus.Counter
	skipped  prometheus.Counter
	failures prometheus.Counter
}

// NewMetrics creates the counters and registers them on a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		codes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codelog_codes_total",
			Help: "One-time codes derived and written to the sink.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codelog_skipped_total",
			Help: "Intervals skipped because the seed was missing or empty.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codelog_failures_total",
			Help: "Intervals that failed to derive or write a code.",
		}),
	}
	m.Registry.MustRegister(m.codes, m.skipped, m.failures)
	return m
}

func (m *Metrics) observe(c Class) {
	if m == nil {
		return
	}
	switch c {
	case ClassOK:
		m.codes.Inc()
	case ClassSkipped:
		m.skipped.Inc()
	default:
		m.failures.Inc()
	}
}

// newRouter mounts the request logger outside the panic handler so recovered
// panics are logged with the request ID.
func newRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PanicHandler)
	return r
}

// Router serves the registry at /metrics and a liveness probe at /healthz.
func (m *Metrics) Router() http.Handler {
	r := newRouter()
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return r
}

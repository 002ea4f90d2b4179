package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maxi-cmyk/poop-tracker/internal/ports/activity"
)

// Metrics agrupa los collectors del servicio en un registry propio.
// Un *Metrics nil es válido: todos los métodos son no-op.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	activityTotal     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		activityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "poopals_activity_events_total",
			Help: "Circle activity events by kind and publish result.",
		}, []string{"kind", "result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.activityTotal,
	)
	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Middleware mide cada request con el patrón de ruta de chi ("/logs/{logID}"),
// así los IDs no explotan la cardinalidad.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		m.httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ActivityPublished(kind activity.Kind, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.activityTotal.WithLabelValues(string(kind), result).Inc()
}

// Publisher cuenta cada evento publicado por next.
func (m *Metrics) Publisher(next activity.Publisher) activity.Publisher {
	if next == nil {
		next = activity.Discard{}
	}
	if m == nil {
		return next
	}
	return countingPublisher{next: next, m: m}
}

type countingPublisher struct {
	next activity.Publisher
	m    *Metrics
}

func (p countingPublisher) Publish(ctx context.Context, ev activity.Event) error {
	err := p.next.Publish(ctx, ev)
	p.m.ActivityPublished(ev.Kind, err)
	return err
}

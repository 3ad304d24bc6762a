package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// Metrics — Prometheus-метрики сервера в собственном реестре.
//
// Отдельный реестр (а не prometheus.DefaultRegisterer) позволяет создавать
// несколько экземпляров в тестах без AlreadyRegisteredError.
// Методы безопасны для nil-получателя: метрики можно выключить, передав nil.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	rateLimitHits  *prometheus.CounterVec
	calculations   *prometheus.CounterVec
}

// NewMetrics создаёт и регистрирует все коллекторы.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calckeeper",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "calckeeper",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		rateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calckeeper",
			Subsystem: "api",
			Name:      "rate_limit_hits_total",
			Help:      "Number of rate-limited responses",
		}, []string{"route"}),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calckeeper",
			Subsystem: "calc",
			Name:      "calculations_total",
			Help:      "Count of calculation requests by operation and outcome",
		}, []string{"operation", "outcome"}),
	}

	m.registry.MustRegister(
		m.requestTotal,
		m.requestLatency,
		m.rateLimitHits,
		m.calculations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry нужен тестам для чтения значений.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware считает запросы и их длительность по шаблону маршрута chi.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wr := wrap(w)
			next.ServeHTTP(wr, r)

			status := wr.Status
			if status == 0 {
				status = http.StatusOK
			}
			labels := prometheus.Labels{
				"method": r.Method,
				"route":  routePattern(r),
				"status": strconv.Itoa(status),
			}
			m.requestTotal.With(labels).Inc()
			m.requestLatency.With(labels).Observe(time.Since(start).Seconds())
		})
	}
}

// ObserveCalculation учитывает вычисление: outcome — ok|division_by_zero|invalid|error.
func (m *Metrics) ObserveCalculation(operation, outcome string) {
	if m == nil {
		return
	}
	m.calculations.With(prometheus.Labels{"operation": operation, "outcome": outcome}).Inc()
}

func (m *Metrics) recordRateLimitHit(route string) {
	if m == nil {
		return
	}
	m.rateLimitHits.With(prometheus.Labels{"route": route}).Inc()
}

// routePattern возвращает шаблон маршрута (/history/{id}), а не сырой путь,
// чтобы не раздувать кардинальность меток.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

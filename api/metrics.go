package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the server's Prometheus collectors, registered on their own
// registry.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec   // method, path, status
	duration *prometheus.HistogramVec // method, path
	pricings *prometheus.CounterVec   // model, result
	ivSolves *prometheus.CounterVec   // converged
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := &Metrics{registry: reg}

	m.requests = m.counter(prometheus.CounterOpts{
		Name: "zebra_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "path", "status"})
	m.duration = m.histogram(prometheus.HistogramOpts{
		Name:    "zebra_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
	m.pricings = m.counter(prometheus.CounterOpts{
		Name: "zebra_pricings_total",
		Help: "Pricing calls by model and result.",
	}, []string{"model", "result"})
	m.ivSolves = m.counter(prometheus.CounterOpts{
		Name: "zebra_implied_vol_total",
		Help: "Implied volatility solves by convergence.",
	}, []string{"converged"})
	return m
}

func (m *Metrics) counter(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(opts, labels)
	m.registry.MustRegister(cv)
	return cv
}

func (m *Metrics) histogram(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	hv := prometheus.NewHistogramVec(opts, labels)
	m.registry.MustRegister(hv)
	return hv
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) instrument(c *gin.Context) {
	start := time.Now()
	c.Next()
	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	m.requests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	m.duration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
}

func (m *Metrics) priced(model string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.pricings.WithLabelValues(model, result).Inc()
}

func (m *Metrics) solved(converged bool) {
	m.ivSolves.WithLabelValues(strconv.FormatBool(converged)).Inc()
}

package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// ScreenRenders counts screen renders by view and outcome
	// (ok, stale, error).
	ScreenRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnhub_screen_renders_total",
			Help: "Screen renders by view and outcome",
		},
		[]string{"view", "outcome"},
	)

	// FetchFailures counts collection fetches that failed and were
	// rendered as empty.
	FetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnhub_fetch_failures_total",
			Help: "Failed collection fetches",
		},
		[]string{"collection"},
	)

	SessionResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnhub_session_resolutions_total",
			Help: "Identity resolutions by outcome",
		},
		[]string{"outcome"},
	)

	ConnectedClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "learnhub_event_clients",
			Help: "Clients connected to the state event stream",
		},
	)

	PushedEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnhub_events_pushed_total",
			Help: "State events pushed to clients",
		},
		[]string{"type"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(ScreenRenders)
		prometheus.MustRegister(FetchFailures)
		prometheus.MustRegister(SessionResolutions)
		prometheus.MustRegister(ConnectedClients)
		prometheus.MustRegister(PushedEvents)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

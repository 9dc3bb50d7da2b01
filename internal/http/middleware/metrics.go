package middleware

import (
	"strconv"
	"time"

	"restaurantapi/internal/authz"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the HTTP and authorization collectors of one server.
type Metrics struct {
	requests  *prometheus.HistogramVec
	decisions *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "restaurantapi",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "restaurantapi",
			Subsystem: "authz",
			Name:      "decisions_total",
			Help:      "Authorization decisions by policy and result.",
		}, []string{"policy", "result"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.decisions)
	}
	return m
}

// Handler observes request durations labelled by route template.
func (m *Metrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// ObserveDecision counts an authorization decision; pass it to
// authz.WithObserver.
func (m *Metrics) ObserveDecision(d authz.Decision) {
	result := "deny"
	if d.Allowed {
		result = "allow"
	}
	policy := d.Policy
	if policy == "" {
		policy = "adhoc"
	}
	m.decisions.WithLabelValues(policy, result).Inc()
}

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scos-platform/order-service/pkg/metrics"
)

// MetricsMiddleware creates middleware that records HTTP metrics
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid recursion
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		m.IncrementHTTPRequestsInFlight()
		defer m.DecrementHTTPRequestsInFlight()

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		path := c.FullPath() // route pattern, not the raw path
		if path == "" {
			path = c.Request.URL.Path
		}

		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), duration)
	}
}

// MetricsEndpoint returns a handler for the /metrics endpoint
func MetricsEndpoint(m *metrics.Metrics) gin.HandlerFunc {
	handler := m.Handler()
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

// BusinessMetrics provides helpers for recording business-specific metrics
type BusinessMetrics struct {
	metrics *metrics.Metrics
}

// NewBusinessMetrics creates a new BusinessMetrics helper
func NewBusinessMetrics(m *metrics.Metrics) *BusinessMetrics {
	return &BusinessMetrics{metrics: m}
}

// RecordQuote records a computed quote outcome
func (b *BusinessMetrics) RecordQuote(outcome string) {
	b.metrics.RecordQuote(outcome)
}

// RecordOrderConfirmed records a committed order and its allocated units
func (b *BusinessMetrics) RecordOrderConfirmed(unitsByWarehouse map[string]int) {
	b.metrics.RecordOrderConfirmed()
	for warehouse, units := range unitsByWarehouse {
		b.metrics.RecordUnitsAllocated(warehouse, units)
	}
}

// RecordCommitConflict records a submission aborted by a stock conflict
func (b *BusinessMetrics) RecordCommitConflict(reason string) {
	b.metrics.RecordCommitConflict(reason)
}

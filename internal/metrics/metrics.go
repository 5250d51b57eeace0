package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskhub_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "taskhub_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskhub_login_attempts_total",
		Help: "Login attempts by result",
	}, []string{"result"})

	tokenRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskhub_token_rejections_total",
		Help: "Bearer tokens rejected by reason",
	}, []string{"reason"})

	limitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskhub_plan_limit_rejections_total",
		Help: "Creates refused because the tenant reached its plan cap",
	}, []string{"resource"})

	auditEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskhub_audit_events_total",
		Help: "Audit entries by sink and result",
	}, []string{"sink", "result"})

	auditDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskhub_audit_dropped_total",
		Help: "Audit entries dropped because the queue was full",
	})

	auditQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "taskhub_audit_queue_depth",
		Help: "Audit entries waiting for a worker",
	})

	auditPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskhub_audit_purged_total",
		Help: "Audit rows removed by retention cleanup",
	})

	tenantCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskhub_tenant_cache_lookups_total",
		Help: "Tenant cache lookups by result",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveLogin records a login attempt outcome
func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

// ObserveTokenRejected records why a bearer token was refused
func ObserveTokenRejected(reason string) {
	tokenRejections.WithLabelValues(reason).Inc()
}

// ObserveLimitRejected records a plan cap rejection
func ObserveLimitRejected(resource string) {
	limitRejections.WithLabelValues(resource).Inc()
}

// ObserveAuditWrite records one sink write
func ObserveAuditWrite(sink, result string) {
	auditEvents.WithLabelValues(sink, result).Inc()
}

// ObserveAuditDropped counts an entry lost to a full queue
func ObserveAuditDropped() {
	auditDropped.Inc()
}

// SetAuditQueueDepth reports the current queue length
func SetAuditQueueDepth(n int) {
	auditQueueDepth.Set(float64(n))
}

// ObserveAuditPurged adds the rows removed by a retention run
func ObserveAuditPurged(n int64) {
	auditPurged.Add(float64(n))
}

// ObserveTenantCache records a cache hit, miss or error
func ObserveTenantCache(result string) {
	tenantCacheLookups.WithLabelValues(result).Inc()
}

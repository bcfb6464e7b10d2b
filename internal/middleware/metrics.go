package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hoaxify_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// TokensSwept counts tokens removed by the inactivity sweep.
	TokensSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hoaxify_tokens_swept_total",
		Help: "Total number of expired tokens removed by the cleanup sweep",
	})

	// OrphanAttachmentsSwept counts attachments removed by the orphan sweep.
	OrphanAttachmentsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hoaxify_orphan_attachments_swept_total",
		Help: "Total number of orphaned attachments removed by the cleanup sweep",
	})

	// BlobDeleteFailures counts best-effort blob removals that failed and were
	// skipped. The relational rows remain the source of truth; failures here
	// are reclaimed by later sweeps.
	BlobDeleteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hoaxify_blob_delete_failures_total",
		Help: "Total number of failed filesystem blob deletions by class",
	}, []string{"class"})

	// SweepFailures counts background sweep cycles that returned an error.
	SweepFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hoaxify_sweep_failures_total",
		Help: "Total number of failed background sweep cycles by sweep name",
	}, []string{"sweep"})
)

var (
	promOnce     sync.Once
	promInstance *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus HTTP middleware for the given service
// name. The instance is shared: the underlying collectors can only be
// registered once per process.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInstance = fiberprometheus.New(serviceName)
	})
	return promInstance
}

// MetricsMiddleware returns the Fiber handler recording HTTP metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

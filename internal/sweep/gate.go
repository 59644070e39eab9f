package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	usecase "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

const DefaultInterval = 5 * time.Minute

type Runner interface {
	Execute(ctx context.Context) (usecase.SweepResult, error)
}

// Gate runs the sweep at most once per interval across every process that
// shares the marker store.
type Gate struct {
	marker   MarkerStore
	runner   Runner
	key      string
	interval time.Duration
}

func NewGate(marker MarkerStore, runner Runner, interval time.Duration) *Gate {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Gate{
		marker:   marker,
		runner:   runner,
		key:      DefaultMarkerKey,
		interval: interval,
	}
}

// Run sweeps when the marker allows it. ran is false when another run holds
// the interval. Marker and sweep failures are returned.
func (g *Gate) Run(ctx context.Context) (ran bool, res usecase.SweepResult, err error) {
	ok, err := g.marker.TryAcquire(ctx, g.key, g.interval)
	if err != nil {
		metrics.RecordSweep("marker_error", 0, 0)
		return false, res, fmt.Errorf("sweep marker: %w", err)
	}
	if !ok {
		return false, res, nil
	}

	res, err = g.runner.Execute(ctx)
	return true, res, err
}

// MaybeRun reports whether this call ran the sweep. Failures are logged,
// never returned.
func (g *Gate) MaybeRun(ctx context.Context) bool {
	ran, _, err := g.Run(ctx)
	if err != nil {
		if ran {
			logger.Error("sweep failed", "error", err)
		} else {
			logger.Warn("sweep marker unavailable", "error", err)
		}
	}
	return ran
}

// Middleware triggers the gate before the request is handled. The sweep
// runs on its own context so a client disconnect does not cut it short.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 30*time.Second)
		g.MaybeRun(ctx)
		cancel()

		c.Next()
	}
}

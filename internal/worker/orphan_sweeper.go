package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/observability"
)

// OrphanDeleter removes order items that no order references.
type OrphanDeleter interface {
	DeleteOrphans(ctx context.Context, cutoff time.Time) (int64, error)
}

// OrphanSweeper periodically deletes order items left behind by failed placements.
type OrphanSweeper struct {
	items    OrphanDeleter
	interval time.Duration
	grace    time.Duration
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewOrphanSweeper constructs the sweeper. Items younger than grace are left
// alone so that in-flight placements are never touched.
func NewOrphanSweeper(items OrphanDeleter, interval, grace time.Duration, metrics *observability.Metrics, logger *zap.Logger) *OrphanSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrphanSweeper{
		items:    items,
		interval: interval,
		grace:    grace,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Run sweeps every interval until ctx is done.
func (s *OrphanSweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("orphan sweeper disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.logger.Warn("orphan sweep failed", zap.Error(err))
			}
		}
	}
}

// SweepOnce deletes orphaned items older than the grace period.
func (s *OrphanSweeper) SweepOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.grace)
	n, err := s.items.DeleteOrphans(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.metrics.ItemsSwept(n)
		s.logger.Info("orphaned order items deleted", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	}
	return n, nil
}

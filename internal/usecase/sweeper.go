package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/uxauditpro/backend/internal/domain/repository"
)

// Sweeper moves stale pending orders to expired on a fixed interval. Expiry
// through the ledger's guarded update means a confirmation racing the sweep
// can never be overwritten: whichever transition lands first wins and the
// loser observes a terminal row.
type Sweeper struct {
	orderRepo repository.OrderRepository
	expiry    time.Duration
	interval  time.Duration
	logger    *zap.Logger
}

func NewSweeper(orderRepo repository.OrderRepository, expiry, interval time.Duration, logger *zap.Logger) *Sweeper {
	if expiry <= 0 {
		expiry = 30 * time.Minute
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		orderRepo: orderRepo,
		expiry:    expiry,
		interval:  interval,
		logger:    logger,
	}
}

// Run sweeps until the context is cancelled. Intended to run as a goroutine
// alongside the HTTP server.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Order expiry sweeper started",
		zap.Duration("expiry", s.expiry),
		zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Order expiry sweeper stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce expires every pending order older than the expiry window.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	cutoff := time.Now().Add(-s.expiry)
	expired, err := s.orderRepo.ExpireStale(ctx, cutoff)
	if err != nil {
		s.logger.Error("Order expiry sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		s.logger.Info("Expired stale pending orders", zap.Int64("count", expired))
	}
}

package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestSweepOnce_UsesExpiryCutoff(t *testing.T) {
	orderRepo := new(MockOrderRepository)

	expiry := 30 * time.Minute
	orderRepo.On("ExpireStale", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		// The cutoff is now minus the expiry window, give or take scheduling.
		expected := time.Now().Add(-expiry)
		return cutoff.Sub(expected).Abs() < 5*time.Second
	})).Return(int64(3), nil)

	sweeper := NewSweeper(orderRepo, expiry, time.Minute, zap.NewNop())
	sweeper.SweepOnce(context.Background())

	orderRepo.AssertExpectations(t)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	orderRepo.On("ExpireStale", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()

	sweeper := NewSweeper(orderRepo, time.Minute, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancel")
	}

	assert.True(t, true)
}

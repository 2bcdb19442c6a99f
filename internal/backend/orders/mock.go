package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matthieukhl/storefront/internal/models"
	"github.com/matthieukhl/storefront/internal/types"
)

// MockSubmitter pretends to hand the order to a fulfilment backend. It never
// fails on its own; only ctx cancellation interrupts it.
type MockSubmitter struct {
	latency time.Duration
}

func NewMockSubmitter(latency time.Duration) *MockSubmitter {
	return &MockSubmitter{latency: latency}
}

func (s *MockSubmitter) Submit(ctx context.Context, order models.Order) (string, error) {
	// Simulate network delay
	if err := sleep(ctx, s.latency); err != nil {
		return "", err
	}
	return newReference(), nil
}

func (s *MockSubmitter) Name() string {
	return "mock"
}

// newReference builds a sortable confirmation reference
func newReference() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ types.OrderSubmitter = (*MockSubmitter)(nil)

package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"closetshare-backend/internal/logger"
)

// MockGateway approves everything and fabricates processor references.
// It remembers holds so refunds can be validated against them.
type MockGateway struct {
	mu    sync.Mutex
	holds map[string]int64
}

func NewMockGateway() *MockGateway {
	return &MockGateway{holds: make(map[string]int64)}
}

func (g *MockGateway) Capture(ctx context.Context, userID int32, amountCents int64, description string) (*Charge, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("capture amount must be positive, got %d", amountCents)
	}
	ref := "ch_" + uuid.NewString()
	logger.ExternalServiceCall("payment", "capture", "user_id", userID, "amount_cents", amountCents, "ref", ref)
	return &Charge{Reference: ref, AmountCents: amountCents}, nil
}

func (g *MockGateway) Hold(ctx context.Context, userID int32, amountCents int64, description string) (*Charge, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("hold amount must be positive, got %d", amountCents)
	}
	ref := "hold_" + uuid.NewString()

	g.mu.Lock()
	g.holds[ref] = amountCents
	g.mu.Unlock()

	logger.ExternalServiceCall("payment", "hold", "user_id", userID, "amount_cents", amountCents, "ref", ref)
	return &Charge{Reference: ref, AmountCents: amountCents}, nil
}

func (g *MockGateway) Refund(ctx context.Context, reference string, amountCents int64) (*Charge, error) {
	g.mu.Lock()
	held, ok := g.holds[reference]
	if ok {
		delete(g.holds, reference)
	}
	g.mu.Unlock()

	if ok && amountCents > held {
		return nil, fmt.Errorf("refund %d exceeds held amount %d for %s", amountCents, held, reference)
	}
	ref := "re_" + uuid.NewString()
	logger.ExternalServiceCall("payment", "refund", "original_ref", reference, "amount_cents", amountCents, "ref", ref)
	return &Charge{Reference: ref, AmountCents: amountCents}, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"busline/internal/domain"
)

// Gateway is the external payment collaborator. Implementations must
// honor ctx cancellation.
type Gateway interface {
	Charge(ctx context.Context, amountCents int64, reference string) (string, error)
}

const defaultPaymentTimeout = 3 * time.Second

// PaymentService wraps the gateway with a bounded timeout so a hung
// charge is treated as failed instead of pending forever.
type PaymentService struct {
	Gateway Gateway
	Timeout time.Duration
}

// Charge runs one payment attempt. Returns the gateway transaction id
// on success; any decline, error or timeout surfaces as PaymentError.
func (s *PaymentService) Charge(ctx context.Context, amountCents int64, reference string) (string, error) {
	if amountCents < 0 {
		return "", domain.ValidationError{Field: "amount", Msg: "must not be negative"}
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultPaymentTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	txID, err := s.Gateway.Charge(ctx, amountCents, reference)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.PaymentError{Msg: "gateway timed out", Err: err}
		}
		return "", domain.PaymentError{Msg: "gateway declined", Err: err}
	}
	return txID, nil
}

// SimGateway approves every charge after a short delay. Stands in for a
// real processor in demo mode and in tests.
type SimGateway struct {
	Delay time.Duration
}

func (g SimGateway) Charge(ctx context.Context, amountCents int64, reference string) (string, error) {
	if g.Delay > 0 {
		select {
		case <-time.After(g.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return fmt.Sprintf("TXN-%s", uuid.NewString()[:8]), nil
}

package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"busline/internal/domain"
)

func TestChargeReturnsTransactionID(t *testing.T) {
	svc := &PaymentService{Gateway: SimGateway{}}

	txID, err := svc.Charge(context.Background(), 1000, "sched-1")
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	if !strings.HasPrefix(txID, "TXN-") {
		t.Fatalf("transaction id = %q, want TXN- prefix", txID)
	}
}

func TestChargeTimesOut(t *testing.T) {
	svc := &PaymentService{
		Gateway: SimGateway{Delay: 200 * time.Millisecond},
		Timeout: 10 * time.Millisecond,
	}

	_, err := svc.Charge(context.Background(), 1000, "sched-1")
	if !domain.IsPayment(err) {
		t.Fatalf("got %v, want payment error", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("error %q does not mention timeout", err.Error())
	}
}

func TestChargeDecline(t *testing.T) {
	svc := &PaymentService{Gateway: declineGateway{}, Timeout: time.Second}

	_, err := svc.Charge(context.Background(), 1000, "sched-1")
	if !domain.IsPayment(err) {
		t.Fatalf("got %v, want payment error", err)
	}
}

func TestChargeRejectsNegativeAmount(t *testing.T) {
	svc := &PaymentService{Gateway: SimGateway{}}

	if _, err := svc.Charge(context.Background(), -1, "sched-1"); !domain.IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
}

package services

import (
	"testing"

	"busline/internal/domain"
	"busline/internal/domain/models"
)

func TestAnalyticsSummary(t *testing.T) {
	f := newBookingFixture(t, 40, 1000)
	svc := AnalyticsService{Store: f.store}

	if _, err := f.svc.CreateBooking(f.user.ID, f.schedule.ID, []string{"1A", "1B"}, models.PassengerDetails{}, "paid"); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	toCancel, err := f.svc.CreateBooking(f.user.ID, f.schedule.ID, []string{"2A"}, models.PassengerDetails{}, "paid")
	if err != nil {
		t.Fatalf("second booking: %v", err)
	}
	if _, err := f.svc.Cancel(domain.Identity{UserID: toCancel.UserID}, toCancel.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	sum, err := svc.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalBookings != 1 || sum.SeatsSold != 2 || sum.RevenueCents != 2000 {
		t.Fatalf("unexpected totals: %+v", sum)
	}
	if sum.ActiveBuses != 1 {
		t.Fatalf("active buses = %d, want 1", sum.ActiveBuses)
	}
	if len(sum.Routes) != 1 || sum.Routes[0].SeatsSold != 2 || sum.Routes[0].RevenueCents != 2000 {
		t.Fatalf("unexpected route stats: %+v", sum.Routes)
	}
}

func TestAnalyticsSummaryEmptyStore(t *testing.T) {
	f := newBookingFixture(t, 40, 1000)
	svc := AnalyticsService{Store: f.store}

	sum, err := svc.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalBookings != 0 || sum.RevenueCents != 0 {
		t.Fatalf("unexpected totals: %+v", sum)
	}
	if sum.ActiveBuses != 1 {
		t.Fatalf("active buses = %d, want 1", sum.ActiveBuses)
	}
}

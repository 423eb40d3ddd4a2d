package state

import (
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/learnhub/internal/model"
)

func TestMonthlyPlanExpiresAfterOneMonth(t *testing.T) {
	clock := newTestClock()
	s := NewSubscriptionStore(newMemWriter(), clock.Now, nil)

	if err := s.Subscribe(model.PlanMonthly); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	sub, ok := s.Subscription()
	if !ok || sub.EndDate == nil {
		t.Fatalf("expected monthly plan with end date, got %+v", sub)
	}
	want := clock.Now().AddDate(0, 1, 0)
	if !sub.EndDate.Equal(want) {
		t.Fatalf("expected end %v, got %v", want, *sub.EndDate)
	}
	if !sub.AutoRenew || !sub.IsActive {
		t.Fatalf("expected active auto-renewing plan, got %+v", sub)
	}
	if !s.IsSubscribed() || !s.IsPremium() || !s.HasPremiumAccess() {
		t.Fatalf("expected premium subscription")
	}

	clock.Advance(want.Sub(clock.Now()))
	if s.IsSubscribed() {
		t.Fatalf("expected plan to lapse at its end date")
	}
	if !s.IsPremium() {
		t.Fatalf("expected IsPremium to follow the plan only")
	}
	if s.HasPremiumAccess() {
		t.Fatalf("expected premium access to end with the plan")
	}
}

func TestYearlyPlan(t *testing.T) {
	clock := newTestClock()
	s := NewSubscriptionStore(newMemWriter(), clock.Now, nil)
	if err := s.Subscribe(model.PlanYearly); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	sub, _ := s.Subscription()
	if want := clock.Now().AddDate(1, 0, 0); sub.EndDate == nil || !sub.EndDate.Equal(want) {
		t.Fatalf("expected end %v, got %v", want, sub.EndDate)
	}
}

func TestFreePlan(t *testing.T) {
	clock := newTestClock()
	s := NewSubscriptionStore(newMemWriter(), clock.Now, nil)
	if err := s.Subscribe(model.PlanFree); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	sub, _ := s.Subscription()
	if sub.EndDate != nil || sub.AutoRenew {
		t.Fatalf("expected open-ended free plan without renewal, got %+v", sub)
	}
	clock.Advance(10 * 365 * 24 * time.Hour)
	if !s.IsSubscribed() || s.IsPremium() {
		t.Fatalf("expected subscribed free plan without premium")
	}
}

func TestSubscribeRejectsUnknownPlan(t *testing.T) {
	w := newMemWriter()
	s := NewSubscriptionStore(w, nil, nil)
	if err := s.Subscribe("weekly"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := s.Subscription(); ok || w.puts != 0 {
		t.Fatalf("expected rejected plan to change nothing")
	}
}

func TestCancelSubscription(t *testing.T) {
	s := NewSubscriptionStore(newMemWriter(), nil, nil)
	s.CancelSubscription()
	if _, ok := s.Subscription(); ok {
		t.Fatalf("expected cancel without a plan to be a no-op")
	}

	if err := s.Subscribe(model.PlanYearly); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	s.CancelSubscription()
	sub, _ := s.Subscription()
	if sub.AutoRenew || !s.IsSubscribed() {
		t.Fatalf("expected cancelled plan to stay active without renewal, got %+v", sub)
	}
	s.UpdateAutoRenew(true)
	if sub, _ := s.Subscription(); !sub.AutoRenew {
		t.Fatalf("expected auto-renew restored")
	}
}

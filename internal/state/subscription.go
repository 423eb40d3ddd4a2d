package state

import (
	"sync"

	"github.com/verte-zerg/learnhub/internal/model"
)

// SubscriptionStore holds the current plan and its validity window.
type SubscriptionStore struct {
	mu    sync.Mutex
	w     Writer
	clock Clock
	logf  Logf
	sub   *model.Subscription
}

type subscriptionRecord struct {
	Subscription *model.Subscription `json:"subscription"`
}

// NewSubscriptionStore constructs a SubscriptionStore with no plan.
func NewSubscriptionStore(w Writer, clock Clock, logf Logf) *SubscriptionStore {
	return &SubscriptionStore{w: w, clock: clock, logf: logf}
}

// Subscribe starts plan now. Monthly plans expire one calendar month later, yearly plans
// one year later, and the free plan never expires. Paid plans auto-renew.
func (s *SubscriptionStore) Subscribe(plan model.Plan) error {
	if err := validateInput(planInput{Plan: string(plan)}); err != nil {
		return err
	}
	start := s.clock.now()
	sub := model.Subscription{
		Plan:      plan,
		StartDate: start,
		IsActive:  true,
		AutoRenew: plan != model.PlanFree,
	}
	switch plan {
	case model.PlanMonthly:
		end := start.AddDate(0, 1, 0)
		sub.EndDate = &end
	case model.PlanYearly:
		end := start.AddDate(1, 0, 0)
		sub.EndDate = &end
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sub = &sub
	s.saveLocked()
	return nil
}

// CancelSubscription stops auto-renewal; the plan stays active until it expires.
func (s *SubscriptionStore) CancelSubscription() {
	s.UpdateAutoRenew(false)
}

// UpdateAutoRenew sets the auto-renew flag of the current plan.
func (s *SubscriptionStore) UpdateAutoRenew(autoRenew bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub == nil || s.sub.AutoRenew == autoRenew {
		return
	}
	sub := *s.sub
	sub.AutoRenew = autoRenew
	s.sub = &sub
	s.saveLocked()
}

// Subscription returns the current plan record.
func (s *SubscriptionStore) Subscription() (model.Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub == nil {
		return model.Subscription{}, false
	}
	return *s.sub, true
}

// IsSubscribed reports whether a plan is active and not past its expiry.
func (s *SubscriptionStore) IsSubscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sub != nil && s.sub.ActiveAt(s.clock.now())
}

// IsPremium reports whether the plan is a paid tier. Expiry is not consulted;
// use HasPremiumAccess to gate paid content.
func (s *SubscriptionStore) IsPremium() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sub != nil && (s.sub.Plan == model.PlanMonthly || s.sub.Plan == model.PlanYearly)
}

// HasPremiumAccess reports whether a paid plan is currently in force.
func (s *SubscriptionStore) HasPremiumAccess() bool {
	return s.IsPremium() && s.IsSubscribed()
}

func (s *SubscriptionStore) saveLocked() {
	putJSON(s.w, KeySubscription, subscriptionRecord{Subscription: s.sub}, s.logf)
}

func (s *SubscriptionStore) restore(raw []byte) error {
	var rec subscriptionRecord
	if err := decodeRecord(KeySubscription, raw, &rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sub = rec.Subscription
	return nil
}

package subscription

import "time"

type PlanType string

const (
	PlanFree PlanType = "free"
	PlanPro  PlanType = "pro"
)

type Subscription struct {
	ID                   string     `json:"id" db:"id"`
	UserID               string     `json:"userId" db:"user_id"`
	StripeCustomerID     string     `json:"stripeCustomerId" db:"stripe_customer_id"`
	StripeSubscriptionID string     `json:"stripeSubscriptionId" db:"stripe_subscription_id"`
	Status               string     `json:"status" db:"status"` // active, inactive, canceled, past_due
	PlanType             PlanType   `json:"planType" db:"plan_type"`
	CurrentPeriodEnd     *time.Time `json:"currentPeriodEnd" db:"current_period_end"`
	CreatedAt            time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsPremium reports whether this subscription currently grants the pro
// entitlement. An expired period means no entitlement even if Stripe has not
// pushed the status change yet.
func (s *Subscription) IsPremium(now time.Time) bool {
	if s == nil {
		return false
	}
	if s.Status != "active" || s.PlanType != PlanPro {
		return false
	}
	if s.CurrentPeriodEnd != nil && s.CurrentPeriodEnd.Before(now) {
		return false
	}
	return true
}

type CheckoutRequest struct {
	PriceID string `json:"priceId"`
}

type CheckoutResponse struct {
	Message     string `json:"message"`
	CheckoutURL string `json:"checkoutUrl,omitempty"`
}

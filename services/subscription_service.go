package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dailyDebugAPI/internal/types/subscription"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubscriptionService owns entitlement lookups and the subscription rows
// synced from Stripe webhooks. Checkout itself is stubbed; only the webhook
// side is real.
type SubscriptionService struct {
	db *pgxpool.Pool
}

func NewSubscriptionService(db *pgxpool.Pool) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// GetSubscription returns the user's subscription row, or a free-plan default
// when none exists.
func (s *SubscriptionService) GetSubscription(ctx context.Context, userID string) (*subscription.Subscription, error) {
	query := `
	SELECT id, user_id, stripe_customer_id, stripe_subscription_id, status, plan_type, current_period_end, created_at, updated_at
	FROM subscriptions
	WHERE user_id = $1
	`

	sub := &subscription.Subscription{}
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.StripeCustomerID,
		&sub.StripeSubscriptionID,
		&sub.Status,
		&sub.PlanType,
		&sub.CurrentPeriodEnd,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &subscription.Subscription{
				UserID:   userID,
				Status:   "inactive",
				PlanType: subscription.PlanFree,
			}, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return sub, nil
}

// IsPremium implements the entitlement lookup for the solve flow. Callers
// fail closed on error, so this never guesses.
func (s *SubscriptionService) IsPremium(ctx context.Context, userID string) (bool, error) {
	sub, err := s.GetSubscription(ctx, userID)
	if err != nil {
		return false, err
	}
	return sub.IsPremium(time.Now()), nil
}

// UpsertSubscription writes the row created when a checkout completes.
func (s *SubscriptionService) UpsertSubscription(ctx context.Context, sub *subscription.Subscription) error {
	now := time.Now()

	query := `
	INSERT INTO subscriptions (id, user_id, stripe_customer_id, stripe_subscription_id, status, plan_type, current_period_end, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	ON CONFLICT (user_id) DO UPDATE SET
		stripe_customer_id = EXCLUDED.stripe_customer_id,
		stripe_subscription_id = EXCLUDED.stripe_subscription_id,
		status = EXCLUDED.status,
		plan_type = EXCLUDED.plan_type,
		current_period_end = EXCLUDED.current_period_end,
		updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.Exec(ctx, query,
		uuid.New().String(),
		sub.UserID,
		sub.StripeCustomerID,
		sub.StripeSubscriptionID,
		sub.Status,
		sub.PlanType,
		sub.CurrentPeriodEnd,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}

// UpdateSubscriptionStatus applies renewal / cancellation events, matched by
// the Stripe subscription id since those events carry no user id.
func (s *SubscriptionService) UpdateSubscriptionStatus(ctx context.Context, stripeSubscriptionID, status string, currentPeriodEnd *time.Time) error {
	result, err := s.db.Exec(ctx, `
	UPDATE subscriptions
	SET status = $1, current_period_end = $2, updated_at = $3
	WHERE stripe_subscription_id = $4
	`, status, currentPeriodEnd, time.Now(), stripeSubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to update subscription status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("subscription %s not found", stripeSubscriptionID)
	}
	return nil
}

// StartCheckout is the stubbed payment path: the real Stripe checkout session
// is not wired yet, so the client gets a coming-soon payload it can toast.
func (s *SubscriptionService) StartCheckout(ctx context.Context, userID, priceID string) (*subscription.CheckoutResponse, error) {
	return &subscription.CheckoutResponse{
		Message: "Checkout is coming soon. Premium hints unlock once billing goes live.",
	}, nil
}

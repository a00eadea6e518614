package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// SubscriptionRepository defines storage operations for Subscription records.
// Lifecycle-critical writes (renewal, retry, cancellation transitions) must
// be issued through the row lock obtained by LockForUpdate, inside a
// Storage.Transaction callback.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entities.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Subscription, error)
	GetByProviderSubscriptionID(ctx context.Context, provider, providerSubscriptionID string) (*entities.Subscription, error)

	// LockForUpdate fetches a subscription with a row lock (SELECT ... FOR
	// UPDATE), for use inside a transaction by the lifecycle engine.
	LockForUpdate(ctx context.Context, id uuid.UUID) (*entities.Subscription, error)

	Update(ctx context.Context, subscription *entities.Subscription) error

	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) (*Page[*entities.Subscription], error)
	ListByStatus(ctx context.Context, status entities.SubscriptionStatus, limit, offset int) (*Page[*entities.Subscription], error)
	ListByPlan(ctx context.Context, planID uuid.UUID, limit, offset int) (*Page[*entities.Subscription], error)

	// ListDueForRenewal returns active/trialing subscriptions whose current
	// period has ended as of asOf, for the lifecycle engine's renewal phase.
	ListDueForRenewal(ctx context.Context, asOf time.Time, limit int) ([]*entities.Subscription, error)

	// ListDueForTrialConversion returns trialing subscriptions whose trial
	// has ended as of asOf.
	ListDueForTrialConversion(ctx context.Context, asOf time.Time, limit int) ([]*entities.Subscription, error)

	// ListDueForRetry returns past_due subscriptions whose LastRetryAt (or,
	// before the first retry, GracePeriodStartedAt) is at or before asOf.
	// The backoff interval for RetryCount is engine configuration rather
	// than a stored column, so the caller applies it, not this query.
	ListDueForRetry(ctx context.Context, asOf time.Time, limit int) ([]*entities.Subscription, error)

	// ListPastGracePeriod returns past_due subscriptions with a non-null
	// GracePeriodStartedAt, candidates for the cancellation phase. Because
	// gracePeriodDays is host-supplied engine configuration rather than a
	// stored column, the actual "has the grace period elapsed" check is
	// performed by the caller against asOf, not by this query.
	ListPastGracePeriod(ctx context.Context, asOf time.Time, limit int) ([]*entities.Subscription, error)

	CountActiveByPlan(ctx context.Context, planID uuid.UUID) (int64, error)
	ExistsActiveForCustomerAndPlan(ctx context.Context, customerID, planID uuid.UUID) (bool, error)
}

// AddOnRepository defines storage operations for AddOn and SubscriptionAddOn
// records.
type AddOnRepository interface {
	Create(ctx context.Context, addOn *entities.AddOn) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.AddOn, error)
	Update(ctx context.Context, addOn *entities.AddOn) error
	ListActive(ctx context.Context, limit, offset int) (*Page[*entities.AddOn], error)

	Attach(ctx context.Context, subAddOn *entities.SubscriptionAddOn) error
	Detach(ctx context.Context, subscriptionID, addOnID uuid.UUID) error
	ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*entities.SubscriptionAddOn, error)
}

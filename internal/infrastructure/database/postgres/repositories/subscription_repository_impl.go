package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// SubscriptionRepositoryImpl implements SubscriptionRepository using GORM.
type SubscriptionRepositoryImpl struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository instance.
func NewSubscriptionRepository(db *gorm.DB) repositories.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, subscription *entities.Subscription) error {
	if err := conn(ctx, r.db).Create(subscription).Error; err != nil {
		logger.Error("Failed to create subscription", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Subscription, error) {
	var subscription entities.Subscription
	if err := conn(ctx, r.db).Where("id = ?", id).First(&subscription).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("subscription")
		}
		logger.Error("Failed to get subscription by ID", err)
		return nil, fmt.Errorf("failed to get subscription by ID: %w", err)
	}
	return &subscription, nil
}

func (r *SubscriptionRepositoryImpl) GetByProviderSubscriptionID(ctx context.Context, provider, providerSubscriptionID string) (*entities.Subscription, error) {
	var subscription entities.Subscription
	column := fmt.Sprintf("provider_subscription_ids->>'%s'", provider)
	if err := conn(ctx, r.db).Where(column+" = ?", providerSubscriptionID).First(&subscription).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("subscription")
		}
		logger.Error("Failed to get subscription by provider subscription ID", err)
		return nil, fmt.Errorf("failed to get subscription by provider subscription ID: %w", err)
	}
	return &subscription, nil
}

func (r *SubscriptionRepositoryImpl) LockForUpdate(ctx context.Context, id uuid.UUID) (*entities.Subscription, error) {
	var subscription entities.Subscription
	if err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&subscription).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("subscription")
		}
		logger.Error("Failed to lock subscription for update", err)
		return nil, fmt.Errorf("failed to lock subscription for update: %w", err)
	}
	return &subscription, nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, subscription *entities.Subscription) error {
	if err := conn(ctx, r.db).Save(subscription).Error; err != nil {
		logger.Error("Failed to update subscription", err)
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) (*repositories.Page[*entities.Subscription], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var subscriptions []*entities.Subscription
	var total int64

	if err := conn(ctx, r.db).Model(&entities.Subscription{}).Where("customer_id = ?", customerID).Count(&total).Error; err != nil {
		logger.Error("Failed to count customer subscriptions", err)
		return nil, fmt.Errorf("failed to count customer subscriptions: %w", err)
	}
	if err := conn(ctx, r.db).Where("customer_id = ?", customerID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&subscriptions).Error; err != nil {
		logger.Error("Failed to list customer subscriptions", err)
		return nil, fmt.Errorf("failed to list customer subscriptions: %w", err)
	}
	return repositories.NewPage(subscriptions, total, limit, offset), nil
}

func (r *SubscriptionRepositoryImpl) ListByStatus(ctx context.Context, status entities.SubscriptionStatus, limit, offset int) (*repositories.Page[*entities.Subscription], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var subscriptions []*entities.Subscription
	var total int64

	if err := conn(ctx, r.db).Model(&entities.Subscription{}).Where("status = ?", status).Count(&total).Error; err != nil {
		logger.Error("Failed to count subscriptions by status", err)
		return nil, fmt.Errorf("failed to count subscriptions by status: %w", err)
	}
	if err := conn(ctx, r.db).Where("status = ?", status).Order("created_at DESC").Limit(limit).Offset(offset).Find(&subscriptions).Error; err != nil {
		logger.Error("Failed to list subscriptions by status", err)
		return nil, fmt.Errorf("failed to list subscriptions by status: %w", err)
	}
	return repositories.NewPage(subscriptions, total, limit, offset), nil
}

func (r *SubscriptionRepositoryImpl) ListByPlan(ctx context.Context, planID uuid.UUID, limit, offset int) (*repositories.Page[*entities.Subscription], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var subscriptions []*entities.Subscription
	var total int64

	if err := conn(ctx, r.db).Model(&entities.Subscription{}).Where("plan_id = ?", planID).Count(&total).Error; err != nil {
		logger.Error("Failed to count subscriptions by plan", err)
		return nil, fmt.Errorf("failed to count subscriptions by plan: %w", err)
	}
	if err := conn(ctx, r.db).Where("plan_id = ?", planID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&subscriptions).Error; err != nil {
		logger.Error("Failed to list subscriptions by plan", err)
		return nil, fmt.Errorf("failed to list subscriptions by plan: %w", err)
	}
	return repositories.NewPage(subscriptions, total, limit, offset), nil
}

func (r *SubscriptionRepositoryImpl) ListDueForRenewal(ctx context.Context, asOf time.Time, limit int) ([]*entities.Subscription, error) {
	var subscriptions []*entities.Subscription
	query := conn(ctx, r.db).Where(
		"status IN ? AND current_period_end <= ?",
		[]entities.SubscriptionStatus{entities.SubscriptionStatusActive, entities.SubscriptionStatusTrialing},
		asOf,
	)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Order("current_period_end ASC").Find(&subscriptions).Error; err != nil {
		logger.Error("Failed to list subscriptions due for renewal", err)
		return nil, fmt.Errorf("failed to list subscriptions due for renewal: %w", err)
	}
	return subscriptions, nil
}

func (r *SubscriptionRepositoryImpl) ListDueForTrialConversion(ctx context.Context, asOf time.Time, limit int) ([]*entities.Subscription, error) {
	var subscriptions []*entities.Subscription
	query := conn(ctx, r.db).Where(
		"status = ? AND trial_end IS NOT NULL AND trial_end <= ?",
		entities.SubscriptionStatusTrialing, asOf,
	)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Order("trial_end ASC").Find(&subscriptions).Error; err != nil {
		logger.Error("Failed to list subscriptions due for trial conversion", err)
		return nil, fmt.Errorf("failed to list subscriptions due for trial conversion: %w", err)
	}
	return subscriptions, nil
}

func (r *SubscriptionRepositoryImpl) ListDueForRetry(ctx context.Context, asOf time.Time, limit int) ([]*entities.Subscription, error) {
	var subscriptions []*entities.Subscription
	query := conn(ctx, r.db).Where(
		"status = ? AND COALESCE(last_retry_at, grace_period_started_at) <= ?",
		entities.SubscriptionStatusPastDue, asOf,
	)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Order("COALESCE(last_retry_at, grace_period_started_at) ASC").Find(&subscriptions).Error; err != nil {
		logger.Error("Failed to list subscriptions due for retry", err)
		return nil, fmt.Errorf("failed to list subscriptions due for retry: %w", err)
	}
	return subscriptions, nil
}

func (r *SubscriptionRepositoryImpl) ListPastGracePeriod(ctx context.Context, asOf time.Time, limit int) ([]*entities.Subscription, error) {
	var subscriptions []*entities.Subscription
	query := conn(ctx, r.db).Where(
		"status = ? AND grace_period_started_at IS NOT NULL",
		entities.SubscriptionStatusPastDue,
	)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Order("grace_period_started_at ASC").Find(&subscriptions).Error; err != nil {
		logger.Error("Failed to list subscriptions past grace period", err)
		return nil, fmt.Errorf("failed to list subscriptions past grace period: %w", err)
	}
	return subscriptions, nil
}

func (r *SubscriptionRepositoryImpl) CountActiveByPlan(ctx context.Context, planID uuid.UUID) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&entities.Subscription{}).
		Where("plan_id = ? AND status IN ?", planID, []entities.SubscriptionStatus{
			entities.SubscriptionStatusActive, entities.SubscriptionStatusTrialing,
		}).Count(&count).Error; err != nil {
		logger.Error("Failed to count active subscriptions by plan", err)
		return 0, fmt.Errorf("failed to count active subscriptions by plan: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepositoryImpl) ExistsActiveForCustomerAndPlan(ctx context.Context, customerID, planID uuid.UUID) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&entities.Subscription{}).
		Where("customer_id = ? AND plan_id = ? AND status IN ?", customerID, planID, []entities.SubscriptionStatus{
			entities.SubscriptionStatusActive, entities.SubscriptionStatusTrialing,
		}).Count(&count).Error; err != nil {
		logger.Error("Failed to check active subscription existence", err)
		return false, fmt.Errorf("failed to check active subscription existence: %w", err)
	}
	return count > 0, nil
}

// AddOnRepositoryImpl implements AddOnRepository using GORM.
type AddOnRepositoryImpl struct {
	db *gorm.DB
}

// NewAddOnRepository creates a new AddOnRepository instance.
func NewAddOnRepository(db *gorm.DB) repositories.AddOnRepository {
	return &AddOnRepositoryImpl{db: db}
}

func (r *AddOnRepositoryImpl) Create(ctx context.Context, addOn *entities.AddOn) error {
	if err := conn(ctx, r.db).Create(addOn).Error; err != nil {
		logger.Error("Failed to create add-on", err)
		return fmt.Errorf("failed to create add-on: %w", err)
	}
	return nil
}

func (r *AddOnRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.AddOn, error) {
	var addOn entities.AddOn
	if err := conn(ctx, r.db).Where("id = ?", id).First(&addOn).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("add_on")
		}
		logger.Error("Failed to get add-on by ID", err)
		return nil, fmt.Errorf("failed to get add-on by ID: %w", err)
	}
	return &addOn, nil
}

func (r *AddOnRepositoryImpl) Update(ctx context.Context, addOn *entities.AddOn) error {
	if err := conn(ctx, r.db).Save(addOn).Error; err != nil {
		logger.Error("Failed to update add-on", err)
		return fmt.Errorf("failed to update add-on: %w", err)
	}
	return nil
}

func (r *AddOnRepositoryImpl) ListActive(ctx context.Context, limit, offset int) (*repositories.Page[*entities.AddOn], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var addOns []*entities.AddOn
	var total int64

	if err := conn(ctx, r.db).Model(&entities.AddOn{}).Where("active = ?", true).Count(&total).Error; err != nil {
		logger.Error("Failed to count active add-ons", err)
		return nil, fmt.Errorf("failed to count active add-ons: %w", err)
	}
	if err := conn(ctx, r.db).Where("active = ?", true).Order("created_at DESC").Limit(limit).Offset(offset).Find(&addOns).Error; err != nil {
		logger.Error("Failed to list active add-ons", err)
		return nil, fmt.Errorf("failed to list active add-ons: %w", err)
	}
	return repositories.NewPage(addOns, total, limit, offset), nil
}

func (r *AddOnRepositoryImpl) Attach(ctx context.Context, subAddOn *entities.SubscriptionAddOn) error {
	if err := conn(ctx, r.db).Create(subAddOn).Error; err != nil {
		logger.Error("Failed to attach add-on to subscription", err)
		return fmt.Errorf("failed to attach add-on to subscription: %w", err)
	}
	return nil
}

func (r *AddOnRepositoryImpl) Detach(ctx context.Context, subscriptionID, addOnID uuid.UUID) error {
	if err := conn(ctx, r.db).Where("subscription_id = ? AND add_on_id = ?", subscriptionID, addOnID).
		Delete(&entities.SubscriptionAddOn{}).Error; err != nil {
		logger.Error("Failed to detach add-on from subscription", err)
		return fmt.Errorf("failed to detach add-on from subscription: %w", err)
	}
	return nil
}

func (r *AddOnRepositoryImpl) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*entities.SubscriptionAddOn, error) {
	var subAddOns []*entities.SubscriptionAddOn
	if err := conn(ctx, r.db).Where("subscription_id = ?", subscriptionID).Find(&subAddOns).Error; err != nil {
		logger.Error("Failed to list subscription add-ons", err)
		return nil, fmt.Errorf("failed to list subscription add-ons: %w", err)
	}
	return subAddOns, nil
}

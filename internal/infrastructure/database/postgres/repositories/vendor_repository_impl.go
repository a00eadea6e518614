package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// VendorRepositoryImpl implements VendorRepository using GORM.
type VendorRepositoryImpl struct {
	db *gorm.DB
}

// NewVendorRepository creates a new VendorRepository instance.
func NewVendorRepository(db *gorm.DB) repositories.VendorRepository {
	return &VendorRepositoryImpl{db: db}
}

func (r *VendorRepositoryImpl) Create(ctx context.Context, vendor *entities.Vendor) error {
	if err := conn(ctx, r.db).Create(vendor).Error; err != nil {
		logger.Error("Failed to create vendor", err)
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	return nil
}

func (r *VendorRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Vendor, error) {
	var vendor entities.Vendor
	if err := conn(ctx, r.db).Where("id = ?", id).First(&vendor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("vendor")
		}
		logger.Error("Failed to get vendor by ID", err)
		return nil, fmt.Errorf("failed to get vendor by ID: %w", err)
	}
	return &vendor, nil
}

func (r *VendorRepositoryImpl) GetByExternalID(ctx context.Context, externalID string) (*entities.Vendor, error) {
	var vendor entities.Vendor
	if err := conn(ctx, r.db).Where("external_id = ?", externalID).First(&vendor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("vendor")
		}
		logger.Error("Failed to get vendor by external ID", err)
		return nil, fmt.Errorf("failed to get vendor by external ID: %w", err)
	}
	return &vendor, nil
}

func (r *VendorRepositoryImpl) Update(ctx context.Context, vendor *entities.Vendor) error {
	if err := conn(ctx, r.db).Save(vendor).Error; err != nil {
		logger.Error("Failed to update vendor", err)
		return fmt.Errorf("failed to update vendor: %w", err)
	}
	return nil
}

func (r *VendorRepositoryImpl) ListActive(ctx context.Context, limit, offset int) (*repositories.Page[*entities.Vendor], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var vendors []*entities.Vendor
	var total int64

	if err := conn(ctx, r.db).Model(&entities.Vendor{}).Where("active = ?", true).Count(&total).Error; err != nil {
		logger.Error("Failed to count active vendors", err)
		return nil, fmt.Errorf("failed to count active vendors: %w", err)
	}
	if err := conn(ctx, r.db).Where("active = ?", true).Order("created_at DESC").Limit(limit).Offset(offset).Find(&vendors).Error; err != nil {
		logger.Error("Failed to list active vendors", err)
		return nil, fmt.Errorf("failed to list active vendors: %w", err)
	}
	return repositories.NewPage(vendors, total, limit, offset), nil
}

// VendorPayoutRepositoryImpl implements VendorPayoutRepository using GORM.
type VendorPayoutRepositoryImpl struct {
	db *gorm.DB
}

// NewVendorPayoutRepository creates a new VendorPayoutRepository instance.
func NewVendorPayoutRepository(db *gorm.DB) repositories.VendorPayoutRepository {
	return &VendorPayoutRepositoryImpl{db: db}
}

func (r *VendorPayoutRepositoryImpl) Create(ctx context.Context, payout *entities.VendorPayout) error {
	if err := conn(ctx, r.db).Create(payout).Error; err != nil {
		logger.Error("Failed to create vendor payout", err)
		return fmt.Errorf("failed to create vendor payout: %w", err)
	}
	return nil
}

func (r *VendorPayoutRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.VendorPayout, error) {
	var payout entities.VendorPayout
	if err := conn(ctx, r.db).Where("id = ?", id).First(&payout).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("vendor_payout")
		}
		logger.Error("Failed to get vendor payout by ID", err)
		return nil, fmt.Errorf("failed to get vendor payout by ID: %w", err)
	}
	return &payout, nil
}

func (r *VendorPayoutRepositoryImpl) Update(ctx context.Context, payout *entities.VendorPayout) error {
	if err := conn(ctx, r.db).Save(payout).Error; err != nil {
		logger.Error("Failed to update vendor payout", err)
		return fmt.Errorf("failed to update vendor payout: %w", err)
	}
	return nil
}

func (r *VendorPayoutRepositoryImpl) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) (*repositories.Page[*entities.VendorPayout], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var payouts []*entities.VendorPayout
	var total int64

	if err := conn(ctx, r.db).Model(&entities.VendorPayout{}).Where("vendor_id = ?", vendorID).Count(&total).Error; err != nil {
		logger.Error("Failed to count vendor payouts", err)
		return nil, fmt.Errorf("failed to count vendor payouts: %w", err)
	}
	if err := conn(ctx, r.db).Where("vendor_id = ?", vendorID).Order("period_start DESC").Limit(limit).Offset(offset).Find(&payouts).Error; err != nil {
		logger.Error("Failed to list vendor payouts", err)
		return nil, fmt.Errorf("failed to list vendor payouts: %w", err)
	}
	return repositories.NewPage(payouts, total, limit, offset), nil
}

func (r *VendorPayoutRepositoryImpl) ListScheduledBefore(ctx context.Context, before time.Time, limit int) ([]*entities.VendorPayout, error) {
	var payouts []*entities.VendorPayout
	query := conn(ctx, r.db).Where("status = ? AND period_end <= ?", entities.VendorPayoutStatusScheduled, before)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Order("period_end ASC").Find(&payouts).Error; err != nil {
		logger.Error("Failed to list scheduled vendor payouts", err)
		return nil, fmt.Errorf("failed to list scheduled vendor payouts: %w", err)
	}
	return payouts, nil
}

func (r *VendorPayoutRepositoryImpl) SumCommissionablePayments(ctx context.Context, vendorID uuid.UUID, periodStart, periodEnd time.Time) (int64, error) {
	var gross int64
	row := conn(ctx, r.db).Model(&entities.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Joins("JOIN subscriptions ON subscriptions.id = payments.subscription_id").
		Joins("JOIN plans ON plans.id = subscriptions.plan_id").
		Where("plans.metadata->>'vendor_id' = ? AND payments.status = ? AND payments.created_at BETWEEN ? AND ?",
			vendorID.String(), entities.PaymentStatusSucceeded, periodStart, periodEnd).
		Row()
	if err := row.Scan(&gross); err != nil {
		logger.Error("Failed to sum commissionable payments", err)
		return 0, fmt.Errorf("failed to sum commissionable payments: %w", err)
	}
	return gross, nil
}

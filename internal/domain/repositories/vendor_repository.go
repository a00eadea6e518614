package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// VendorRepository defines storage operations for Vendor records.
type VendorRepository interface {
	Create(ctx context.Context, vendor *entities.Vendor) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Vendor, error)
	GetByExternalID(ctx context.Context, externalID string) (*entities.Vendor, error)
	Update(ctx context.Context, vendor *entities.Vendor) error
	ListActive(ctx context.Context, limit, offset int) (*Page[*entities.Vendor], error)
}

// VendorPayoutRepository defines storage operations for VendorPayout
// records.
type VendorPayoutRepository interface {
	Create(ctx context.Context, payout *entities.VendorPayout) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.VendorPayout, error)
	Update(ctx context.Context, payout *entities.VendorPayout) error

	ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) (*Page[*entities.VendorPayout], error)
	ListScheduledBefore(ctx context.Context, before time.Time, limit int) ([]*entities.VendorPayout, error)

	// SumCommissionablePayments returns the settled payment total for a
	// vendor over a period, the input to payout aggregation. It does not
	// compute the commission.
	SumCommissionablePayments(ctx context.Context, vendorID uuid.UUID, periodStart, periodEnd time.Time) (gross int64, err error)
}

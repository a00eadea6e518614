package repositories

import (
	"context"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// WebhookEventRepository defines storage operations for WebhookEvent
// records. GetByProviderEventID backs the idempotent-dispatch guarantee:
// callers check for an existing row before processing a delivery.
type WebhookEventRepository interface {
	Create(ctx context.Context, event *entities.WebhookEvent) error
	GetByProviderEventID(ctx context.Context, provider, providerEventID string) (*entities.WebhookEvent, error)
	Update(ctx context.Context, event *entities.WebhookEvent) error

	ListUnprocessed(ctx context.Context, limit int) ([]*entities.WebhookEvent, error)
}

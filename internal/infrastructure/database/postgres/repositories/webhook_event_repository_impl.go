package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// WebhookEventRepositoryImpl implements WebhookEventRepository using GORM.
type WebhookEventRepositoryImpl struct {
	db *gorm.DB
}

// NewWebhookEventRepository creates a new WebhookEventRepository instance.
func NewWebhookEventRepository(db *gorm.DB) repositories.WebhookEventRepository {
	return &WebhookEventRepositoryImpl{db: db}
}

func (r *WebhookEventRepositoryImpl) Create(ctx context.Context, event *entities.WebhookEvent) error {
	if err := conn(ctx, r.db).Create(event).Error; err != nil {
		logger.Error("Failed to create webhook event", err)
		return fmt.Errorf("failed to create webhook event: %w", err)
	}
	return nil
}

func (r *WebhookEventRepositoryImpl) GetByProviderEventID(ctx context.Context, provider, providerEventID string) (*entities.WebhookEvent, error) {
	var event entities.WebhookEvent
	if err := conn(ctx, r.db).Where("provider = ? AND provider_event_id = ?", provider, providerEventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("webhook_event")
		}
		logger.Error("Failed to get webhook event by provider event ID", err)
		return nil, fmt.Errorf("failed to get webhook event by provider event ID: %w", err)
	}
	return &event, nil
}

func (r *WebhookEventRepositoryImpl) Update(ctx context.Context, event *entities.WebhookEvent) error {
	if err := conn(ctx, r.db).Save(event).Error; err != nil {
		logger.Error("Failed to update webhook event", err)
		return fmt.Errorf("failed to update webhook event: %w", err)
	}
	return nil
}

func (r *WebhookEventRepositoryImpl) ListUnprocessed(ctx context.Context, limit int) ([]*entities.WebhookEvent, error) {
	var events []*entities.WebhookEvent
	query := conn(ctx, r.db).Where("status = ?", entities.WebhookEventStatusReceived)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Order("received_at ASC").Find(&events).Error; err != nil {
		logger.Error("Failed to list unprocessed webhook events", err)
		return nil, fmt.Errorf("failed to list unprocessed webhook events: %w", err)
	}
	return events, nil
}

package repositories

import (
	"context"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// IdempotencyKeyRepository defines storage operations for IdempotencyKey
// records backing the idempotent-request guarantee on mutating endpoints.
type IdempotencyKeyRepository interface {
	Get(ctx context.Context, key string) (*entities.IdempotencyKey, error)
	Save(ctx context.Context, record *entities.IdempotencyKey) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// AuditLogRepository defines storage operations for AuditLog records.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *entities.AuditLog) error
	ListByEntity(ctx context.Context, entityType, entityID string, limit, offset int) (*Page[*entities.AuditLog], error)
}

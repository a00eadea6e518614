package entities

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey records the result of a previously-executed mutating
// operation so a retried request with the same key replays the original
// response instead of re-executing the side effect.
type IdempotencyKey struct {
	Key       string    `json:"key" gorm:"primary_key"`
	Operation string    `json:"operation" gorm:"not null"`
	Response  string    `json:"response" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
}

// AuditLog is an append-only record of a single mutation performed against
// a domain entity, for compliance review and incident reconstruction.
type AuditLog struct {
	ID         uuid.UUID              `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EntityType string                 `json:"entity_type" gorm:"not null;index"`
	EntityID   string                 `json:"entity_id" gorm:"not null;index"`
	Action     string                 `json:"action" gorm:"not null;index"`
	ActorType  string                 `json:"actor_type" gorm:"not null"`
	ActorID    *string                `json:"actor_id,omitempty"`
	Before     map[string]interface{} `json:"before,omitempty" gorm:"serializer:json"`
	After      map[string]interface{} `json:"after,omitempty" gorm:"serializer:json"`
	At         time.Time              `json:"at" gorm:"autoCreateTime;index"`
}

package entities

import (
	"time"

	"github.com/google/uuid"
)

// WebhookEventStatus enumerates the processing states of a WebhookEvent.
type WebhookEventStatus string

const (
	WebhookEventStatusReceived     WebhookEventStatus = "received"
	WebhookEventStatusProcessed    WebhookEventStatus = "processed"
	WebhookEventStatusFailed       WebhookEventStatus = "failed"
	WebhookEventStatusDeadLettered WebhookEventStatus = "dead_lettered"
)

// WebhookEvent records an inbound provider notification, keyed by the
// provider's own event id (ProviderEventID) so redelivery of the same id is
// a no-op.
type WebhookEvent struct {
	ID              uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Provider        string             `json:"provider" gorm:"not null;index"`
	ProviderEventID string             `json:"provider_event_id" gorm:"uniqueIndex;not null"`
	Type            string             `json:"type" gorm:"not null;index"`
	Status          WebhookEventStatus `json:"status" gorm:"not null;index"`
	RawPayload      string             `json:"raw_payload" gorm:"type:text"`
	ProcessingError *string            `json:"processing_error,omitempty"`
	Attempts        int                `json:"attempts" gorm:"default:0"`
	ReceivedAt      time.Time          `json:"received_at"`
	ProcessedAt     *time.Time         `json:"processed_at,omitempty"`
	Livemode        bool               `json:"livemode" gorm:"default:false"`
	CreatedAt       time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time          `json:"updated_at" gorm:"autoUpdateTime"`
}

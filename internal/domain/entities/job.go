package entities

import (
	"time"

	"github.com/google/uuid"
)

// JobType enumerates the kinds of deferred action the scheduler drives.
type JobType string

const (
	JobTypeSubscriptionRenewal     JobType = "subscription_renewal"
	JobTypeSubscriptionTrialEnding JobType = "subscription_trial_ending"
	JobTypePaymentRetry            JobType = "payment_retry"
	JobTypeWebhookDelivery         JobType = "webhook_delivery"
	JobTypeInvoiceGeneration       JobType = "invoice_generation"
	JobTypePayoutProcessing        JobType = "payout_processing"
	JobTypeCleanup                 JobType = "cleanup"
)

// JobStatus enumerates the states of a Job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusScheduled JobStatus = "scheduled"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCanceled  JobStatus = "canceled"
)

// JobPriority orders ready jobs within a single scheduling tick. Lower
// values sort first: critical < high < normal < low.
type JobPriority int

const (
	JobPriorityCritical JobPriority = 0
	JobPriorityHigh     JobPriority = 1
	JobPriorityNormal   JobPriority = 2
	JobPriorityLow      JobPriority = 3
)

// Job is a single unit of scheduled or retried background work.
type Job struct {
	ID          uuid.UUID              `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Type        JobType                `json:"type" gorm:"not null;index"`
	Priority    JobPriority            `json:"priority" gorm:"not null;default:2"`
	Status      JobStatus              `json:"status" gorm:"not null;index"`
	Payload     map[string]interface{} `json:"payload" gorm:"serializer:json"`
	ScheduledAt time.Time              `json:"scheduled_at" gorm:"index"`
	StartedAt   *time.Time             `json:"started_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	FailedAt    *time.Time             `json:"failed_at,omitempty"`
	Attempts    int                    `json:"attempts" gorm:"default:0"`
	MaxAttempts int                    `json:"max_attempts" gorm:"not null;default:3"`
	LastError   *string                `json:"last_error,omitempty"`
	Result      map[string]interface{} `json:"result,omitempty" gorm:"serializer:json"`
	CreatedAt   time.Time              `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time              `json:"updated_at" gorm:"autoUpdateTime"`
}

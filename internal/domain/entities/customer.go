package entities

import (
	"time"

	"github.com/google/uuid"
)

// Address represents a billing or shipping address
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CustomerPreferences captures locale/segmentation preferences for a customer
type CustomerPreferences struct {
	Language string `json:"language,omitempty"`
	Segment  string `json:"segment,omitempty"`
	Tier     string `json:"tier,omitempty"`
}

// Customer represents a billable party known to the host application.
// The host's own user identity is carried in ExternalID; Customer is the
// billing-engine's own record, never a copy of host auth data.
type Customer struct {
	ID                uuid.UUID             `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ExternalID        string                `json:"external_id" gorm:"uniqueIndex;not null"`
	Email             string                `json:"email" gorm:"index;not null"`
	Name              *string               `json:"name,omitempty"`
	Phone             *string               `json:"phone,omitempty"`
	Preferences       CustomerPreferences   `json:"preferences" gorm:"embedded;embeddedPrefix:pref_"`
	BillingAddress    *Address              `json:"billing_address,omitempty" gorm:"embedded;embeddedPrefix:billing_"`
	ShippingAddress   *Address              `json:"shipping_address,omitempty" gorm:"embedded;embeddedPrefix:shipping_"`
	TaxID             *string               `json:"tax_id,omitempty"`
	TaxIDType         *string               `json:"tax_id_type,omitempty"`
	ProviderCustomerIDs map[string]string   `json:"provider_customer_ids" gorm:"serializer:json"`
	Metadata          map[string]string     `json:"metadata" gorm:"serializer:json"`
	Livemode          bool                  `json:"livemode" gorm:"default:false"`
	CreatedAt         time.Time             `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time             `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt         *time.Time            `json:"deleted_at,omitempty" gorm:"index"`
}

package models

import "time"

// Subscription statuses as reported by the Shopify billing API. The status
// column mirrors the platform value verbatim; only ACTIVE licenses the widget.
const (
	SubscriptionStatusActive    = "ACTIVE"
	SubscriptionStatusPending   = "PENDING"
	SubscriptionStatusCancelled = "CANCELLED"
	SubscriptionStatusDeclined  = "DECLINED"
	SubscriptionStatusExpired   = "EXPIRED"
	SubscriptionStatusFrozen    = "FROZEN"
)

// Subscription mirrors the current state of a shop's recurring charge.
// The shop column is intentionally not unique: storage allows multiple rows
// and lookups always take the newest by created_at.
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Shop      string    `gorm:"type:varchar(255);not null;index" json:"shop"`
	ChargeID  string    `gorm:"type:varchar(255);not null" json:"charge_id"`
	Status    string    `gorm:"type:varchar(32);not null" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether this row licenses the widget.
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

package models

import "time"

// WebhookEvent persists every delivery from the platform so that repeated
// deliveries of the same event id are detected and not reprocessed.
type WebhookEvent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Topic           string     `gorm:"type:varchar(64);not null;index:ux_webhook_events_topic_event,unique,priority:1" json:"topic"`
	EventID         string     `gorm:"type:varchar(191);not null;index:ux_webhook_events_topic_event,unique,priority:2" json:"event_id"`
	Shop            string     `gorm:"type:varchar(255);not null;index" json:"shop"`
	PayloadJSON     string     `gorm:"type:longtext" json:"payload_json"`
	SignatureValid  bool       `gorm:"default:false" json:"signature_valid"`
	ProcessedAt     *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processing_error"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

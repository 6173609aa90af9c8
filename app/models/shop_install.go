package models

import "time"

// ShopInstall stores the offline Admin API token obtained when a shop
// completes the OAuth install flow. The billing client reads it to talk to
// the shop's Admin GraphQL endpoint.
type ShopInstall struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Shop        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"shop"`
	AccessToken string    `gorm:"type:varchar(255);not null" json:"-"`
	Scope       string    `gorm:"type:varchar(512)" json:"scope"`
	InstalledAt time.Time `gorm:"autoCreateTime" json:"installed_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

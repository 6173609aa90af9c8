package repository

import (
	"github.com/lafayette-apps/sticky-atc/app/models"
)

// ShopSettingsRepository defines the interface for widget settings persistence
type ShopSettingsRepository interface {
	GetByShop(shop string) (*models.ShopSettings, error)
	GetOrCreate(shop string) (*models.ShopSettings, error)
	Upsert(settings *models.ShopSettings, columns ...string) (*models.ShopSettings, error)
}

// SubscriptionRepository defines the interface for the local subscription mirror
type SubscriptionRepository interface {
	LatestByShop(shop string) (*models.Subscription, error)
	FirstByShop(shop string) (*models.Subscription, error)
	Create(sub *models.Subscription) error
	Update(sub *models.Subscription) error
	ListByStatus(status string) ([]models.Subscription, error)
}

// WebhookEventRepository persists webhook deliveries for idempotency
type WebhookEventRepository interface {
	CreateIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkProcessed(id uint, processingError string) error
}

// ShopInstallRepository stores per-shop Admin API tokens
type ShopInstallRepository interface {
	GetByShop(shop string) (*models.ShopInstall, error)
	Upsert(install *models.ShopInstall) error
}

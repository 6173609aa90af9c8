package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Repositories bundles all repository instances
type Repositories struct {
	ShopSettings ShopSettingsRepository
	Subscription SubscriptionRepository
	WebhookEvent WebhookEventRepository
	ShopInstall  ShopInstallRepository
}

// NewRepositories creates all repositories from a single DB handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		ShopSettings: NewShopSettingsRepository(db),
		Subscription: NewSubscriptionRepository(db),
		WebhookEvent: NewWebhookEventRepository(db),
		ShopInstall:  NewShopInstallRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetShopSettingsRepository returns the shop settings repository instance
func (f *Factory) GetShopSettingsRepository() ShopSettingsRepository {
	return f.GetRepositories().ShopSettings
}

// GetSubscriptionRepository returns the subscription repository instance
func (f *Factory) GetSubscriptionRepository() SubscriptionRepository {
	return f.GetRepositories().Subscription
}

// GetWebhookEventRepository returns the webhook event repository instance
func (f *Factory) GetWebhookEventRepository() WebhookEventRepository {
	return f.GetRepositories().WebhookEvent
}

// GetShopInstallRepository returns the shop install repository instance
func (f *Factory) GetShopInstallRepository() ShopInstallRepository {
	return f.GetRepositories().ShopInstall
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("repository factory not initialized - call InitializeFactory first")
	}
	return globalFactory
}

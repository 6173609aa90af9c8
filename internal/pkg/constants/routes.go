package constants

// Static route constants
const (
	AppRoute     = "/app"
	PaywallRoute = "/app/paywall"

	ShopSettingsAPIRoute       = "/api/shop-settings"
	StorefrontSettingsAPIRoute = "/api/storefront-settings"
	LicenseAPIRoute            = "/api/license"
	BillingCreateRoute         = "/api/billing/create"
	BillingCallbackRoute       = "/api/billing/callback"

	SubscriptionsUpdateWebhookRoute = "/webhooks/app/subscriptions_update"
	SubscriptionsUpdateTopic        = "APP_SUBSCRIPTIONS_UPDATE"
)

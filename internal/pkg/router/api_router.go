package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/lafayette-apps/sticky-atc/app/controllers"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        240,
		Expiration: time.Minute,
	}))

	// Public storefront reads: unauthenticated and CORS-open, they are
	// called from arbitrary storefront origins.
	public := api.Group("", cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET",
	}))
	public.Get("/storefront-settings", controllers.HandleStorefrontSettings)
	public.Get("/license", controllers.HandleLicense)

	// Shared-secret HMAC settings API for non-admin callers
	api.Get("/shop-settings", controllers.HandleShopSettingsGet)
	api.Post("/shop-settings", controllers.HandleShopSettingsPost)

	// Billing flow for the admin session. The callback keeps the session
	// gate: the SameSite=None cookie survives the confirmation round-trip,
	// and an expired session re-enters through OAuth.
	api.Get("/billing/create", middleware.RequireShop, controllers.HandleBillingCreate)
	api.Get("/billing/callback", middleware.RequireShop, controllers.HandleBillingCallback)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lafayette-apps/sticky-atc/app/controllers"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/constants"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/middleware"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply ShopContext middleware globally as first middleware
	app.Use(middleware.ShopContextMiddleware)

	// OAuth install flow
	app.Get("/auth", controllers.HandleAuthBegin)
	app.Get("/auth/callback", controllers.HandleAuthCallback)

	// Admin settings surface. The paywall stays reachable for unlicensed
	// shops; everything else behind the billing gate.
	app.Get(constants.PaywallRoute, middleware.RequireShop, controllers.HandlePaywall)
	app.Get(constants.AppRoute, middleware.RequireShop, middleware.RequireActiveSubscription, controllers.HandleAppIndex)
	app.Post(constants.AppRoute+"/settings", middleware.RequireShop, middleware.RequireActiveSubscription, controllers.HandleAppSettingsSave)

	// Platform webhooks (no session, signature-verified in controller)
	app.Post(constants.SubscriptionsUpdateWebhookRoute, controllers.HandleSubscriptionsUpdateWebhook)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

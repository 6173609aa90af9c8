package middleware

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/lafayette-apps/sticky-atc/internal/pkg/billing"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/database"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/env"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/shopctx"
)

// RequireShop ensures an authenticated admin shop session. Unknown callers
// carrying a shop parameter are sent into the OAuth install flow.
func RequireShop(c *fiber.Ctx) error {
	if shopctx.IsAuthenticated(c) {
		return c.Next()
	}

	if shop := c.Query("shop"); shop != "" {
		return c.Redirect("/auth?shop="+url.QueryEscape(shop), fiber.StatusSeeOther)
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":   "unauthorized",
		"message": "admin session required",
	})
}

// RequireActiveSubscription gates protected handlers on the billing mirror.
// Missing shop parameter is a client error, not a redirect; an unlicensed
// shop is redirected to the pricing page instead of reaching the handler.
func RequireActiveSubscription(c *fiber.Ctx) error {
	shop := c.Query("shop")
	if shop == "" {
		shop = shopctx.GetShop(c)
	}
	if shop == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Missing shop parameter")
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	if !svc.IsLicensed(shop) {
		return c.Redirect(PricingURL(shop), fiber.StatusSeeOther)
	}
	return c.Next()
}

// PricingURL resolves the paywall destination for a shop. The default is
// Shopify's managed pick-a-plan page.
func PricingURL(shop string) string {
	if u := env.GetEnv("SHOPIFY_PRICING_URL", ""); u != "" {
		return u
	}
	return fmt.Sprintf("https://admin.shopify.com/store/%s/apps/pricing", shop)
}

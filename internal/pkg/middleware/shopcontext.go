package middleware

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/lafayette-apps/sticky-atc/internal/pkg/env"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/session"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/shopctx"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/shopify"
)

const sessionShopKey = "shop"

// ShopContextMiddleware establishes the admin shop identity for a request.
// A previously established session wins; otherwise a Shopify-signed embedded
// request (query hmac under the API secret) authenticates the shop and
// starts a session. Everything else proceeds unauthenticated.
func ShopContextMiddleware(c *fiber.Ctx) error {
	if shop := session.GetSessionValue(c, sessionShopKey); shop != "" {
		shopctx.SetShopContext(c, shopctx.ShopContext{Shop: shop, Authenticated: true})
		return c.Next()
	}

	query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err == nil && query.Get("hmac") != "" {
		shop := query.Get("shop")
		secret := env.GetEnv("SHOPIFY_API_SECRET", "")
		if shopify.IsValidShopDomain(shop) && shopify.VerifyRequestHMAC(query, secret) {
			_ = session.SetSessionValue(c, sessionShopKey, shop)
			shopctx.SetShopContext(c, shopctx.ShopContext{Shop: shop, Authenticated: true})
			return c.Next()
		}
	}

	shopctx.SetShopContext(c, shopctx.ShopContext{Authenticated: false})
	return c.Next()
}

package shopctx

import "github.com/gofiber/fiber/v2"

// Locals keys set by the shop context middleware
const (
	KeyShopContext   = "SHOP_CONTEXT"
	KeyFromProtected = "FROM_PROTECTED"
	KeyShop          = "SHOP"
)

// ShopContext represents the authenticated shop for an admin request
type ShopContext struct {
	Shop          string `json:"shop"`
	Authenticated bool   `json:"authenticated"`
}

// GetShopContext retrieves the shop context from fiber context.
// Returns an unauthenticated context if none is set.
func GetShopContext(c *fiber.Ctx) ShopContext {
	if ctx := c.Locals(KeyShopContext); ctx != nil {
		return ctx.(ShopContext)
	}
	return ShopContext{Authenticated: false}
}

// SetShopContext stores the shop context on the request
func SetShopContext(c *fiber.Ctx, sc ShopContext) {
	c.Locals(KeyShopContext, sc)
	c.Locals(KeyFromProtected, sc.Authenticated)
	c.Locals(KeyShop, sc.Shop)
}

// IsAuthenticated checks if the current request carries an admin shop session
func IsAuthenticated(c *fiber.Ctx) bool {
	return GetShopContext(c).Authenticated
}

// GetShop returns the current shop domain, or empty string if not authenticated
func GetShop(c *fiber.Ctx) string {
	return GetShopContext(c).Shop
}

package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lafayette-apps/sticky-atc/app/models"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/database"
)

func TestPricingURL(t *testing.T) {
	assert.Equal(t,
		"https://admin.shopify.com/store/demo.myshopify.com/apps/pricing",
		PricingURL("demo.myshopify.com"))

	t.Setenv("SHOPIFY_PRICING_URL", "https://app.example.com/plans")
	assert.Equal(t, "https://app.example.com/plans", PricingURL("demo.myshopify.com"))
}

func setupGateDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection, or each pooled conn would see its own :memory: DB.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Subscription{}, &models.ShopInstall{}))
	database.SetDB(db)
	return db
}

func newGatedApp() *fiber.App {
	app := fiber.New()
	app.Get("/gated", RequireActiveSubscription, func(c *fiber.Ctx) error {
		return c.SendString("through")
	})
	return app
}

func TestRequireActiveSubscription_MissingShopIsClientError(t *testing.T) {
	setupGateDB(t)
	app := newGatedApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/gated", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Missing shop parameter", string(body))
}

func TestRequireActiveSubscription_UnlicensedShopRedirectsToPricing(t *testing.T) {
	db := setupGateDB(t)
	app := newGatedApp()

	// No subscription row at all.
	resp, err := app.Test(httptest.NewRequest("GET", "/gated?shop=fresh.myshopify.com", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, PricingURL("fresh.myshopify.com"), resp.Header.Get("Location"))

	// A cancelled mirror row gates the same way.
	require.NoError(t, db.Create(&models.Subscription{
		Shop:     "lapsed.myshopify.com",
		ChargeID: "gid://shopify/AppSubscription/71",
		Status:   models.SubscriptionStatusCancelled,
	}).Error)

	resp, err = app.Test(httptest.NewRequest("GET", "/gated?shop=lapsed.myshopify.com", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, PricingURL("lapsed.myshopify.com"), resp.Header.Get("Location"))
}

func TestRequireActiveSubscription_ActiveShopReachesHandler(t *testing.T) {
	db := setupGateDB(t)
	app := newGatedApp()

	require.NoError(t, db.Create(&models.Subscription{
		Shop:     "paid.myshopify.com",
		ChargeID: "gid://shopify/AppSubscription/72",
		Status:   models.SubscriptionStatusActive,
	}).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/gated?shop=paid.myshopify.com", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "through", string(body))
}

package controllers

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/lafayette-apps/sticky-atc/app/models"
	"github.com/lafayette-apps/sticky-atc/app/repository"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/constants"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/middleware"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/shopctx"
)

// HandleAppIndex renders the settings page under /app. The settings row is
// created lazily with defaults on first load.
func HandleAppIndex(c *fiber.Ctx) error {
	shop := shopctx.GetShop(c)

	repo := repository.GetGlobalFactory().GetShopSettingsRepository()
	settings, err := repo.GetOrCreate(shop)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load settings")
	}

	return c.Render("app_index", fiber.Map{
		"Shop":     shop,
		"Settings": settings,
		"Corners": []models.Corner{
			models.CornerTopLeft,
			models.CornerTopRight,
			models.CornerBottomLeft,
			models.CornerBottomRight,
		},
		"Flash": flash.Get(c),
	})
}

// HandleAppSettingsSave persists the admin settings form under the session
// shop. The form still posts legacy kebab-case position names; they are
// translated to the canonical corner enum here, at the edge.
func HandleAppSettingsSave(c *fiber.Ctx) error {
	shop := shopctx.GetShop(c)
	redirectTo := constants.AppRoute + "?shop=" + url.QueryEscape(shop)

	corner, ok := models.CornerFromLegacyPosition(c.FormValue("position"))
	if !ok {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Invalid widget position"}).Redirect(redirectTo)
	}

	paddingX, errX := strconv.Atoi(c.FormValue("paddingX", strconv.Itoa(models.DefaultPadding)))
	paddingY, errY := strconv.Atoi(c.FormValue("paddingY", strconv.Itoa(models.DefaultPadding)))
	if errX != nil || errY != nil || paddingX < 0 || paddingY < 0 {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Padding must be a non-negative number"}).Redirect(redirectTo)
	}

	row := &models.ShopSettings{
		Shop:       shop,
		Corner:     corner,
		PaddingX:   paddingX,
		PaddingY:   paddingY,
		IsEnabled:  c.FormValue("isEnabled") == "on",
		ButtonText: c.FormValue("buttonText", models.DefaultButtonText),
	}
	if err := row.Validate(); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Invalid settings"}).Redirect(redirectTo)
	}

	repo := repository.GetGlobalFactory().GetShopSettingsRepository()
	if _, err := repo.Upsert(row); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Failed to save settings"}).Redirect(redirectTo)
	}

	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": "Settings saved successfully!"}).Redirect(redirectTo)
}

// HandlePaywall renders the plan-required page for unlicensed shops.
func HandlePaywall(c *fiber.Ctx) error {
	shop := shopctx.GetShop(c)
	if shop == "" {
		shop = c.Query("shop")
	}

	return c.Render("paywall", fiber.Map{
		"Shop":       shop,
		"PricingURL": middleware.PricingURL(shop),
	})
}

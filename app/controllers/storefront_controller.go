package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lafayette-apps/sticky-atc/app/repository"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/billing"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/database"
)

// HandleStorefrontSettings serves GET /api/storefront-settings, the
// unauthenticated settings read used by the storefront widget. Shops without
// a row (and any lookup failure) get a uniform disabled-default payload so
// the widget script never has to handle an error shape.
func HandleStorefrontSettings(c *fiber.Ctx) error {
	shop := c.Query("shop")
	if shop == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing shop parameter"})
	}

	repo := repository.GetGlobalFactory().GetShopSettingsRepository()
	settings, err := repo.GetByShop(shop)
	if err != nil {
		return c.JSON(fiber.Map{"data": fiber.Map{"isEnabled": false}})
	}
	return c.JSON(fiber.Map{"data": settings})
}

// HandleLicense serves GET /api/license, the public licensing read. Any
// ambiguity resolves to inactive; only a missing shop parameter is an error.
func HandleLicense(c *fiber.Ctx) error {
	shop := c.Query("shop")
	if shop == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"active": false,
			"error":  "Missing shop parameter",
		})
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	return c.JSON(fiber.Map{"active": svc.IsLicensed(shop)})
}

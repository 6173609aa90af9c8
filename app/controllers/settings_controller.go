package controllers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/lafayette-apps/sticky-atc/app/models"
	"github.com/lafayette-apps/sticky-atc/app/repository"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/env"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/settingshmac"
)

// shopSettingsHMACSecret resolves the shared secret at request time so the
// server fails closed when it is unset, never falling back to unauthenticated.
func shopSettingsHMACSecret() string {
	return env.GetEnv("SHOP_SETTINGS_HMAC_SECRET", "")
}

// HandleShopSettingsGet serves GET /api/shop-settings for HMAC-authenticated
// callers. The signature covers the canonical "shop=<value>" string.
func HandleShopSettingsGet(c *fiber.Ctx) error {
	shop := c.Query("shop")
	if shop == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing shop parameter"})
	}

	secret := shopSettingsHMACSecret()
	if secret == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server misconfigured: missing HMAC secret"})
	}

	if !settingshmac.Verify(settingshmac.CanonicalShopQuery(shop), c.Get(settingshmac.HeaderName), secret) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid HMAC signature"})
	}

	repo := repository.GetGlobalFactory().GetShopSettingsRepository()
	settings, err := repo.GetByShop(shop)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Settings not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load settings"})
	}
	return c.JSON(settings)
}

// shopSettingsUpdate is the POST body; pointer fields distinguish "absent"
// from zero so the upsert touches only the provided fields.
type shopSettingsUpdate struct {
	Shop       string  `json:"shop"`
	Corner     *string `json:"corner"`
	PaddingX   *int    `json:"paddingX"`
	PaddingY   *int    `json:"paddingY"`
	IsEnabled  *bool   `json:"isEnabled"`
	ButtonText *string `json:"buttonText"`
}

var errInvalidSettingsFields = errors.New("missing or invalid fields")

// applySettingsUpdate maps the provided fields onto a default row and returns
// the DB columns to touch. Omitted fields stay out of the column list so the
// upsert leaves their stored values alone.
func applySettingsUpdate(in shopSettingsUpdate) (*models.ShopSettings, []string, error) {
	row := models.DefaultShopSettings(in.Shop)
	var columns []string

	if in.Corner != nil {
		if !models.IsValidCorner(*in.Corner) {
			return nil, nil, errInvalidSettingsFields
		}
		row.Corner = models.Corner(*in.Corner)
		columns = append(columns, "corner")
	}
	if in.PaddingX != nil {
		if *in.PaddingX < 0 {
			return nil, nil, errInvalidSettingsFields
		}
		row.PaddingX = *in.PaddingX
		columns = append(columns, "padding_x")
	}
	if in.PaddingY != nil {
		if *in.PaddingY < 0 {
			return nil, nil, errInvalidSettingsFields
		}
		row.PaddingY = *in.PaddingY
		columns = append(columns, "padding_y")
	}
	if in.IsEnabled != nil {
		row.IsEnabled = *in.IsEnabled
		columns = append(columns, "is_enabled")
	}
	if in.ButtonText != nil {
		row.ButtonText = *in.ButtonText
		columns = append(columns, "button_text")
	}
	if len(columns) == 0 {
		return nil, nil, errInvalidSettingsFields
	}
	return row, columns, nil
}

// HandleShopSettingsPost serves POST /api/shop-settings. The signature
// covers the raw JSON body bytes, byte for byte.
func HandleShopSettingsPost(c *fiber.Ctx) error {
	secret := shopSettingsHMACSecret()
	if secret == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server misconfigured: missing HMAC secret"})
	}

	body := c.Body()
	if !settingshmac.Verify(body, c.Get(settingshmac.HeaderName), secret) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid HMAC signature"})
	}

	var in shopSettingsUpdate
	if err := json.Unmarshal(body, &in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if in.Shop == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing shop parameter"})
	}

	row, columns, err := applySettingsUpdate(in)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing or invalid fields"})
	}

	repo := repository.GetGlobalFactory().GetShopSettingsRepository()
	updated, err := repo.Upsert(row, columns...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save settings"})
	}
	return c.JSON(updated)
}

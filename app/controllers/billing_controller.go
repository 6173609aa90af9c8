package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lafayette-apps/sticky-atc/app/models"
	"github.com/lafayette-apps/sticky-atc/app/repository"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/billing"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/constants"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/database"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/env"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/shopctx"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/shopify"
)

// HandleBillingCreate serves GET /api/billing/create for the admin session.
// It starts a recurring charge and redirects to the platform's confirmation
// URL; platform errors are surfaced with the raw upstream payload.
func HandleBillingCreate(c *fiber.Ctx) error {
	shop := shopctx.GetShop(c)
	if shop == "" {
		shop = c.Query("shop")
	}
	if shop == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing shop parameter"})
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	confirmationURL, err := svc.CreateSubscription(ctx, shop)
	if err != nil {
		resp := fiber.Map{"error": "Failed to create subscription"}
		var platformErr *shopify.PlatformError
		if errors.As(err, &platformErr) {
			resp["details"] = json.RawMessage(platformErr.Raw)
		} else {
			resp["details"] = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}

	return c.Redirect(confirmationURL, fiber.StatusSeeOther)
}

// HandleBillingCallback serves GET /api/billing/callback, the return leg of
// the confirmation flow. It mirrors the charge's current status locally and
// sends the merchant back into the admin app.
func HandleBillingCallback(c *fiber.Ctx) error {
	shop := c.Query("shop")
	chargeID := c.Query("charge_id")
	if chargeID == "" {
		chargeID = c.Query("id")
	}
	if shop == "" || chargeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing shop or charge_id"})
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := svc.ConfirmCallback(ctx, shop, chargeID); err != nil {
		if errors.Is(err, shopify.ErrSubscriptionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Subscription not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to confirm subscription", "message": err.Error()})
	}

	return c.Redirect(constants.AppRoute+"?shop="+url.QueryEscape(shop), fiber.StatusSeeOther)
}

// subscriptionsUpdatePayload accepts both payload shapes Shopify has shipped
// for the subscriptions update topic.
type subscriptionsUpdatePayload struct {
	ID              json.Number `json:"id"`
	Status          string      `json:"status"`
	AppSubscription *struct {
		ID     string `json:"admin_graphql_api_id"`
		Status string `json:"status"`
	} `json:"app_subscription"`
}

func (p *subscriptionsUpdatePayload) status() string {
	if p.Status != "" {
		return p.Status
	}
	if p.AppSubscription != nil {
		return p.AppSubscription.Status
	}
	return ""
}

// HandleSubscriptionsUpdateWebhook serves the platform-signed webhook
// POST /webhooks/app/subscriptions_update. Every delivery is persisted for
// idempotency before processing; a status change is applied in place iff a
// mirror row already exists for the shop.
func HandleSubscriptionsUpdateWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	shop := strings.TrimSpace(c.Get("X-Shopify-Shop-Domain"))
	eventID := strings.TrimSpace(c.Get("X-Shopify-Webhook-Id"))
	if eventID == "" {
		eventID = uuid.NewString()
	}
	signature := c.Get("X-Shopify-Hmac-Sha256")
	secret := env.GetEnv("SHOPIFY_API_SECRET", "")

	signatureValid := shopify.VerifyWebhookHMAC(rawBody, signature, secret)

	events := repository.GetGlobalFactory().GetWebhookEventRepository()
	created, stored, err := events.CreateIfNotExists(&models.WebhookEvent{
		Topic:          constants.SubscriptionsUpdateTopic,
		EventID:        eventID,
		Shop:           shop,
		PayloadJSON:    string(rawBody),
		SignatureValid: signatureValid,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	// A known event id only short-circuits when the earlier delivery was
	// applied cleanly. The platform retries failed deliveries under the same
	// id; acknowledging those as duplicates would drop the update for good.
	if !created && stored.ProcessedAt != nil && stored.ProcessingError == "" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
	}
	if !signatureValid {
		_ = events.MarkProcessed(stored.ID, "invalid webhook signature")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}

	var payload subscriptionsUpdatePayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		_ = events.MarkProcessed(stored.ID, "invalid payload: "+err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	status := payload.status()
	if shop == "" || status == "" {
		// Nothing applicable to mirror; acknowledge so the platform stops retrying
		_ = events.MarkProcessed(stored.ID, "")
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	if err := svc.ApplyStatusUpdate(shop, status); err != nil {
		_ = events.MarkProcessed(stored.ID, err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "subscription_sync_failed"})
	}

	_ = events.MarkProcessed(stored.ID, "")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

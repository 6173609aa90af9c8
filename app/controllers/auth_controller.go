package controllers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lafayette-apps/sticky-atc/app/models"
	"github.com/lafayette-apps/sticky-atc/app/repository"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/constants"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/env"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/session"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/shopify"
)

const oauthStateSessionKey = "shopify_oauth_state"

// HandleAuthBegin starts the OAuth install flow for a shop.
func HandleAuthBegin(c *fiber.Ctx) error {
	shop := strings.ToLower(strings.TrimSpace(c.Query("shop")))
	if !shopify.IsValidShopDomain(shop) {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid shop parameter")
	}

	state, err := generateOAuthState(24)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to generate OAuth state")
	}
	if err := session.SetSessionValue(c, oauthStateSessionKey, state); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to store OAuth state")
	}

	cfg := shopify.NewOAuthConfigFromEnv()
	authorizeURL, err := cfg.AuthorizeURL(shop, state)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("OAuth is not configured")
	}
	return c.Redirect(authorizeURL, fiber.StatusSeeOther)
}

// HandleAuthCallback completes the install: it verifies the signed query,
// exchanges the code for an offline token, stores it, registers the
// subscription webhook and drops the merchant into the admin app.
func HandleAuthCallback(c *fiber.Ctx) error {
	query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid callback query")
	}

	secret := env.GetEnv("SHOPIFY_API_SECRET", "")
	if !shopify.VerifyRequestHMAC(query, secret) {
		return c.Status(fiber.StatusUnauthorized).SendString("Invalid HMAC signature")
	}

	shop := strings.ToLower(strings.TrimSpace(query.Get("shop")))
	if !shopify.IsValidShopDomain(shop) {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid shop parameter")
	}

	expectedState := session.GetSessionValue(c, oauthStateSessionKey)
	if expectedState == "" || expectedState != query.Get("state") {
		return c.Status(fiber.StatusUnauthorized).SendString("OAuth state mismatch")
	}

	cfg := shopify.NewOAuthConfigFromEnv()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	token, scope, err := cfg.ExchangeCode(ctx, shop, query.Get("code"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Token exchange failed")
	}

	installs := repository.GetGlobalFactory().GetShopInstallRepository()
	if err := installs.Upsert(&models.ShopInstall{
		Shop:        shop,
		AccessToken: token,
		Scope:       scope,
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to store install")
	}

	// Best effort: a missed registration only delays status mirroring until
	// the next install or manual re-register.
	appURL := strings.TrimRight(env.GetEnv("SHOPIFY_APP_URL", ""), "/")
	client := shopify.NewClient(shop, token)
	if err := client.RegisterWebhook(ctx, constants.SubscriptionsUpdateTopic, appURL+constants.SubscriptionsUpdateWebhookRoute); err != nil {
		log.Printf("webhook registration failed for %s: %v", shop, err)
	}

	_ = session.SetSessionValue(c, "shop", shop)
	return c.Redirect(constants.AppRoute+"?shop="+url.QueryEscape(shop), fiber.StatusSeeOther)
}

func generateOAuthState(size int) (string, error) {
	if size < 16 {
		size = 16
	}
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lafayette-apps/sticky-atc/internal/pkg/env"
)

// OAuthConfig holds the app credentials for the install flow.
type OAuthConfig struct {
	APIKey      string
	APISecret   string
	Scopes      string
	RedirectURI string

	// TokenURL overrides the shop-derived token endpoint; used by tests.
	TokenURL string

	HTTPClient *http.Client
}

// NewOAuthConfigFromEnv reads the app credentials from the environment.
func NewOAuthConfigFromEnv() *OAuthConfig {
	base := strings.TrimRight(env.GetEnv("SHOPIFY_APP_URL", ""), "/")
	redirectURI := strings.TrimSpace(env.GetEnv("SHOPIFY_REDIRECT_URI", ""))
	if redirectURI == "" && base != "" {
		redirectURI = base + "/auth/callback"
	}

	return &OAuthConfig{
		APIKey:      strings.TrimSpace(env.GetEnv("SHOPIFY_API_KEY", "")),
		APISecret:   strings.TrimSpace(env.GetEnv("SHOPIFY_API_SECRET", "")),
		Scopes:      strings.TrimSpace(env.GetEnv("SHOPIFY_SCOPES", "write_products")),
		RedirectURI: redirectURI,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// AuthorizeURL builds the /admin/oauth/authorize redirect for a shop.
func (o *OAuthConfig) AuthorizeURL(shop, state string) (string, error) {
	if o.APIKey == "" {
		return "", errors.New("SHOPIFY_API_KEY is not configured")
	}
	if o.RedirectURI == "" {
		return "", errors.New("SHOPIFY_REDIRECT_URI is not configured")
	}
	if !IsValidShopDomain(shop) {
		return "", fmt.Errorf("invalid shop domain: %q", shop)
	}

	q := url.Values{}
	q.Set("client_id", o.APIKey)
	q.Set("scope", o.Scopes)
	q.Set("redirect_uri", o.RedirectURI)
	q.Set("state", state)
	return fmt.Sprintf("https://%s/admin/oauth/authorize?%s", shop, q.Encode()), nil
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// ExchangeCode trades an OAuth code for the shop's offline access token.
func (o *OAuthConfig) ExchangeCode(ctx context.Context, shop, code string) (accessToken, scope string, err error) {
	if o.APIKey == "" || o.APISecret == "" {
		return "", "", errors.New("SHOPIFY_API_KEY/SHOPIFY_API_SECRET are not configured")
	}
	if strings.TrimSpace(code) == "" {
		return "", "", errors.New("oauth code is required")
	}

	tokenURL := o.TokenURL
	if tokenURL == "" {
		tokenURL = fmt.Sprintf("https://%s/admin/oauth/access_token", shop)
	}

	form := url.Values{}
	form.Set("client_id", o.APIKey)
	form.Set("client_secret", o.APISecret)
	form.Set("code", strings.TrimSpace(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient().Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("shopify token exchange failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out accessTokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", "", err
	}
	if out.AccessToken == "" {
		return "", "", errors.New("shopify token exchange returned no access token")
	}
	return out.AccessToken, out.Scope, nil
}

func (o *OAuthConfig) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return http.DefaultClient
}

const webhookSubscriptionCreateMutation = `
mutation webhookSubscriptionCreate($topic: WebhookSubscriptionTopic!, $webhookSubscription: WebhookSubscriptionInput!) {
  webhookSubscriptionCreate(topic: $topic, webhookSubscription: $webhookSubscription) {
    webhookSubscription {
      id
    }
    userErrors {
      field
      message
    }
  }
}
`

// RegisterWebhook subscribes the app to a webhook topic on this shop.
// Re-registering an existing subscription is reported as a userError by the
// platform and treated as success.
func (c *Client) RegisterWebhook(ctx context.Context, topic, address string) error {
	data, raw, err := c.GraphQL(ctx, webhookSubscriptionCreateMutation, map[string]interface{}{
		"topic": topic,
		"webhookSubscription": map[string]interface{}{
			"callbackUrl": address,
			"format":      "JSON",
		},
	})
	if err != nil {
		return err
	}

	var out struct {
		WebhookSubscriptionCreate struct {
			WebhookSubscription *struct {
				ID string `json:"id"`
			} `json:"webhookSubscription"`
			UserErrors []struct {
				Message string `json:"message"`
			} `json:"userErrors"`
		} `json:"webhookSubscriptionCreate"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("webhookSubscriptionCreate decode failed: %w", err)
	}
	if out.WebhookSubscriptionCreate.WebhookSubscription != nil {
		return nil
	}
	for _, ue := range out.WebhookSubscriptionCreate.UserErrors {
		if strings.Contains(strings.ToLower(ue.Message), "taken") {
			// Topic already registered for this shop
			return nil
		}
	}
	return &PlatformError{
		Message: "webhookSubscriptionCreate failed",
		Raw:     json.RawMessage(raw),
	}
}

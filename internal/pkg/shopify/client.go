package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lafayette-apps/sticky-atc/internal/pkg/env"
)

const defaultAPIVersion = "2024-10"

// PlatformError carries the raw upstream payload so billing failures can be
// diagnosed from the response body instead of being swallowed.
type PlatformError struct {
	Message string
	Raw     json.RawMessage
}

func (e *PlatformError) Error() string {
	return e.Message
}

// Client talks to one shop's Admin GraphQL API using its offline token.
type Client struct {
	Shop        string
	AccessToken string
	APIVersion  string

	// GraphQLURL overrides the shop-derived endpoint; used by tests.
	GraphQLURL string

	HTTPClient *http.Client
}

// NewClient creates an Admin API client for a shop with a stored token.
func NewClient(shop, accessToken string) *Client {
	return &Client{
		Shop:        strings.TrimSpace(shop),
		AccessToken: strings.TrimSpace(accessToken),
		APIVersion:  strings.TrimSpace(env.GetEnv("SHOPIFY_API_VERSION", defaultAPIVersion)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) endpoint() string {
	if c.GraphQLURL != "" {
		return c.GraphQLURL
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.Shop, c.APIVersion)
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

// GraphQL executes a query against the shop's Admin API and returns the data
// payload plus the raw response body for diagnostics.
func (c *Client) GraphQL(ctx context.Context, query string, variables map[string]interface{}) (json.RawMessage, []byte, error) {
	if c.AccessToken == "" {
		return nil, nil, errors.New("shopify client has no access token")
	}

	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.AccessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, body, &PlatformError{
			Message: fmt.Sprintf("shopify graphql request failed: status=%d", resp.StatusCode),
			Raw:     json.RawMessage(body),
		}
	}

	var out graphqlResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, body, fmt.Errorf("shopify graphql response decode failed: %w", err)
	}
	if len(out.Errors) > 0 && string(out.Errors) != "null" {
		return out.Data, body, &PlatformError{
			Message: "shopify graphql returned errors",
			Raw:     json.RawMessage(body),
		}
	}
	return out.Data, body, nil
}

const appSubscriptionCreateMutation = `
mutation appSubscriptionCreate($name: String!, $returnUrl: URL!, $test: Boolean, $lineItems: [AppSubscriptionLineItemInput!]!) {
  appSubscriptionCreate(
    name: $name
    returnUrl: $returnUrl
    test: $test
    lineItems: $lineItems
  ) {
    confirmationUrl
    userErrors {
      field
      message
    }
    appSubscription {
      id
      status
    }
  }
}
`

// AppSubscriptionCreateInput names the recurring charge to start.
type AppSubscriptionCreateInput struct {
	Name      string
	ReturnURL string
	Test      bool
	Amount    float64
	Currency  string
}

// AppSubscriptionCreate starts a 30-day recurring charge and returns the
// confirmation URL the merchant must visit. A platform-reported userError
// surfaces as a PlatformError with the raw payload; no URL is ever invented.
func (c *Client) AppSubscriptionCreate(ctx context.Context, in AppSubscriptionCreateInput) (string, error) {
	variables := map[string]interface{}{
		"name":      in.Name,
		"returnUrl": in.ReturnURL,
		"test":      in.Test,
		"lineItems": []map[string]interface{}{
			{
				"plan": map[string]interface{}{
					"appRecurringPricingDetails": map[string]interface{}{
						"price": map[string]interface{}{
							"amount":       in.Amount,
							"currencyCode": in.Currency,
						},
						"interval": "EVERY_30_DAYS",
					},
				},
			},
		},
	}

	data, raw, err := c.GraphQL(ctx, appSubscriptionCreateMutation, variables)
	if err != nil {
		return "", err
	}

	var out struct {
		AppSubscriptionCreate struct {
			ConfirmationURL string `json:"confirmationUrl"`
			UserErrors      []struct {
				Field   []string `json:"field"`
				Message string   `json:"message"`
			} `json:"userErrors"`
		} `json:"appSubscriptionCreate"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("appSubscriptionCreate decode failed: %w", err)
	}

	if url := out.AppSubscriptionCreate.ConfirmationURL; url != "" {
		return url, nil
	}
	return "", &PlatformError{
		Message: "appSubscriptionCreate returned no confirmation URL",
		Raw:     json.RawMessage(raw),
	}
}

const appSubscriptionQuery = `
  query appSubscription($id: ID!) {
    appSubscription: node(id: $id) {
      ... on AppSubscription {
        id
        status
        name
        createdAt
        currentPeriodEnd
      }
    }
  }
`

// AppSubscription is the platform's view of a recurring charge.
type AppSubscription struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	Name             string `json:"name"`
	CreatedAt        string `json:"createdAt"`
	CurrentPeriodEnd string `json:"currentPeriodEnd"`
}

// ErrSubscriptionNotFound is returned when the platform knows no charge with
// the given id.
var ErrSubscriptionNotFound = errors.New("app subscription not found")

// GetAppSubscription looks up the current status of a charge by id. Numeric
// charge ids from the billing callback are widened to the GraphQL gid form.
func (c *Client) GetAppSubscription(ctx context.Context, chargeID string) (*AppSubscription, error) {
	data, _, err := c.GraphQL(ctx, appSubscriptionQuery, map[string]interface{}{
		"id": SubscriptionGID(chargeID),
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		AppSubscription *AppSubscription `json:"appSubscription"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("appSubscription decode failed: %w", err)
	}
	if out.AppSubscription == nil || out.AppSubscription.ID == "" {
		return nil, ErrSubscriptionNotFound
	}
	return out.AppSubscription, nil
}

// SubscriptionGID converts a numeric charge id to the GraphQL global id.
// Ids already in gid form pass through unchanged.
func SubscriptionGID(chargeID string) string {
	if strings.HasPrefix(chargeID, "gid://") {
		return chargeID
	}
	return "gid://shopify/AppSubscription/" + chargeID
}

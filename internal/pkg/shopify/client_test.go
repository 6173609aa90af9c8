package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient("demo.myshopify.com", "shpat_test_token")
	client.GraphQLURL = srv.URL
	return client
}

func TestAppSubscriptionCreate_ReturnsConfirmationURL(t *testing.T) {
	var gotToken string
	var gotReq graphqlRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"appSubscriptionCreate": {
					"confirmationUrl": "https://demo.myshopify.com/admin/charges/123/confirm",
					"userErrors": [],
					"appSubscription": {"id": "gid://shopify/AppSubscription/123", "status": "PENDING"}
				}
			}
		}`))
	})

	url, err := client.AppSubscriptionCreate(context.Background(), AppSubscriptionCreateInput{
		Name:      "Sticky Add to Cart Subscription",
		ReturnURL: "https://app.example.com/api/billing/callback?shop=demo.myshopify.com",
		Test:      true,
		Amount:    5.0,
		Currency:  "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://demo.myshopify.com/admin/charges/123/confirm", url)
	assert.Equal(t, "shpat_test_token", gotToken)

	assert.Contains(t, gotReq.Query, "appSubscriptionCreate")
	assert.Equal(t, "Sticky Add to Cart Subscription", gotReq.Variables["name"])
	assert.Equal(t, true, gotReq.Variables["test"])
}

func TestAppSubscriptionCreate_UserErrorSurfacesRawPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"appSubscriptionCreate": {
					"confirmationUrl": null,
					"userErrors": [{"field": ["name"], "message": "Name can't be blank"}]
				}
			}
		}`))
	})

	_, err := client.AppSubscriptionCreate(context.Background(), AppSubscriptionCreateInput{})
	require.Error(t, err)

	var perr *PlatformError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, string(perr.Raw), "Name can't be blank")
}

func TestAppSubscriptionCreate_HTTPErrorIsPlatformError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":"Invalid API key or access token"}`))
	})

	_, err := client.AppSubscriptionCreate(context.Background(), AppSubscriptionCreateInput{})
	require.Error(t, err)

	var perr *PlatformError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, string(perr.Raw), "Invalid API key")
}

func TestGetAppSubscription(t *testing.T) {
	var gotVars map[string]interface{}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotVars = req.Variables
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"appSubscription": {
					"id": "gid://shopify/AppSubscription/123",
					"status": "ACTIVE",
					"name": "Sticky Add to Cart Subscription"
				}
			}
		}`))
	})

	sub, err := client.GetAppSubscription(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", sub.Status)
	assert.Equal(t, "gid://shopify/AppSubscription/123", gotVars["id"])
}

func TestGetAppSubscription_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"appSubscription": null}}`))
	})

	_, err := client.GetAppSubscription(context.Background(), "999")
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestGraphQL_RequiresAccessToken(t *testing.T) {
	client := NewClient("demo.myshopify.com", "")
	_, _, err := client.GraphQL(context.Background(), "{ shop { name } }", nil)
	assert.Error(t, err)
}

func TestSubscriptionGID(t *testing.T) {
	assert.Equal(t, "gid://shopify/AppSubscription/42", SubscriptionGID("42"))
	assert.Equal(t, "gid://shopify/AppSubscription/42", SubscriptionGID("gid://shopify/AppSubscription/42"))
}

package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signQuery(query url.Values, secret string) string {
	// Mirror Shopify's scheme: drop hmac/signature, sort keys, join k=v with &.
	clone := url.Values{}
	for k, v := range query {
		if k == "hmac" || k == "signature" {
			continue
		}
		clone[k] = v
	}
	keys := make([]string, 0, len(clone))
	for k := range clone {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	message := ""
	for i, k := range keys {
		if i > 0 {
			message += "&"
		}
		message += k + "=" + clone.Get(k)
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyRequestHMAC(t *testing.T) {
	secret := "api-secret"
	query := url.Values{
		"shop":      {"demo.myshopify.com"},
		"timestamp": {"1700000000"},
		"host":      {"YWRtaW4uc2hvcGlmeS5jb20"},
	}
	query.Set("hmac", signQuery(query, secret))

	assert.True(t, VerifyRequestHMAC(query, secret))
	assert.False(t, VerifyRequestHMAC(query, "wrong-secret"))

	tampered := url.Values{}
	for k, v := range query {
		tampered[k] = v
	}
	tampered.Set("shop", "evil.myshopify.com")
	assert.False(t, VerifyRequestHMAC(tampered, secret))
}

func TestVerifyRequestHMAC_MissingOrMalformed(t *testing.T) {
	query := url.Values{"shop": {"demo.myshopify.com"}}
	assert.False(t, VerifyRequestHMAC(query, "secret"))

	query.Set("hmac", "zz-not-hex")
	assert.False(t, VerifyRequestHMAC(query, "secret"))

	query.Set("hmac", signQuery(query, "secret"))
	assert.False(t, VerifyRequestHMAC(query, ""))
}

func TestVerifyWebhookHMAC(t *testing.T) {
	body := []byte(`{"app_subscription":{"status":"CANCELLED"}}`)
	secret := "api-secret"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.True(t, VerifyWebhookHMAC(body, sig, secret))
	assert.False(t, VerifyWebhookHMAC(append(body, ' '), sig, secret))
	assert.False(t, VerifyWebhookHMAC(body, sig, "wrong-secret"))
	assert.False(t, VerifyWebhookHMAC(body, "", secret))
	assert.False(t, VerifyWebhookHMAC(body, "!!!not-base64!!!", secret))
	assert.False(t, VerifyWebhookHMAC(body, sig, ""))
}

func TestIsValidShopDomain(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "demo.myshopify.com", want: true},
		{in: "demo-store-2.myshopify.com", want: true},
		{in: "  Demo.MyShopify.com  ", want: true},
		{in: ".myshopify.com", want: false},
		{in: "demo.example.com", want: false},
		{in: "demo.myshopify.com.evil.com", want: false},
		{in: "de mo.myshopify.com", want: false},
		{in: "demo$.myshopify.com", want: false},
		{in: "", want: false},
	}

	for _, tt := range tests {
		if got := IsValidShopDomain(tt.in); got != tt.want {
			t.Fatalf("IsValidShopDomain(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

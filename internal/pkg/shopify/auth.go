package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// VerifyRequestHMAC checks the hmac query parameter Shopify appends to
// embedded-app and OAuth requests. The message is every other query
// parameter, sorted by key and joined with &, signed with the API secret.
func VerifyRequestHMAC(query url.Values, secret string) bool {
	sig := strings.TrimSpace(query.Get("hmac"))
	if sig == "" || secret == "" {
		return false
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		if k == "hmac" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+strings.Join(query[k], ","))
	}
	message := strings.Join(pairs, "&")

	decoded, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hmac.Equal(mac.Sum(nil), decoded)
}

// VerifyWebhookHMAC checks the X-Shopify-Hmac-Sha256 header: a base64
// HMAC-SHA256 digest of the raw request body under the API secret.
func VerifyWebhookHMAC(body []byte, signatureHeader, secret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	if sig == "" || secret == "" {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), decoded)
}

// IsValidShopDomain rejects shop parameters that are not *.myshopify.com
// hostnames before they reach OAuth redirects or token lookups.
func IsValidShopDomain(shop string) bool {
	shop = strings.ToLower(strings.TrimSpace(shop))
	if !strings.HasSuffix(shop, ".myshopify.com") {
		return false
	}
	name := strings.TrimSuffix(shop, ".myshopify.com")
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}

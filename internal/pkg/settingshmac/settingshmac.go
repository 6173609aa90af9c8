// Package settingshmac implements the shared-secret signature scheme used by
// non-admin callers of the settings API. The caller signs the exact canonical
// body bytes (GET: "shop=<value>", POST: the raw JSON body) with HMAC-SHA256
// and sends the hex digest in the x-shop-settings-hmac header.
package settingshmac

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HeaderName carries the hex-encoded signature.
const HeaderName = "x-shop-settings-hmac"

// CanonicalShopQuery returns the canonical GET signing string for a shop.
func CanonicalShopQuery(shop string) []byte {
	return []byte("shop=" + shop)
}

// Sign computes the hex HMAC-SHA256 digest of body under secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a header-supplied signature against the exact body bytes.
// The comparison is constant-time; an empty signature or secret never passes.
func Verify(body []byte, signatureHeader, secret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	if sig == "" || secret == "" {
		return false
	}

	decoded, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), decoded)
}

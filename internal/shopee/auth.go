// Package shopee implements the client for the Shopee Affiliate GraphQL API:
// request signing, query construction, transport with retry/backoff, and the
// error taxonomy the pipeline depends on.
package shopee

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Signature computes the request signature for the affiliate API.
// The API uses plain SHA256 over the concatenation, not HMAC-SHA256:
// SHA256(appID + timestamp + payload + secret).
func Signature(appID, secret string, timestamp int64, payload string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s%d%s%s", appID, timestamp, payload, secret)))
	return hex.EncodeToString(sum[:])
}

// AuthHeader builds the Authorization header value for a request body signed
// at the given unix timestamp. The timestamp must be the wall-clock time of
// signing; a signed request is bound to it and cannot be reused.
func AuthHeader(appID, secret string, timestamp int64, payload string) string {
	return fmt.Sprintf("SHA256 Credential=%s, Timestamp=%d, Signature=%s",
		appID, timestamp, Signature(appID, secret, timestamp, payload))
}

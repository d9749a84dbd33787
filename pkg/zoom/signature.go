package zoom

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SignPayload computes the hex HMAC-SHA256 digest Zoom expects for a
// webhook body: HMAC(secret, "v0:{timestamp}:{body}"), prefixed "v0=".
func SignPayload(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:", timestamp)
	mac.Write(body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks an x-zm-signature header value against the raw
// request body in constant time. Empty secret or signature fails closed;
// the caller decides whether an unconfigured secret means permissive mode.
func VerifySignature(secret, timestamp string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := SignPayload(secret, timestamp, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ChallengeDigest answers an endpoint.url_validation event: the hex
// HMAC-SHA256 of the plain token under the webhook secret.
func ChallengeDigest(secret, plainToken string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(plainToken))
	return hex.EncodeToString(mac.Sum(nil))
}

package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// SignatureHeader carries the base64 HMAC-SHA256 of the request body keyed by
// the client secret. During secret rotation it holds several comma separated
// signatures.
const SignatureHeader = "Cronofy-HMAC-SHA256"

// Sign returns the signature Cronofy sends for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether any signature in header matches body.
func Verify(secret, header string, body []byte) bool {
	if secret == "" || header == "" {
		return false
	}
	expected := []byte(Sign(secret, body))
	for _, sig := range strings.Split(header, ",") {
		if hmac.Equal([]byte(strings.TrimSpace(sig)), expected) {
			return true
		}
	}
	return false
}

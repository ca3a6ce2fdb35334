// Package payment is the contract to a generic payment gateway. The
// backend never talks to a vendor SDK directly; it only verifies the
// signature the gateway attaches to its checkout callback.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureVerifier checks the signature a payment gateway returned
// for a completed checkout.
type SignatureVerifier interface {
	Verify(gatewayOrderID, gatewayPaymentID, signature string) bool
}

// HMACVerifier implements the common gateway scheme: hex-encoded
// HMAC-SHA256 over "{gatewayOrderId}|{gatewayPaymentId}" with a shared
// secret.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(gatewayOrderID, gatewayPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	// Constant-time compare; the caller-supplied signature is untrusted.
	return hmac.Equal([]byte(expected), []byte(signature))
}

package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func gatewaySignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHMACVerifierAcceptsValidSignature(t *testing.T) {
	v := NewHMACVerifier("gateway-secret")

	sig := gatewaySignature("gateway-secret", "order_abc", "pay_123")
	assert.True(t, v.Verify("order_abc", "pay_123", sig))
}

func TestHMACVerifierRejectsTamperedPayload(t *testing.T) {
	v := NewHMACVerifier("gateway-secret")
	sig := gatewaySignature("gateway-secret", "order_abc", "pay_123")

	assert.False(t, v.Verify("order_abc", "pay_999", sig))
	assert.False(t, v.Verify("order_xyz", "pay_123", sig))
}

func TestHMACVerifierRejectsWrongSecret(t *testing.T) {
	v := NewHMACVerifier("gateway-secret")

	sig := gatewaySignature("another-secret", "order_abc", "pay_123")
	assert.False(t, v.Verify("order_abc", "pay_123", sig))
}

func TestHMACVerifierRejectsGarbageSignature(t *testing.T) {
	v := NewHMACVerifier("gateway-secret")

	assert.False(t, v.Verify("order_abc", "pay_123", "zzzz"))
	assert.False(t, v.Verify("order_abc", "pay_123", ""))
}

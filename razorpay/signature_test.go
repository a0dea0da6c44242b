package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	signature := sign("order_abc123", "pay_xyz789", "secret")
	assert.True(t, VerifySignature("order_abc123", "pay_xyz789", signature, "secret"))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	signature := sign("order_abc123", "pay_xyz789", "secret")

	assert.False(t, VerifySignature("order_abc124", "pay_xyz789", signature, "secret"))
	assert.False(t, VerifySignature("order_abc123", "pay_xyz790", signature, "secret"))
	assert.False(t, VerifySignature("order_abc123", "pay_xyz789", signature, "wrong"))
	assert.False(t, VerifySignature("order_abc123", "pay_xyz789", "", "secret"))
}

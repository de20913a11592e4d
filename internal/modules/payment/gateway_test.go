package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signOrder(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const (
		secret    = "test_secret_key"
		orderID   = "order_ABC123"
		paymentID = "pay_XYZ789"
	)
	valid := signOrder(secret, orderID, paymentID)

	tests := []struct {
		name      string
		secret    string
		orderID   string
		paymentID string
		signature string
		want      bool
	}{
		{"valid signature", secret, orderID, paymentID, valid, true},
		{"signature with surrounding whitespace", secret, orderID, paymentID, "  " + valid + " ", true},
		{"wrong secret", "other_secret", orderID, paymentID, valid, false},
		{"wrong order", secret, "order_other", paymentID, valid, false},
		{"wrong payment", secret, orderID, "pay_other", valid, false},
		{"tampered signature", secret, orderID, paymentID, valid[:len(valid)-1] + "0", false},
		{"empty signature", secret, orderID, paymentID, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifySignature(tt.secret, tt.orderID, tt.paymentID, tt.signature)
			if got != tt.want {
				t.Errorf("VerifySignature() = %v, want %v", got, tt.want)
			}
		})
	}
}

package payment

import (
	"crypto/sha512"
	"encoding/hex"
)

// Signature recomputes the webhook signature:
// SHA-512(order_id || status_code || gross_amount || server_key), hex encoded.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

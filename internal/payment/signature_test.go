package payment

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignature(t *testing.T) {
	got := Signature("BOOKPORT-1-1700000000000", "200", "110000.00", "sb-server-key")

	sum := sha512.Sum512([]byte("BOOKPORT-1-1700000000000" + "200" + "110000.00" + "sb-server-key"))
	assert.Equal(t, hex.EncodeToString(sum[:]), got)
	assert.Len(t, got, 128)
}

func TestSignatureDiffersPerOrder(t *testing.T) {
	a := Signature("BOOKPORT-1-1", "200", "1000.00", "key")
	b := Signature("BOOKPORT-2-1", "200", "1000.00", "key")
	assert.NotEqual(t, a, b)
}

func TestMethodLabel(t *testing.T) {
	assert.Equal(t, "GoPay", MethodLabel("gopay"))
	assert.Equal(t, "BCA Virtual Account", MethodLabel("bca_va"))
	assert.Equal(t, "Credit Card", MethodLabel("credit_card"))
	// unknown codes pass through untouched
	assert.Equal(t, "dana", MethodLabel("dana"))
	assert.Equal(t, "", MethodLabel(""))
}

package orders

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBooks() map[int64]pricedBook {
	return map[int64]pricedBook{
		1: {ID: 1, Judul: "Laskar Pelangi", Harga: 50000, Stok: 10},
		2: {ID: 2, Judul: "Bumi Manusia", Harga: 75000, Stok: 1},
	}
}

func TestPriceCart(t *testing.T) {
	total, lines, err := priceCart(
		[]CartItem{{BukuID: 1, Jumlah: 2}},
		testBooks(), 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(110000), total) // 2 x 50000 + ongkir 10000
	require.Len(t, lines, 1)
	assert.Equal(t, int64(50000), lines[0].HargaSaatBeli)
	assert.Equal(t, 2, lines[0].Jumlah)
}

func TestPriceCartEmpty(t *testing.T) {
	_, _, err := priceCart(nil, testBooks(), 0)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPriceCartUnknownBook(t *testing.T) {
	_, _, err := priceCart(
		[]CartItem{{BukuID: 99, Jumlah: 1}},
		testBooks(), 0)
	var notFound *ItemNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, int64(99), notFound.BukuID)
}

func TestPriceCartInsufficientStock(t *testing.T) {
	_, _, err := priceCart(
		[]CartItem{{BukuID: 2, Jumlah: 3}},
		testBooks(), 0)
	var noStock *InsufficientStockError
	require.True(t, errors.As(err, &noStock))
	assert.Equal(t, "Bumi Manusia", noStock.Judul)
	assert.Equal(t, 1, noStock.Sisa)
	assert.Equal(t, "stok Bumi Manusia tidak mencukupi (sisa 1)", err.Error())
}

func TestPriceCartInvalidQuantity(t *testing.T) {
	_, _, err := priceCart(
		[]CartItem{{BukuID: 1, Jumlah: 0}},
		testBooks(), 0)
	assert.Error(t, err)
}

func TestPriceCartMultipleLines(t *testing.T) {
	total, lines, err := priceCart(
		[]CartItem{{BukuID: 1, Jumlah: 1}, {BukuID: 2, Jumlah: 1}},
		testBooks(), 15000)
	require.NoError(t, err)
	assert.Equal(t, int64(140000), total)
	assert.Len(t, lines, 2)
}

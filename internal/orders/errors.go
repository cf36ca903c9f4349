package orders

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart         = errors.New("keranjang kosong")
	ErrOrderNotFound     = errors.New("pesanan tidak ditemukan")
	ErrInvalidState      = errors.New("status pembayaran tidak mengizinkan operasi ini")
	ErrSignatureMismatch = errors.New("invalid signature")
)

// ItemNotFoundError: a cart line references a book id that is absent.
type ItemNotFoundError struct {
	BukuID int64
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("buku dengan ID %d tidak ditemukan", e.BukuID)
}

// InsufficientStockError carries the remaining stock for the error message.
type InsufficientStockError struct {
	Judul   string
	Diminta int
	Sisa    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stok %s tidak mencukupi (sisa %d)", e.Judul, e.Sisa)
}

type InvalidTransitionError struct {
	From FulfillmentStatus
	To   FulfillmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("tidak bisa mengubah status dari %q ke %q", e.From.Display(), e.To.Display())
}

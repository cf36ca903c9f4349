package orders

import "fmt"

// pricedBook is the slice of the buku row checkout needs.
type pricedBook struct {
	ID    int64
	Judul string
	Harga int64
	Stok  int
}

// lineSnapshot is a detail_pesanan row to be, with the price captured at
// checkout time.
type lineSnapshot struct {
	BukuID        int64
	Jumlah        int
	HargaSaatBeli int64
}

// priceCart validates every cart line against the loaded books and computes
// total = ongkir + sum(harga * jumlah). It performs no I/O; the caller holds
// the transaction.
func priceCart(items []CartItem, books map[int64]pricedBook, ongkir int64) (int64, []lineSnapshot, error) {
	if len(items) == 0 {
		return 0, nil, ErrEmptyCart
	}

	total := ongkir
	lines := make([]lineSnapshot, 0, len(items))
	for _, it := range items {
		b, ok := books[it.BukuID]
		if !ok {
			return 0, nil, &ItemNotFoundError{BukuID: it.BukuID}
		}
		if it.Jumlah <= 0 {
			return 0, nil, fmt.Errorf("jumlah tidak valid untuk buku %q", b.Judul)
		}
		if b.Stok < it.Jumlah {
			return 0, nil, &InsufficientStockError{Judul: b.Judul, Diminta: it.Jumlah, Sisa: b.Stok}
		}
		total += b.Harga * int64(it.Jumlah)
		lines = append(lines, lineSnapshot{BukuID: it.BukuID, Jumlah: it.Jumlah, HargaSaatBeli: b.Harga})
	}
	return total, lines, nil
}

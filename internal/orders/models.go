package orders

import (
	"encoding/json"
	"time"
)

// Address is the structured shipping address, serialized as JSON onto the
// pesanan row.
type Address struct {
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Phone      string `json:"phone_number,omitempty"`
	Street     string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

type Order struct {
	ID               int64             `json:"id"`
	UserID           int64             `json:"user_id"`
	OrderNumber      string            `json:"order_number"`
	TotalHarga       int64             `json:"total_harga"`
	StatusPembayaran PaymentStatus     `json:"status_pembayaran"`
	StatusPesanan    FulfillmentStatus `json:"status_pesanan"`
	AlamatPengiriman json.RawMessage   `json:"alamat_pengiriman"`
	Ongkir           int64             `json:"ongkir"`
	MidtransOrderID  string            `json:"midtrans_order_id"`
	PaymentMethod    string            `json:"payment_method,omitempty"`
	BlockchainTxHash string            `json:"blockchain_tx_hash,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Alamat decodes the stored shipping address; a malformed value yields the
// zero Address rather than an error.
func (o Order) Alamat() Address {
	var a Address
	_ = json.Unmarshal(o.AlamatPengiriman, &a)
	return a
}

// OrderItem is a detail_pesanan row joined with its book for display.
// HargaSaatBeli is the immutable price snapshot taken at checkout.
type OrderItem struct {
	ID            int64  `json:"id"`
	BukuID        int64  `json:"buku_id"`
	Jumlah        int    `json:"jumlah"`
	HargaSaatBeli int64  `json:"harga_saat_beli"`
	Judul         string `json:"judul,omitempty"`
	Penulis       string `json:"penulis,omitempty"`
	GambarURL     string `json:"gambar_url,omitempty"`
}

// OrderSummary is one row of a user's order history, with a preview of the
// first line item.
type OrderSummary struct {
	ID               int64             `json:"id"`
	OrderNumber      string            `json:"order_number"`
	CreatedAt        time.Time         `json:"created_at"`
	TotalHarga       int64             `json:"total_harga"`
	StatusPembayaran PaymentStatus     `json:"status_pembayaran"`
	StatusPesanan    FulfillmentStatus `json:"status_pesanan"`
	MidtransOrderID  string            `json:"midtrans_order_id"`
	ItemJumlah       int               `json:"item_jumlah"`
	ItemJudul        string            `json:"item_judul"`
	ItemGambar       string            `json:"item_gambar,omitempty"`
	TotalItem        int               `json:"total_item"`
}

// AdminOrder joins the order with its owner for the back office.
type AdminOrder struct {
	Order
	UserNama  string      `json:"user_nama"`
	UserEmail string      `json:"user_email"`
	UserPhone string      `json:"user_phone,omitempty"`
	Items     []OrderItem `json:"items,omitempty"`
}

type CartItem struct {
	BukuID int64 `json:"buku_id"`
	Jumlah int   `json:"jumlah"`
}

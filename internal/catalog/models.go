package catalog

import "time"

// Book is a row of the buku table. Prices are whole rupiah.
type Book struct {
	ID          int64     `json:"id"`
	Judul       string    `json:"judul"`
	Penulis     string    `json:"penulis"`
	TahunTerbit int       `json:"tahun_terbit,omitempty"`
	Deskripsi   string    `json:"deskripsi,omitempty"`
	Kategori    string    `json:"kategori,omitempty"`
	Bahasa      string    `json:"bahasa,omitempty"`
	Harga       int64     `json:"harga"`
	Stok        int       `json:"stok"`
	GambarURL   string    `json:"gambar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BookInput struct {
	Judul       string `json:"judul"`
	Penulis     string `json:"penulis"`
	TahunTerbit int    `json:"tahun_terbit"`
	Deskripsi   string `json:"deskripsi"`
	Kategori    string `json:"kategori"`
	Bahasa      string `json:"bahasa"`
	Harga       int64  `json:"harga"`
	Stok        int    `json:"stok"`
	GambarURL   string `json:"gambar_url"`
}

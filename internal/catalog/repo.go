package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrBookNotFound = errors.New("buku tidak ditemukan")

	// ErrBookReferenced: the book appears in order history, the row must stay
	// so price snapshots keep their referent. Set stock to 0 to hide it.
	ErrBookReferenced = errors.New("buku ada dalam riwayat pesanan, ubah stok menjadi 0 untuk menyembunyikannya")
)

type Repo struct{ DB *pgxpool.Pool }

const bookCols = `id, judul, penulis, COALESCE(tahun_terbit,0), COALESCE(deskripsi,''),
	COALESCE(kategori,''), COALESCE(bahasa,''), harga, stok, COALESCE(gambar_url,''),
	created_at, updated_at`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Judul, &b.Penulis, &b.TahunTerbit, &b.Deskripsi,
		&b.Kategori, &b.Bahasa, &b.Harga, &b.Stok, &b.GambarURL, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// List returns books matching an optional title/author query and category filter.
func (r *Repo) List(ctx context.Context, q, kategori string) ([]Book, error) {
	sql := `SELECT ` + bookCols + ` FROM buku WHERE 1=1`
	args := []any{}
	if q != "" {
		args = append(args, "%"+q+"%")
		sql += ` AND (judul ILIKE $1 OR penulis ILIKE $1)`
	}
	if kategori != "" {
		args = append(args, kategori)
		if len(args) == 1 {
			sql += ` AND kategori = $1`
		} else {
			sql += ` AND kategori = $2`
		}
	}
	sql += ` ORDER BY judul ASC`

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (Book, error) {
	b, err := scanBook(r.DB.QueryRow(ctx, `SELECT `+bookCols+` FROM buku WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, ErrBookNotFound
	}
	return b, err
}

func (r *Repo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT DISTINCT kategori FROM buku
		WHERE kategori IS NOT NULL AND kategori <> ''
		ORDER BY kategori ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, in BookInput) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO buku (judul, penulis, tahun_terbit, deskripsi, kategori, bahasa, harga, stok, gambar_url)
		VALUES ($1, $2, NULLIF($3,0), NULLIF($4,''), NULLIF($5,''), COALESCE(NULLIF($6,''),'English'), $7, $8, NULLIF($9,''))
		RETURNING id`,
		in.Judul, in.Penulis, in.TahunTerbit, in.Deskripsi, in.Kategori, in.Bahasa, in.Harga, in.Stok, in.GambarURL).
		Scan(&id)
	return id, err
}

func (r *Repo) Update(ctx context.Context, id int64, judul, penulis string, harga int64, stok int) error {
	ct, err := r.DB.Exec(ctx,
		`UPDATE buku SET judul=$2, penulis=$3, harga=$4, stok=$5, updated_at=now() WHERE id=$1`,
		id, judul, penulis, harga, stok)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM buku WHERE id=$1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return ErrBookReferenced
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}

package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const orderCols = `id, user_id, COALESCE(order_number,''), total_harga, status_pembayaran,
	status_pesanan, alamat_pengiriman, ongkir, midtrans_order_id,
	COALESCE(payment_method,''), COALESCE(blockchain_tx_hash,''), created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.TotalHarga, &o.StatusPembayaran,
		&o.StatusPesanan, &o.AlamatPengiriman, &o.Ongkir, &o.MidtransOrderID,
		&o.PaymentMethod, &o.BlockchainTxHash, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

func (r *Repo) Get(ctx context.Context, id int64) (Order, error) {
	return scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM pesanan WHERE id=$1`, id))
}

// GetOwned returns the order only if it belongs to userID.
func (r *Repo) GetOwned(ctx context.Context, id, userID int64) (Order, error) {
	return scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderCols+` FROM pesanan WHERE id=$1 AND user_id=$2`, id, userID))
}

// GetOwnedBySession looks an order up by its payment-session identifier.
func (r *Repo) GetOwnedBySession(ctx context.Context, sessionID string, userID int64) (Order, error) {
	return scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderCols+` FROM pesanan WHERE midtrans_order_id=$1 AND user_id=$2`, sessionID, userID))
}

func (r *Repo) Items(ctx context.Context, pesananID int64) ([]OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT d.id, d.buku_id, d.jumlah, d.harga_saat_beli,
		       b.judul, b.penulis, COALESCE(b.gambar_url,'')
		FROM detail_pesanan d
		JOIN buku b ON d.buku_id = b.id
		WHERE d.pesanan_id = $1`, pesananID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.BukuID, &it.Jumlah, &it.HargaSaatBeli,
			&it.Judul, &it.Penulis, &it.GambarURL); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]OrderSummary, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT p.id, COALESCE(p.order_number,''), p.created_at, p.total_harga,
		       p.status_pembayaran, p.status_pesanan, p.midtrans_order_id,
		       COALESCE((SELECT d.jumlah FROM detail_pesanan d WHERE d.pesanan_id = p.id LIMIT 1), 0),
		       COALESCE((SELECT b.judul FROM detail_pesanan d JOIN buku b ON d.buku_id = b.id WHERE d.pesanan_id = p.id LIMIT 1), ''),
		       COALESCE((SELECT b.gambar_url FROM detail_pesanan d JOIN buku b ON d.buku_id = b.id WHERE d.pesanan_id = p.id LIMIT 1), ''),
		       (SELECT COUNT(*) FROM detail_pesanan d WHERE d.pesanan_id = p.id)
		FROM pesanan p
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderSummary
	for rows.Next() {
		var s OrderSummary
		if err := rows.Scan(&s.ID, &s.OrderNumber, &s.CreatedAt, &s.TotalHarga,
			&s.StatusPembayaran, &s.StatusPesanan, &s.MidtransOrderID,
			&s.ItemJumlah, &s.ItemJudul, &s.ItemGambar, &s.TotalItem); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) ListAll(ctx context.Context) ([]AdminOrder, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+prefixedOrderCols("p")+`, u.nama, u.email
		FROM pesanan p
		JOIN users u ON p.user_id = u.id
		ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AdminOrder
	for rows.Next() {
		var a AdminOrder
		if err := rows.Scan(&a.ID, &a.UserID, &a.OrderNumber, &a.TotalHarga, &a.StatusPembayaran,
			&a.StatusPesanan, &a.AlamatPengiriman, &a.Ongkir, &a.MidtransOrderID,
			&a.PaymentMethod, &a.BlockchainTxHash, &a.CreatedAt, &a.UpdatedAt,
			&a.UserNama, &a.UserEmail); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) GetAdmin(ctx context.Context, id int64) (AdminOrder, error) {
	var a AdminOrder
	err := r.DB.QueryRow(ctx, `
		SELECT `+prefixedOrderCols("p")+`, u.nama, u.email, COALESCE(u.no_hp,'')
		FROM pesanan p
		JOIN users u ON p.user_id = u.id
		WHERE p.id = $1`, id).
		Scan(&a.ID, &a.UserID, &a.OrderNumber, &a.TotalHarga, &a.StatusPembayaran,
			&a.StatusPesanan, &a.AlamatPengiriman, &a.Ongkir, &a.MidtransOrderID,
			&a.PaymentMethod, &a.BlockchainTxHash, &a.CreatedAt, &a.UpdatedAt,
			&a.UserNama, &a.UserEmail, &a.UserPhone)
	if errors.Is(err, pgx.ErrNoRows) {
		return AdminOrder{}, ErrOrderNotFound
	}
	if err != nil {
		return AdminOrder{}, err
	}
	a.Items, err = r.Items(ctx, id)
	return a, err
}

func prefixedOrderCols(p string) string {
	return p + `.id, ` + p + `.user_id, COALESCE(` + p + `.order_number,''), ` + p + `.total_harga, ` +
		p + `.status_pembayaran, ` + p + `.status_pesanan, ` + p + `.alamat_pengiriman, ` + p + `.ongkir, ` +
		p + `.midtrans_order_id, COALESCE(` + p + `.payment_method,''), COALESCE(` + p + `.blockchain_tx_hash,''), ` +
		p + `.created_at, ` + p + `.updated_at`
}

// Revenue sums paid, non-cancelled orders.
func (r *Repo) Revenue(ctx context.Context) (total int64, count int, err error) {
	err = r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_harga),0), COUNT(*)
		FROM pesanan
		WHERE status_pembayaran = 'paid' AND status_pesanan NOT IN ('cancelled')`).
		Scan(&total, &count)
	return total, count, err
}

// SetSession swaps the payment-session identifier (retry payment).
func (r *Repo) SetSession(ctx context.Context, id int64, sessionID string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE pesanan SET midtrans_order_id=$2, updated_at=now() WHERE id=$1`, id, sessionID)
	return err
}

func (r *Repo) SetTxHash(ctx context.Context, id int64, hash string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE pesanan SET blockchain_tx_hash=$2, updated_at=now() WHERE id=$1`, id, hash)
	return err
}

// restoreStock returns every line's quantity to its book. Callers must hold
// the guard (row not yet cancelled) before invoking, otherwise stock would be
// restored twice when the webhook and the sweeper race on the same order.
func restoreStock(ctx context.Context, tx pgx.Tx, pesananID int64) error {
	rows, err := tx.Query(ctx,
		`SELECT buku_id, jumlah FROM detail_pesanan WHERE pesanan_id=$1`, pesananID)
	if err != nil {
		return err
	}
	defer rows.Close()

	type rec struct {
		bukuID int64
		jumlah int
	}
	var recs []rec
	for rows.Next() {
		var x rec
		if err := rows.Scan(&x.bukuID, &x.jumlah); err != nil {
			return err
		}
		recs = append(recs, x)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, x := range recs {
		if _, err := tx.Exec(ctx,
			`UPDATE buku SET stok = stok + $2, updated_at=now() WHERE id=$1`, x.bukuID, x.jumlah); err != nil {
			return err
		}
	}
	return nil
}

type ExpiredOrder struct {
	ID              int64
	MidtransOrderID string
}

// SelectExpired lists orders still pending payment created before cutoff.
func (r *Repo) SelectExpired(ctx context.Context, cutoff time.Time) ([]ExpiredOrder, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, midtrans_order_id FROM pesanan
		WHERE status_pembayaran = 'pending' AND created_at < $1`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExpiredOrder
	for rows.Next() {
		var e ExpiredOrder
		if err := rows.Scan(&e.ID, &e.MidtransOrderID); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CancelExpired flips one stale order to failed/cancelled and restores its
// stock. The status predicate doubles as the double-restore guard: if a
// webhook cancelled the order mid-sweep, no row matches and nothing happens.
func (r *Repo) CancelExpired(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		UPDATE pesanan
		SET status_pembayaran='failed', status_pesanan='cancelled', updated_at=now()
		WHERE id=$1 AND status_pembayaran='pending' AND status_pesanan <> 'cancelled'`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return nil
	}
	if err := restoreStock(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

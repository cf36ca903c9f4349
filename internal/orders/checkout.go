package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/bookport/bookport/internal/payment"
)

// CheckoutUser is the slice of the authenticated user checkout needs for
// customer-detail fallbacks.
type CheckoutUser struct {
	ID    int64
	Nama  string
	Email string
}

type CheckoutRequest struct {
	AlamatPengiriman Address    `json:"alamat_pengiriman"`
	CartItems        []CartItem `json:"cart_items"`
	Ongkir           int64      `json:"ongkir"`
}

type CheckoutResult struct {
	SnapToken   string `json:"snapToken"`
	OrderID     string `json:"order_id"` // payment-session identifier
	OrderNumber string `json:"order_number"`
	PesananID   int64  `json:"pesanan_id"`
}

// OrderLookup is the slice of Repo that RetryPayment needs.
type OrderLookup interface {
	GetOwnedBySession(ctx context.Context, sessionID string, userID int64) (Order, error)
	SetSession(ctx context.Context, id int64, sessionID string) error
}

type CheckoutService struct {
	DB          *pgxpool.Pool
	Orders      OrderLookup
	Gateway     payment.Gateway
	FrontendURL string
	Log         *zap.Logger
}

// Checkout reserves stock, persists the order and its lines, and requests a
// payment session, all inside one transaction. The gateway call sits inside
// the tx boundary so a gateway failure rolls the stock decrement back.
func (s *CheckoutService) Checkout(ctx context.Context, user CheckoutUser, req CheckoutRequest) (CheckoutResult, error) {
	if len(req.CartItems) == 0 {
		return CheckoutResult{}, ErrEmptyCart
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return CheckoutResult{}, err
	}
	defer tx.Rollback(ctx)

	ids := make([]int64, 0, len(req.CartItems))
	for _, it := range req.CartItems {
		ids = append(ids, it.BukuID)
	}
	rows, err := tx.Query(ctx, `SELECT id, judul, harga, stok FROM buku WHERE id = ANY($1)`, ids)
	if err != nil {
		return CheckoutResult{}, err
	}
	books := map[int64]pricedBook{}
	for rows.Next() {
		var b pricedBook
		if err := rows.Scan(&b.ID, &b.Judul, &b.Harga, &b.Stok); err != nil {
			rows.Close()
			return CheckoutResult{}, err
		}
		books[b.ID] = b
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return CheckoutResult{}, err
	}

	total, lines, err := priceCart(req.CartItems, books, req.Ongkir)
	if err != nil {
		return CheckoutResult{}, err
	}

	for _, ln := range lines {
		if _, err := tx.Exec(ctx,
			`UPDATE buku SET stok = stok - $2, updated_at=now() WHERE id=$1`,
			ln.BukuID, ln.Jumlah); err != nil {
			return CheckoutResult{}, err
		}
	}

	sessionID := fmt.Sprintf("BOOKPORT-%d-%d", user.ID, time.Now().UnixMilli())
	addrJSON, err := json.Marshal(req.AlamatPengiriman)
	if err != nil {
		return CheckoutResult{}, err
	}

	var pesananID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO pesanan (user_id, total_harga, status_pembayaran, status_pesanan,
		                     alamat_pengiriman, ongkir, midtrans_order_id)
		VALUES ($1, $2, 'pending', 'waiting_payment', $3, $4, $5)
		RETURNING id`,
		user.ID, total, addrJSON, req.Ongkir, sessionID).Scan(&pesananID)
	if err != nil {
		return CheckoutResult{}, err
	}

	orderNumber := fmt.Sprintf("BP-%05d", pesananID)
	if _, err := tx.Exec(ctx,
		`UPDATE pesanan SET order_number=$2 WHERE id=$1`, pesananID, orderNumber); err != nil {
		return CheckoutResult{}, err
	}

	for _, ln := range lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO detail_pesanan (pesanan_id, buku_id, jumlah, harga_saat_beli)
			VALUES ($1, $2, $3, $4)`,
			pesananID, ln.BukuID, ln.Jumlah, ln.HargaSaatBeli); err != nil {
			return CheckoutResult{}, err
		}
	}

	token, err := s.Gateway.CreateSession(ctx, payment.SessionRequest{
		OrderID:     sessionID,
		GrossAmount: total,
		Customer:    customerDetails(req.AlamatPengiriman, user),
		Callbacks:   payment.CallbacksFor(s.FrontendURL),
	})
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("payment gateway: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return CheckoutResult{}, err
	}

	s.Log.Info("checkout committed",
		zap.Int64("pesanan_id", pesananID),
		zap.String("order_number", orderNumber),
		zap.Int64("total_harga", total))

	return CheckoutResult{
		SnapToken:   token,
		OrderID:     sessionID,
		OrderNumber: orderNumber,
		PesananID:   pesananID,
	}, nil
}

// RetryPayment issues a fresh payment session for an order still pending
// payment, keeping the stored total and shipping address.
func (s *CheckoutService) RetryPayment(ctx context.Context, user CheckoutUser, sessionID string) (CheckoutResult, error) {
	order, err := s.Orders.GetOwnedBySession(ctx, sessionID, user.ID)
	if err != nil {
		return CheckoutResult{}, err
	}
	if order.StatusPembayaran != PaymentPending {
		return CheckoutResult{}, fmt.Errorf("pesanan sudah %s: %w", order.StatusPembayaran, ErrInvalidState)
	}

	newSessionID := fmt.Sprintf("BOOKPORT-%d-RETRY-%d", order.ID, time.Now().UnixMilli())
	if err := s.Orders.SetSession(ctx, order.ID, newSessionID); err != nil {
		return CheckoutResult{}, err
	}

	token, err := s.Gateway.CreateSession(ctx, payment.SessionRequest{
		OrderID:     newSessionID,
		GrossAmount: order.TotalHarga,
		Customer:    customerDetails(order.Alamat(), user),
		Callbacks:   payment.CallbacksFor(s.FrontendURL),
	})
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("payment gateway: %w", err)
	}

	return CheckoutResult{
		SnapToken:   token,
		OrderID:     newSessionID,
		OrderNumber: order.OrderNumber,
		PesananID:   order.ID,
	}, nil
}

// customerDetails fills blanks in the shipping address from the account
// profile.
func customerDetails(a Address, user CheckoutUser) payment.Customer {
	c := payment.Customer{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     user.Email,
		Phone:     a.Phone,
	}
	if c.FirstName == "" {
		c.FirstName = user.Nama
	}
	if c.Phone == "" {
		c.Phone = "08123456789"
	}
	return c
}

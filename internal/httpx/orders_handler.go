package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bookport/bookport/internal/auth"
	"github.com/bookport/bookport/internal/orders"
	"github.com/bookport/bookport/internal/tracking"
)

type OrdersHandler struct {
	Repo     *orders.Repo
	Checkout *orders.CheckoutService
	Tracking tracking.Store
	Log      *zap.Logger
}

func checkoutUser(r *http.Request) orders.CheckoutUser {
	c := auth.FromContext(r.Context())
	return orders.CheckoutUser{ID: c.UserID, Nama: c.Nama, Email: c.Email}
}

func (h *OrdersHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req orders.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}

	// The gateway call lives inside the checkout transaction; give it room.
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	res, err := h.Checkout.Checkout(ctx, checkoutUser(r), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type retryPaymentReq struct {
	OrderID string `json:"order_id"`
}

func (h *OrdersHandler) retryPayment(w http.ResponseWriter, r *http.Request) {
	var req retryPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "order_id wajib diisi"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	res, err := h.Checkout.RetryPayment(ctx, checkoutUser(r), req.OrderID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"snapToken": res.SnapToken,
		"order_id":  res.OrderID,
	})
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	history, err := h.Repo.ListByUser(ctx, claims.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if history == nil {
		history = []orders.OrderSummary{}
	}
	writeJSON(w, http.StatusOK, history)
}

func orderID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (h *OrdersHandler) detail(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	id, ok := orderID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "id tidak valid"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Repo.GetOwned(ctx, id, claims.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	items, err := h.Repo.Items(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pesanan": order, "detail": items})
}

func (h *OrdersHandler) blockchainStatus(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	id, ok := orderID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "id tidak valid"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	order, err := h.Repo.GetOwned(ctx, id, claims.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if order.BlockchainTxHash == "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"recorded": false,
			"message":  "belum tercatat di blockchain",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recorded":         true,
		"transaction_hash": order.BlockchainTxHash,
	})
}

func (h *OrdersHandler) trackingStatus(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	id, ok := orderID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "id tidak valid"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	order, err := h.Repo.GetOwned(ctx, id, claims.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if order.StatusPesanan != orders.StatusShipped {
		writeJSON(w, http.StatusOK, map[string]any{
			"tracking_available": false,
			"status":             order.StatusPesanan.Display(),
		})
		return
	}

	alamat := order.Alamat()
	city := alamat.City
	if city == "" {
		city = alamat.Province
	}
	dest := tracking.CityCoordinates(city)

	driver, found, err := h.Tracking.Get(ctx, id)
	if err != nil {
		h.Log.Warn("tracking store get", zap.Int64("pesanan_id", id), zap.Error(err))
	}
	if !found {
		driver = tracking.DriverPosition(dest)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tracking_available": true,
		"order_id":           order.ID,
		"order_number":       order.OrderNumber,
		"city":               city,
		"destination":        dest,
		"driver":             driver,
		"estimated_arrival":  "30-45 menit",
	})
}

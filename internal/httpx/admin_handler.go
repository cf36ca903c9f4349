package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bookport/bookport/internal/catalog"
	"github.com/bookport/bookport/internal/ledger"
	"github.com/bookport/bookport/internal/orders"
)

type AdminHandler struct {
	Books       *catalog.Repo
	Orders      *orders.Repo
	Fulfillment *orders.FulfillmentService
	Notary      ledger.Notary
	NotaryWait  time.Duration
	Log         *zap.Logger
}

func (h *AdminHandler) createBook(w http.ResponseWriter, r *http.Request) {
	var in catalog.BookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}
	if in.Judul == "" || in.Penulis == "" || in.Harga <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "judul, penulis, dan harga wajib diisi"})
		return
	}
	if in.Stok < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "stok tidak boleh negatif"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := h.Books.Create(ctx, in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "buku ditambahkan", "id": id})
}

type updateBookReq struct {
	Judul   string `json:"judul"`
	Penulis string `json:"penulis"`
	Harga   int64  `json:"harga"`
	Stok    int    `json:"stok"`
}

func (h *AdminHandler) updateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "id tidak valid"})
		return
	}
	var req updateBookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}
	if req.Judul == "" || req.Penulis == "" || req.Harga <= 0 || req.Stok < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "data buku tidak valid"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Books.Update(ctx, id, req.Judul, req.Penulis, req.Harga, req.Stok); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "buku diperbarui"})
}

func (h *AdminHandler) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "id tidak valid"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Books.Delete(ctx, id); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "buku dihapus"})
}

// adminOrderView shadows status_pesanan with its display form; the back
// office renders statuses with spaces.
type adminOrderView struct {
	orders.AdminOrder
	StatusPesanan string `json:"status_pesanan"`
}

func adminView(a orders.AdminOrder) adminOrderView {
	return adminOrderView{AdminOrder: a, StatusPesanan: a.StatusPesanan.Display()}
}

func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	all, err := h.Orders.ListAll(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	views := make([]adminOrderView, 0, len(all))
	for _, a := range all {
		views = append(views, adminView(a))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *AdminHandler) orderDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "id tidak valid"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	a, err := h.Orders.GetAdmin(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adminView(a))
}

type updateStatusReq struct {
	StatusPesanan string `json:"status_pesanan"`
}

func (h *AdminHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "id tidak valid"})
		return
	}
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}
	next, ok := orders.ParseFulfillment(req.StatusPesanan)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "status tidak dikenal: " + req.StatusPesanan})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := h.Fulfillment.Transition(ctx, id, next)
	if err != nil {
		writeErr(w, err)
		return
	}

	out := map[string]any{
		"message": "status pesanan diperbarui",
		"pesanan": res.Order,
	}
	if res.RefundRequired {
		out["refund_required"] = true
		out["refund_amount"] = res.RefundAmount
		out["refund_note"] = "refund manual melalui dashboard Midtrans"
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) revenue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	total, count, err := h.Orders.Revenue(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_revenue": total,
		"total_orders":  count,
	})
}

// retryBlockchain re-runs notarization synchronously for one paid order
// whose receipt never made it onto the ledger.
func (h *AdminHandler) retryBlockchain(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "id tidak valid"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.NotaryWait)
	defer cancel()

	order, err := h.Orders.Get(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	if order.StatusPembayaran != orders.PaymentPaid {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "pesanan belum dibayar"})
		return
	}
	if order.BlockchainTxHash != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "pesanan sudah tercatat di blockchain",
		})
		return
	}

	txHash, err := h.Notary.RecordReceipt(ctx, order.ID, order.UserID, order.TotalHarga)
	if err != nil {
		h.Log.Error("manual notarization failed", zap.Int64("pesanan_id", id), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"message": "pencatatan blockchain gagal: " + err.Error()})
		return
	}
	if err := h.Orders.SetTxHash(ctx, id, txHash); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "berhasil dicatat di blockchain",
		"transaction_hash": txHash,
	})
}

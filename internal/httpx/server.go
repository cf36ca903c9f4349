package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bookport/bookport/internal/auth"
)

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// API bundles the handlers and wires the /api route tree.
type API struct {
	Tokens  *auth.Tokens
	Auth    *AuthHandler
	Catalog *CatalogHandler
	Orders  *OrdersHandler
	Webhook *WebhookHandler
	Admin   *AdminHandler
}

func (a *API) Register(r *chi.Mux) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
		})

		// public
		r.Get("/buku", a.Catalog.list)
		r.Get("/buku/{id}", a.Catalog.get)
		r.Get("/categories", a.Catalog.categories)
		r.Post("/register", a.Auth.register)
		r.Post("/login", a.Auth.login)
		r.Post("/midtrans-notification", a.Webhook.notify)

		// authenticated
		r.Group(func(r chi.Router) {
			r.Use(a.Tokens.Require)
			r.Get("/profile", a.Auth.profile)
			r.Put("/profile", a.Auth.updateProfile)
			r.Post("/checkout", a.Orders.checkout)
			r.Post("/retry-payment", a.Orders.retryPayment)
			r.Get("/pesanan", a.Orders.list)
			r.Get("/pesanan/{id}", a.Orders.detail)
			r.Get("/pesanan/{id}/blockchain", a.Orders.blockchainStatus)
			r.Get("/pesanan/{id}/tracking", a.Orders.trackingStatus)
		})

		// admin back office
		r.Route("/admin", func(r chi.Router) {
			r.Use(a.Tokens.RequireAdmin)
			r.Post("/buku", a.Admin.createBook)
			r.Put("/buku/{id}", a.Admin.updateBook)
			r.Delete("/buku/{id}", a.Admin.deleteBook)
			r.Get("/pesanan", a.Admin.listOrders)
			r.Get("/pesanan/{id}", a.Admin.orderDetail)
			r.Put("/pesanan/{id}/status", a.Admin.updateStatus)
			r.Get("/revenue", a.Admin.revenue)
			r.Post("/retry-blockchain/{id}", a.Admin.retryBlockchain)
		})
	})
}

package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookport/bookport/internal/auth"
	"github.com/bookport/bookport/internal/catalog"
	"github.com/bookport/bookport/internal/orders"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps domain errors to status codes; everything unmapped is a 500.
func writeErr(w http.ResponseWriter, err error) {
	var (
		itemNotFound  *orders.ItemNotFoundError
		noStock       *orders.InsufficientStockError
		badTransition *orders.InvalidTransitionError
	)

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, catalog.ErrBookNotFound),
		errors.Is(err, auth.ErrUserNotFound),
		errors.As(err, &itemNotFound):
		code = http.StatusNotFound
	case errors.As(err, &noStock):
		code = http.StatusConflict
	case errors.Is(err, orders.ErrEmptyCart),
		errors.Is(err, orders.ErrInvalidState),
		errors.Is(err, catalog.ErrBookReferenced),
		errors.As(err, &badTransition):
		code = http.StatusBadRequest
	case errors.Is(err, orders.ErrSignatureMismatch):
		code = http.StatusForbidden
	}
	writeJSON(w, code, map[string]string{"message": err.Error()})
}

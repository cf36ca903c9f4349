package payment

import "context"

type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type Callbacks struct {
	Finish   string `json:"finish"`
	Unfinish string `json:"unfinish"`
	Error    string `json:"error"`
}

// CallbacksFor points the gateway's redirect URLs at the front end.
func CallbacksFor(frontendURL string) Callbacks {
	return Callbacks{
		Finish:   frontendURL + "/riwayat",
		Unfinish: frontendURL + "/checkout",
		Error:    frontendURL + "/checkout",
	}
}

type SessionRequest struct {
	OrderID     string
	GrossAmount int64
	Customer    Customer
	Callbacks   Callbacks
}

// Gateway creates hosted payment sessions with the external provider.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (token string, err error)
}

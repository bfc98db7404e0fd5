package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"closetshare-backend/internal/security"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Rental       *RentalHandler
	OTP          *OTPHandler
	Ledger       *LedgerHandler
	Dispute      *DisputeHandler
	Availability *AvailabilityHandler
	Waitlist     *WaitlistHandler
	Notification *NotificationHandler
}

// NewRouter mounts the versioned API. Everything except the health check
// sits behind the auth middleware.
func NewRouter(h Handlers, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondMessage(w, http.StatusOK, "ok", nil)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	// Rental lifecycle
	api.HandleFunc("/rentals", h.Rental.Create).Methods(http.MethodPost)
	api.HandleFunc("/rentals", h.Rental.List).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}", h.Rental.Get).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/confirm", h.Rental.Confirm).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/pay", h.Rental.Pay).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/handover/verify", h.Rental.VerifyHandover).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/return/start", h.Rental.StartReturn).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/return/verify", h.Rental.VerifyReturn).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/cancel", h.Rental.Cancel).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/transactions", h.Rental.Transactions).Methods(http.MethodGet)

	// Account verification codes
	api.HandleFunc("/otp/issue", h.OTP.Issue).Methods(http.MethodPost)
	api.HandleFunc("/otp/verify", h.OTP.Verify).Methods(http.MethodPost)
	api.HandleFunc("/otp/resend", h.OTP.Resend).Methods(http.MethodPost)

	// Ledger
	api.HandleFunc("/ledger/transactions", h.Ledger.Transactions).Methods(http.MethodGet)
	api.HandleFunc("/ledger/balance", h.Ledger.Balance).Methods(http.MethodGet)
	api.HandleFunc("/ledger/summary", h.Ledger.Summary).Methods(http.MethodGet)

	// Disputes
	api.HandleFunc("/disputes", h.Dispute.Raise).Methods(http.MethodPost)
	api.HandleFunc("/disputes", h.Dispute.List).Methods(http.MethodGet)
	api.HandleFunc("/disputes/{id:[0-9]+}", h.Dispute.Get).Methods(http.MethodGet)
	api.HandleFunc("/disputes/{id:[0-9]+}/resolve", h.Dispute.Resolve).Methods(http.MethodPost)
	api.HandleFunc("/disputes/{id:[0-9]+}/comments", h.Dispute.AddComment).Methods(http.MethodPost)
	api.HandleFunc("/disputes/{id:[0-9]+}/evidence", h.Dispute.AddEvidence).Methods(http.MethodPost)

	// Product availability and waitlist
	api.HandleFunc("/products/{id:[0-9]+}/availability", h.Availability.Check).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}/status", h.Availability.Status).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}/calendar", h.Availability.Calendar).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}/waitlist", h.Waitlist.Join).Methods(http.MethodPost)
	api.HandleFunc("/products/{id:[0-9]+}/waitlist", h.Waitlist.ListForProduct).Methods(http.MethodGet)
	api.HandleFunc("/waitlist", h.Waitlist.ListMine).Methods(http.MethodGet)
	api.HandleFunc("/waitlist/{id:[0-9]+}", h.Waitlist.Leave).Methods(http.MethodDelete)

	// Notifications
	api.HandleFunc("/notifications", h.Notification.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notification.MarkAsRead).Methods(http.MethodPost)

	return r
}

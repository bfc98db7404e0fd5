package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/service"
)

// RentalHandler serves the rental lifecycle endpoints.
type RentalHandler struct {
	rentalSvc service.RentalService
	ledgerSvc service.LedgerService
}

func NewRentalHandler(rentalSvc service.RentalService, ledgerSvc service.LedgerService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc, ledgerSvc: ledgerSvc}
}

const dateLayout = "2006-01-02"

type createRentalRequest struct {
	ProductID    int32  `json:"product_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	OptInsurance bool   `json:"opt_insurance"`
	Notes        string `json:"notes"`
}

type conditionRequest struct {
	Rating int32    `json:"rating"`
	Photos []string `json:"photos"`
	Notes  string   `json:"notes"`
}

func (c conditionRequest) toDomain() domain.ConditionReport {
	return domain.ConditionReport{Rating: c.Rating, Photos: c.Photos, Notes: c.Notes}
}

type verifyRequest struct {
	Code      string           `json:"code"`
	Condition conditionRequest `json:"condition"`
	// ActualReturnDate backdates a return verification; empty means now.
	ActualReturnDate string `json:"actual_return_date,omitempty"`
}

// rentalResponse wraps a rental with the development-only code echo.
type rentalResponse struct {
	Rental  *domain.Rental `json:"rental"`
	DevCode string         `json:"dev_code,omitempty"`
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		respondError(w, domain.ErrInvalid("start_date must be YYYY-MM-DD"))
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		respondError(w, domain.ErrInvalid("end_date must be YYYY-MM-DD"))
		return
	}

	rental, err := h.rentalSvc.CreateRental(r.Context(), service.CreateRentalInput{
		RenterID:     claimsFrom(r).UserID,
		ProductID:    req.ProductID,
		StartDate:    start,
		EndDate:      end,
		OptInsurance: req.OptInsurance,
		Notes:        req.Notes,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	rental, devCode, err := h.rentalSvc.ConfirmRental(r.Context(), claimsFrom(r).UserID, rentalID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rentalResponse{Rental: rental, DevCode: devCode})
}

func (h *RentalHandler) VerifyHandover(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req verifyRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	rental, devCode, err := h.rentalSvc.VerifyHandover(r.Context(), claimsFrom(r).UserID, rentalID, req.Code, req.Condition.toDomain())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rentalResponse{Rental: rental, DevCode: devCode})
}

// Pay is the renter paying for a confirmed rental. It charges the rental
// amount plus any insurance premium and holds the security deposit.
func (h *RentalHandler) Pay(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	payment, deposit, err := h.rentalSvc.ProcessPayment(r.Context(), claimsFrom(r).UserID, rentalID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Payment *domain.Transaction `json:"payment"`
		Deposit *domain.Transaction `json:"deposit"`
	}{Payment: payment, Deposit: deposit})
}

func (h *RentalHandler) StartReturn(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	devCode, err := h.rentalSvc.IssueReturnCode(r.Context(), claimsFrom(r).UserID, rentalID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "return code issued", rentalResponse{DevCode: devCode})
}

func (h *RentalHandler) VerifyReturn(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req verifyRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	var actualReturn *time.Time
	if req.ActualReturnDate != "" {
		at, err := time.Parse(dateLayout, req.ActualReturnDate)
		if err != nil {
			respondError(w, domain.ErrInvalid("actual_return_date must be YYYY-MM-DD"))
			return
		}
		actualReturn = &at
	}

	rental, err := h.rentalSvc.VerifyReturn(r.Context(), claimsFrom(r).UserID, rentalID, req.Code, req.Condition.toDomain(), actualReturn)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	rental, err := h.rentalSvc.CancelRental(r.Context(), claimsFrom(r).UserID, rentalID, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	rental, err := h.rentalSvc.GetRental(r.Context(), claimsFrom(r).UserID, rentalID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

type listResponse struct {
	Items interface{} `json:"items"`
	Total int32       `json:"total"`
	Page  int32       `json:"page"`
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt32(q.Get("page"), 1)
	pageSize := queryInt32(q.Get("page_size"), 20)
	status := domain.RentalStatus(q.Get("status"))

	rentals, total, err := h.rentalSvc.ListRentals(r.Context(), claimsFrom(r).UserID, q.Get("role"), status, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: rentals, Total: total, Page: page})
}

func (h *RentalHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	txs, err := h.ledgerSvc.ListRentalTransactions(r.Context(), claimsFrom(r).UserID, rentalID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, txs)
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalid("invalid %s: %q", name, raw)
	}
	return int32(id), nil
}

func queryInt32(raw string, def int32) int32 {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return def
	}
	return int32(v)
}

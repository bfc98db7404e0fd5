package http

import (
	"net/http"
	"time"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/service"
)

type WaitlistHandler struct {
	waitlistSvc service.WaitlistService
}

func NewWaitlistHandler(waitlistSvc service.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{waitlistSvc: waitlistSvc}
}

type joinWaitlistRequest struct {
	DesiredStartDate string `json:"desired_start_date"`
	DesiredEndDate   string `json:"desired_end_date"`
	Notes            string `json:"notes"`
}

func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req joinWaitlistRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	start, err := time.Parse(dateLayout, req.DesiredStartDate)
	if err != nil {
		respondError(w, domain.ErrInvalid("desired_start_date must be YYYY-MM-DD"))
		return
	}
	end, err := time.Parse(dateLayout, req.DesiredEndDate)
	if err != nil {
		respondError(w, domain.ErrInvalid("desired_end_date must be YYYY-MM-DD"))
		return
	}

	entry, err := h.waitlistSvc.Join(r.Context(), claimsFrom(r).UserID, productID, start, end, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (h *WaitlistHandler) Leave(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.waitlistSvc.Leave(r.Context(), claimsFrom(r).UserID, entryID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "left waitlist", nil)
}

func (h *WaitlistHandler) ListForProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	entries, err := h.waitlistSvc.ListForProduct(r.Context(), productID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *WaitlistHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	entries, err := h.waitlistSvc.ListForUser(r.Context(), claimsFrom(r).UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

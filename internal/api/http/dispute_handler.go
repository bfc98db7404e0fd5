package http

import (
	"net/http"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/service"
)

type DisputeHandler struct {
	disputeSvc service.DisputeService
}

func NewDisputeHandler(disputeSvc service.DisputeService) *DisputeHandler {
	return &DisputeHandler{disputeSvc: disputeSvc}
}

type raiseDisputeRequest struct {
	RentalID    int32                  `json:"rental_id"`
	Type        domain.DisputeType     `json:"type"`
	Description string                 `json:"description"`
	Priority    domain.DisputePriority `json:"priority"`
	Evidence    []domain.Evidence      `json:"evidence"`
}

func (h *DisputeHandler) Raise(w http.ResponseWriter, r *http.Request) {
	var req raiseDisputeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	dispute, err := h.disputeSvc.Raise(r.Context(), service.RaiseDisputeInput{
		RentalID:    req.RentalID,
		RaisedBy:    claimsFrom(r).UserID,
		Type:        req.Type,
		Description: req.Description,
		Priority:    req.Priority,
		Evidence:    req.Evidence,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dispute)
}

type resolveDisputeRequest struct {
	Decision                string `json:"decision"`
	CompensationAmountCents int64  `json:"compensation_amount_cents"`
	Notes                   string `json:"notes"`
}

func (h *DisputeHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	disputeID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req resolveDisputeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	dispute, err := h.disputeSvc.Resolve(r.Context(), service.ResolveDisputeInput{
		DisputeID:               disputeID,
		ResolvedBy:              claimsFrom(r).UserID,
		Decision:                req.Decision,
		CompensationAmountCents: req.CompensationAmountCents,
		Notes:                   req.Notes,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dispute)
}

func (h *DisputeHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	disputeID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	comment, err := h.disputeSvc.AddComment(r.Context(), claimsFrom(r).UserID, disputeID, req.Text)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

func (h *DisputeHandler) AddEvidence(w http.ResponseWriter, r *http.Request) {
	disputeID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var evidence domain.Evidence
	if err := decodeBody(r, &evidence); err != nil {
		respondError(w, err)
		return
	}

	dispute, err := h.disputeSvc.AddEvidence(r.Context(), claimsFrom(r).UserID, disputeID, evidence)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dispute)
}

func (h *DisputeHandler) Get(w http.ResponseWriter, r *http.Request) {
	disputeID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	dispute, err := h.disputeSvc.GetDispute(r.Context(), claimsFrom(r).UserID, disputeID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dispute)
}

func (h *DisputeHandler) List(w http.ResponseWriter, r *http.Request) {
	disputes, err := h.disputeSvc.ListDisputes(r.Context(), claimsFrom(r).UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, disputes)
}

package http

import (
	"net/http"
	"time"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/service"
)

type AvailabilityHandler struct {
	availabilitySvc service.AvailabilityService
}

func NewAvailabilityHandler(availabilitySvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc}
}

// Check answers "is this product free for these dates" and, when it is
// not, returns the conflicting windows.
func (h *AvailabilityHandler) Check(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	q := r.URL.Query()
	start, err := time.Parse(dateLayout, q.Get("start"))
	if err != nil {
		respondError(w, domain.ErrInvalid("start must be YYYY-MM-DD"))
		return
	}
	end, err := time.Parse(dateLayout, q.Get("end"))
	if err != nil {
		respondError(w, domain.ErrInvalid("end must be YYYY-MM-DD"))
		return
	}

	free, conflicts, err := h.availabilitySvc.IsFree(r.Context(), productID, start, end, nil)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"available": free,
		"conflicts": conflicts,
	})
}

func (h *AvailabilityHandler) Status(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	status, err := h.availabilitySvc.Status(r.Context(), productID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

func (h *AvailabilityHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	q := r.URL.Query()
	from := time.Now().Truncate(24 * time.Hour)
	if raw := q.Get("from"); raw != "" {
		from, err = time.Parse(dateLayout, raw)
		if err != nil {
			respondError(w, domain.ErrInvalid("from must be YYYY-MM-DD"))
			return
		}
	}
	var to time.Time
	if raw := q.Get("to"); raw != "" {
		to, err = time.Parse(dateLayout, raw)
		if err != nil {
			respondError(w, domain.ErrInvalid("to must be YYYY-MM-DD"))
			return
		}
	}

	days, err := h.availabilitySvc.Calendar(r.Context(), productID, from, to)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, days)
}

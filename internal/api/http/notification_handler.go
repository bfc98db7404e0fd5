package http

import (
	"net/http"

	"closetshare-backend/internal/service"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt32(q.Get("page"), 1)
	pageSize := queryInt32(q.Get("page_size"), 20)

	notes, total, err := h.noteSvc.GetNotifications(r.Context(), claimsFrom(r).UserID, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: notes, Total: total, Page: page})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	noteID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.noteSvc.MarkAsRead(r.Context(), claimsFrom(r).UserID, noteID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "marked as read", nil)
}

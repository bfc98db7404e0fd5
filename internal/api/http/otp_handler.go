package http

import (
	"net/http"
	"time"

	"closetshare-backend/internal/config"
	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/service"
)

// OTPHandler serves the account-level verification code endpoints.
// Rental-bound codes (handover, return) are issued through the rental
// endpoints, never here.
type OTPHandler struct {
	otpSvc     service.OTPService
	otpCfg     config.OTPConfig
	production bool
}

func NewOTPHandler(otpSvc service.OTPService, otpCfg config.OTPConfig, production bool) *OTPHandler {
	return &OTPHandler{otpSvc: otpSvc, otpCfg: otpCfg, production: production}
}

type otpRequest struct {
	Purpose domain.OTPPurpose `json:"purpose"`
	Code    string            `json:"code,omitempty"`
}

func (h *OTPHandler) validPurpose(p domain.OTPPurpose) error {
	switch p {
	case domain.OTPPurposeEmailVerification, domain.OTPPurposePhoneVerification, domain.OTPPurposeKYC:
		return nil
	default:
		return domain.ErrInvalid("purpose %q cannot be requested directly", p)
	}
}

func (h *OTPHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.validPurpose(req.Purpose); err != nil {
		respondError(w, err)
		return
	}

	expiresAt := time.Now().Add(time.Duration(h.otpCfg.ExpiryMinutes) * time.Minute)
	code, err := h.otpSvc.Issue(r.Context(), claimsFrom(r).UserID, req.Purpose, nil, expiresAt)
	if err != nil {
		respondError(w, err)
		return
	}

	data := map[string]interface{}{"expires_at": expiresAt}
	if !h.production {
		data["dev_code"] = code
	}
	respondMessage(w, http.StatusOK, "code sent", data)
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.validPurpose(req.Purpose); err != nil {
		respondError(w, err)
		return
	}

	if err := h.otpSvc.Verify(r.Context(), claimsFrom(r).UserID, req.Purpose, nil, req.Code); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "verified", nil)
}

func (h *OTPHandler) Resend(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.validPurpose(req.Purpose); err != nil {
		respondError(w, err)
		return
	}

	code, err := h.otpSvc.Resend(r.Context(), claimsFrom(r).UserID, req.Purpose, nil)
	if err != nil {
		respondError(w, err)
		return
	}

	var data map[string]interface{}
	if !h.production {
		data = map[string]interface{}{"dev_code": code}
	}
	respondMessage(w, http.StatusOK, "code resent", data)
}

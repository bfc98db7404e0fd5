package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"closetshare-backend/internal/domain"
)

func TestOTPHandler_Issue(t *testing.T) {
	s := newTestServer()
	auth := s.bearerFor(t, 7, "MEMBER")

	t.Run("Success Echoes Dev Code Outside Production", func(t *testing.T) {
		var issuedExpiry time.Time
		s.otpSvc.On("Issue", mock.Anything, int32(7), domain.OTPPurposeEmailVerification, (*int32)(nil), mock.AnythingOfType("time.Time")).
			Run(func(args mock.Arguments) {
				issuedExpiry = args.Get(4).(time.Time)
			}).
			Return("123456", nil)

		rec := s.do(t, http.MethodPost, "/api/v1/otp/issue", auth, map[string]interface{}{
			"purpose": "EMAIL_VERIFICATION",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "code sent", env.Message)

		var data struct {
			DevCode   string    `json:"dev_code"`
			ExpiresAt time.Time `json:"expires_at"`
		}
		assert.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "123456", data.DevCode)
		assert.WithinDuration(t, issuedExpiry, data.ExpiresAt, time.Second)
		// Account codes get the short expiry from config.
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), data.ExpiresAt, time.Minute)
	})

	t.Run("Rental Bound Purposes Cannot Be Requested Directly", func(t *testing.T) {
		for _, purpose := range []string{"RENTAL_HANDOVER", "RENTAL_RETURN"} {
			rec := s.do(t, http.MethodPost, "/api/v1/otp/issue", auth, map[string]interface{}{
				"purpose": purpose,
			})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		}
		s.otpSvc.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, domain.OTPPurposeHandover, mock.Anything, mock.Anything)
		s.otpSvc.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, domain.OTPPurposeReturn, mock.Anything, mock.Anything)
	})

	t.Run("Rate Limited Maps To 429", func(t *testing.T) {
		s.otpSvc.ExpectedCalls = nil
		s.otpSvc.On("Issue", mock.Anything, int32(7), domain.OTPPurposeKYC, (*int32)(nil), mock.AnythingOfType("time.Time")).
			Return("", domain.ErrRateLimited("too many codes requested"))

		rec := s.do(t, http.MethodPost, "/api/v1/otp/issue", auth, map[string]interface{}{
			"purpose": "KYC_VERIFICATION",
		})

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})
}

func TestOTPHandler_Verify(t *testing.T) {
	s := newTestServer()
	auth := s.bearerFor(t, 7, "MEMBER")

	t.Run("Success", func(t *testing.T) {
		s.otpSvc.On("Verify", mock.Anything, int32(7), domain.OTPPurposeEmailVerification, (*int32)(nil), "123456").
			Return(nil)

		rec := s.do(t, http.MethodPost, "/api/v1/otp/verify", auth, map[string]interface{}{
			"purpose": "EMAIL_VERIFICATION",
			"code":    "123456",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "verified", decodeEnvelope(t, rec).Message)
	})

	t.Run("Wrong Code Returns Remaining Attempts", func(t *testing.T) {
		s.otpSvc.ExpectedCalls = nil
		s.otpSvc.On("Verify", mock.Anything, int32(7), domain.OTPPurposeEmailVerification, (*int32)(nil), "000000").
			Return(domain.ErrInvalidCode(2))

		rec := s.do(t, http.MethodPost, "/api/v1/otp/verify", auth, map[string]interface{}{
			"purpose": "EMAIL_VERIFICATION",
			"code":    "000000",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var payload struct {
			Kind              domain.ErrorKind `json:"kind"`
			RemainingAttempts *int32           `json:"remaining_attempts"`
		}
		assert.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &payload))
		assert.Equal(t, domain.KindInvalidCode, payload.Kind)
		if assert.NotNil(t, payload.RemainingAttempts) {
			assert.Equal(t, int32(2), *payload.RemainingAttempts)
		}
	})

	t.Run("Expired Code Maps To 400", func(t *testing.T) {
		s.otpSvc.ExpectedCalls = nil
		s.otpSvc.On("Verify", mock.Anything, int32(7), domain.OTPPurposeEmailVerification, (*int32)(nil), "123456").
			Return(domain.ErrCodeExpired())

		rec := s.do(t, http.MethodPost, "/api/v1/otp/verify", auth, map[string]interface{}{
			"purpose": "EMAIL_VERIFICATION",
			"code":    "123456",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var payload struct {
			Kind domain.ErrorKind `json:"kind"`
		}
		assert.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &payload))
		assert.Equal(t, domain.KindCodeExpired, payload.Kind)
	})

	t.Run("Rental Bound Purpose Rejected", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/otp/verify", auth, map[string]interface{}{
			"purpose": "RENTAL_RETURN",
			"code":    "123456",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		s.otpSvc.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, domain.OTPPurposeReturn, mock.Anything, mock.Anything)
	})
}

func TestOTPHandler_Resend(t *testing.T) {
	s := newTestServer()
	auth := s.bearerFor(t, 7, "MEMBER")

	t.Run("Success Echoes Dev Code", func(t *testing.T) {
		s.otpSvc.On("Resend", mock.Anything, int32(7), domain.OTPPurposePhoneVerification, (*int32)(nil)).
			Return("654321", nil)

		rec := s.do(t, http.MethodPost, "/api/v1/otp/resend", auth, map[string]interface{}{
			"purpose": "PHONE_VERIFICATION",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "code resent", env.Message)

		var data struct {
			DevCode string `json:"dev_code"`
		}
		assert.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "654321", data.DevCode)
	})

	t.Run("No Live Code Maps To 404", func(t *testing.T) {
		s.otpSvc.ExpectedCalls = nil
		s.otpSvc.On("Resend", mock.Anything, int32(7), domain.OTPPurposePhoneVerification, (*int32)(nil)).
			Return("", domain.ErrNotFound("no live code to resend"))

		rec := s.do(t, http.MethodPost, "/api/v1/otp/resend", auth, map[string]interface{}{
			"purpose": "PHONE_VERIFICATION",
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/yourusername/otp-api/internal/pkg/errors"
	"github.com/yourusername/otp-api/internal/service"
)

func TestPasswordResetHandler_BindingErrors(t *testing.T) {
	h := NewPasswordResetHandler(nil)

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "empty body", body: map[string]interface{}{}},
		{name: "missing newPassword", body: map[string]interface{}{"email": "x@y.com"}},
		{name: "missing email", body: map[string]interface{}{"newPassword": "NewPass1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(t, tt.body)

			h.ResetPassword(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, "invalid input", resp["message"])
		})
	}
}

func TestPasswordResetHandler_HandleResetError(t *testing.T) {
	h := NewPasswordResetHandler(nil)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "validation error",
			err:         apperrors.ErrValidation,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid input",
		},
		{
			name:        "verification not found",
			err:         apperrors.ErrNotFound,
			wantStatus:  http.StatusNotFound,
			wantMessage: "verification not found",
		},
		{
			name:        "email not verified",
			err:         service.ErrEmailNotVerified,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "not verified",
		},
		{
			name:        "verification expired",
			err:         service.ErrVerificationExpired,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "code expired",
		},
		{
			name:        "unexpected error",
			err:         errors.New("db down"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			h.handleResetError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, tt.wantMessage, resp["message"])
		})
	}
}

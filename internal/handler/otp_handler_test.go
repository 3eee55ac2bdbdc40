package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/otp-api/internal/pkg/errors"
	"github.com/yourusername/otp-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext создает gin-контекст с JSON-телом для тестов
func newTestGinContext(t *testing.T, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

// parseJSONResponse разбирает JSON-ответ в map
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ============================================================================
// Валидация входных данных (binding)
// ============================================================================

func TestOtpHandler_RequestOtp_BindingErrors(t *testing.T) {
	h := NewOtpHandler(nil)

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "empty body", body: map[string]interface{}{}},
		{name: "missing channel", body: map[string]interface{}{"email": "a@b.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(t, tt.body)

			// Обработчик отклоняет запрос до обращения к сервису,
			// поэтому nil-сервис безопасен
			h.RequestOtp(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, "invalid input", resp["message"])
		})
	}
}

func TestOtpHandler_CheckOtp_BindingErrors(t *testing.T) {
	h := NewOtpHandler(nil)

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "empty body", body: map[string]interface{}{}},
		{name: "missing code", body: map[string]interface{}{"requestId": "req-1"}},
		{name: "missing requestId", body: map[string]interface{}{"code": "123456"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(t, tt.body)

			h.CheckOtp(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, false, resp["valid"], "Отказ всегда несет valid=false")
			assert.Equal(t, "invalid input", resp["message"])
		})
	}
}

// ============================================================================
// Отображение ошибок на HTTP-статусы
// ============================================================================

func TestOtpHandler_HandleRequestError(t *testing.T) {
	h := NewOtpHandler(nil)

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
			name:        "mail not configured",
			err:         service.ErrMailNotConfigured,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "mail config missing",
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

			h.handleRequestError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, tt.wantMessage, resp["message"])
		})
	}
}

func TestOtpHandler_HandleCheckError(t *testing.T) {
	h := NewOtpHandler(nil)

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
			name:        "request not found",
			err:         apperrors.ErrNotFound,
			wantStatus:  http.StatusNotFound,
			wantMessage: "not found",
		},
		{
			name:        "already used",
			err:         service.ErrOtpAlreadyUsed,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "already used",
		},
		{
			name:        "expired",
			err:         service.ErrOtpExpired,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "expired",
		},
		{
			name:        "too many attempts",
			err:         service.ErrOtpAttemptsExceeded,
			wantStatus:  http.StatusTooManyRequests,
			wantMessage: "too many attempts",
		},
		{
			name:        "unexpected error",
			err:         errors.New("redis down"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			h.handleCheckError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, false, resp["valid"])
			assert.Equal(t, tt.wantMessage, resp["message"])
		})
	}
}

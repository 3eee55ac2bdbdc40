package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/otp-api/internal/pkg/errors"
	"github.com/yourusername/otp-api/internal/service"
)

// OtpHandler обрабатывает запросы выдачи и проверки одноразовых кодов
type OtpHandler struct {
	otpService *service.OtpService
}

// NewOtpHandler создает новый обработчик одноразовых кодов
func NewOtpHandler(otpService *service.OtpService) *OtpHandler {
	return &OtpHandler{otpService: otpService}
}

// --- Request/response DTOs ---
// Имена JSON-полей повторяют внешний контракт (requestId, newPassword и т.д.)

// RequestOtpRequest — запрос на выдачу кода
type RequestOtpRequest struct {
	Channel string `json:"channel" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Context string `json:"context"`
}

// RequestOtpResponse — ответ на выдачу кода
type RequestOtpResponse struct {
	RequestID string `json:"requestId"`
	Message   string `json:"message"`
}

// CheckOtpRequest — запрос на проверку кода
type CheckOtpRequest struct {
	RequestID string `json:"requestId" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

// CheckOtpResponse — результат проверки кода
type CheckOtpResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// --- Handlers ---

// RequestOtp обрабатывает POST /api/otp/request
func (h *OtpHandler) RequestOtp(c *gin.Context) {
	var req RequestOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}

	requestID, err := h.otpService.RequestOtp(c.Request.Context(), service.RequestOtpInput{
		Channel: req.Channel,
		Email:   req.Email,
		Phone:   req.Phone,
		Context: req.Context,
	})
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	c.JSON(http.StatusOK, RequestOtpResponse{RequestID: requestID, Message: "sent"})
}

// CheckOtp обрабатывает POST /api/otp/check
func (h *OtpHandler) CheckOtp(c *gin.Context) {
	var req CheckOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "message": "invalid input"})
		return
	}

	valid, err := h.otpService.CheckOtp(c.Request.Context(), req.RequestID, req.Code)
	if err != nil {
		h.handleCheckError(c, err)
		return
	}

	message := "ok"
	if !valid {
		message = "invalid"
	}
	c.JSON(http.StatusOK, CheckOtpResponse{Valid: valid, Message: message})
}

// --- Error handling ---

// handleRequestError отображает ошибки выдачи кода на HTTP-статусы
func (h *OtpHandler) handleRequestError(c *gin.Context, err error) {
	log.Printf("[OtpHandler] Request OTP error: %v", err)

	if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
	} else if errors.Is(err, service.ErrMailNotConfigured) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "mail config missing"})
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed", "error": err.Error()})
	}
}

// handleCheckError отображает ошибки проверки кода на HTTP-статусы.
// Все ответы об отказе несут valid=false.
func (h *OtpHandler) handleCheckError(c *gin.Context, err error) {
	log.Printf("[OtpHandler] Check OTP error: %v", err)

	if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "message": "invalid input"})
	} else if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"valid": false, "message": "not found"})
	} else if errors.Is(err, service.ErrOtpAlreadyUsed) {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "message": "already used"})
	} else if errors.Is(err, service.ErrOtpExpired) {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "message": "expired"})
	} else if errors.Is(err, service.ErrOtpAttemptsExceeded) {
		c.JSON(http.StatusTooManyRequests, gin.H{"valid": false, "message": "too many attempts"})
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{"valid": false, "message": "failed", "error": err.Error()})
	}
}

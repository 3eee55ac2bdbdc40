package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/otp-api/internal/pkg/errors"
	"github.com/yourusername/otp-api/internal/service"
)

// PasswordResetHandler обрабатывает сброс пароля по подтвержденному email
type PasswordResetHandler struct {
	resetService *service.PasswordResetService
}

// NewPasswordResetHandler создает новый обработчик сброса пароля
func NewPasswordResetHandler(resetService *service.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{resetService: resetService}
}

// ResetPasswordRequest — запрос на сброс пароля
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ResetPassword обрабатывает POST /api/auth/reset-password
func (h *PasswordResetHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}

	if err := h.resetService.ResetPasswordViaVerifiedEmail(c.Request.Context(), req.Email, req.NewPassword); err != nil {
		h.handleResetError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// handleResetError отображает ошибки сброса пароля на HTTP-статусы.
// Неожиданные сбои несут строку причины для диагностики.
func (h *PasswordResetHandler) handleResetError(c *gin.Context, err error) {
	log.Printf("[PasswordResetHandler] Reset error: %v", err)

	if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
	} else if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "verification not found"})
	} else if errors.Is(err, service.ErrEmailNotVerified) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "not verified"})
	} else if errors.Is(err, service.ErrVerificationExpired) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "code expired"})
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed", "error": err.Error()})
	}
}

package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/otp-api/internal/domain/entity"
	"github.com/yourusername/otp-api/internal/domain/repository"
	apperrors "github.com/yourusername/otp-api/internal/pkg/errors"
)

// PasswordResetService выполняет сброс пароля по подтвержденному email.
// Шаги выполняются последовательно без компенсаций: частично примененное
// состояние при сбое на поздних шагах не откатывается.
type PasswordResetService struct {
	userRepo         repository.UserRepository
	verificationRepo repository.EmailVerificationRepository
}

// NewPasswordResetService создает новый сервис сброса пароля
func NewPasswordResetService(
	userRepo repository.UserRepository,
	verificationRepo repository.EmailVerificationRepository,
) (*PasswordResetService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if verificationRepo == nil {
		return nil, fmt.Errorf("email verification repository is required")
	}
	return &PasswordResetService{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
	}, nil
}

// ResetPasswordViaVerifiedEmail сбрасывает пароль пользователя, если для его
// email существует действующая запись подтверждения со статусом verified.
// Успешный сброс переводит запись в used: повторно она не расходуется.
func (s *PasswordResetService) ResetPasswordViaVerifiedEmail(ctx context.Context, email, newPassword string) error {
	if strings.TrimSpace(email) == "" || newPassword == "" {
		return fmt.Errorf("%w: email and new password are required", apperrors.ErrValidation)
	}
	normalized := strings.ToLower(strings.TrimSpace(email))

	record, err := s.verificationRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if !record.IsVerified() {
		return ErrEmailNotVerified
	}
	if record.IsExpired(time.Now()) {
		return ErrVerificationExpired
	}

	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(user.ID, newPassword); err != nil {
		return fmt.Errorf("failed to update user credential: %w", err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":                   entity.UserStatusActive,
		"is_temporary_password":    false,
		"hashed_password":          hashSecret(newPassword),
		"last_password_updated_at": &now,
		"hashed_temp_password":     nil,
	}
	if err := s.userRepo.UpdateProfile(user.ID, updates); err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}

	if err := s.verificationRepo.UpdateStatus(normalized, entity.VerificationStatusUsed); err != nil {
		return fmt.Errorf("failed to mark verification used: %w", err)
	}

	log.Printf("[PasswordReset] Пароль обновлён для пользователя ID=%d", user.ID)
	return nil
}

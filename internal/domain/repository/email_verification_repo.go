package repository

import "github.com/yourusername/otp-api/internal/domain/entity"

// EmailVerificationRepository persists per-email verification records written by
// the external verification flow and consumed by the password reset flow.
type EmailVerificationRepository interface {
	// Upsert writes a record for its email, replacing any previous one.
	Upsert(record *entity.EmailVerification) error
	GetByEmail(email string) (*entity.EmailVerification, error)
	UpdateStatus(email string, status string) error
}

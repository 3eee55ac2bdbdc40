package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/otp-api/internal/domain/entity"
	apperrors "github.com/yourusername/otp-api/internal/pkg/errors"
)

// EmailVerificationRepo реализует repository.EmailVerificationRepository
type EmailVerificationRepo struct {
	db *gorm.DB
}

// NewEmailVerificationRepo создает новый репозиторий записей подтверждения email
func NewEmailVerificationRepo(db *gorm.DB) *EmailVerificationRepo {
	return &EmailVerificationRepo{db: db}
}

// Upsert записывает запись подтверждения, перезаписывая предыдущую для того же email
func (r *EmailVerificationRepo) Upsert(record *entity.EmailVerification) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "expires_at", "updated_at"}),
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert email verification: %w", err)
	}
	return nil
}

// GetByEmail возвращает запись подтверждения по нормализованному email
func (r *EmailVerificationRepo) GetByEmail(email string) (*entity.EmailVerification, error) {
	var record entity.EmailVerification
	err := r.db.Where("email = ?", email).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get email verification: %w", err)
	}
	return &record, nil
}

// UpdateStatus переводит запись подтверждения в новый статус
func (r *EmailVerificationRepo) UpdateStatus(email string, status string) error {
	res := r.db.Model(&entity.EmailVerification{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update email verification status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

package entity

import "time"

// Статусы записи подтверждения email. Статус "verified" выставляется внешним
// флоу подтверждения; этот сервис читает "verified" и записывает "used".
const (
	VerificationStatusPending  = "pending"
	VerificationStatusVerified = "verified"
	VerificationStatusUsed     = "used"
)

// EmailVerification — запись о подтверждении email, одна на нормализованный адрес.
// Последняя запись перезаписывает предыдущую (latest write wins).
type EmailVerification struct {
	Email     string     `gorm:"size:100;primaryKey" json:"email"`
	Status    string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (EmailVerification) TableName() string {
	return "email_verifications"
}

// IsVerified возвращает true, если запись подтверждена и еще не израсходована
func (e *EmailVerification) IsVerified() bool {
	return e.Status == VerificationStatusVerified
}

// IsExpired возвращает true, когда срок действия подтверждения истек.
// Отсутствующий срок трактуется как уже истекший.
func (e *EmailVerification) IsExpired(now time.Time) bool {
	if e.ExpiresAt == nil {
		return true
	}
	return !now.Before(*e.ExpiresAt)
}

package entity

import "time"

// Каналы доставки одноразовых кодов
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// DefaultOtpContext используется, если вызывающая сторона не указала контекст запроса.
const DefaultOtpContext = "login"

// OtpRequest хранит хешированный одноразовый код и состояние его проверки.
// Открытый код никогда не сохраняется, только SHA-256 дайджест.
type OtpRequest struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Channel   string    `gorm:"size:10;not null" json:"channel"`
	Target    string    `gorm:"size:255;not null;index" json:"target"`
	Context   string    `gorm:"size:50;not null;default:'login'" json:"context"`
	CodeHash  string    `gorm:"size:64;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	Attempts  int       `gorm:"not null;default:0" json:"attempts"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (OtpRequest) TableName() string {
	return "otp_requests"
}

// IsExpired возвращает true, когда срок действия кода уже наступил (now >= expires_at)
func (o *OtpRequest) IsExpired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// CanAttempt возвращает true, если следующая попытка проверки еще укладывается в лимит.
// Лимит проверяется до инкремента: при maxAttempts=5 пятая попытка допускается,
// шестая отклоняется.
func (o *OtpRequest) CanAttempt(maxAttempts int) bool {
	return o.Attempts+1 <= maxAttempts
}

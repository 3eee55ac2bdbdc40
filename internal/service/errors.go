package service

import "errors"

// Терминальные бизнес-ошибки жизненного цикла OTP и сброса пароля.
// Повторный запрос с тем же кодом их не снимает.
var (
	ErrOtpAlreadyUsed      = errors.New("otp code already used")
	ErrOtpExpired          = errors.New("otp code expired")
	ErrOtpAttemptsExceeded = errors.New("too many otp attempts")

	// ErrMailNotConfigured — сервис не может доставить код: канал email
	// запрошен, но почтовый провайдер не сконфигурирован.
	ErrMailNotConfigured = errors.New("mail delivery is not configured")

	ErrEmailNotVerified    = errors.New("email is not verified")
	ErrVerificationExpired = errors.New("email verification expired")
)

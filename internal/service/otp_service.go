package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/otp-api/internal/domain/entity"
	"github.com/yourusername/otp-api/internal/domain/repository"
	apperrors "github.com/yourusername/otp-api/internal/pkg/errors"
)

// RequestOtpInput — входные данные запроса одноразового кода
type RequestOtpInput struct {
	Channel string
	Email   string
	Phone   string
	Context string
}

// OtpService управляет жизненным циклом одноразовых кодов: выдача,
// проверка с лимитом попыток и одноразовое потребление.
type OtpService struct {
	otpRepo      repository.OtpRequestRepository
	emailService EmailService // nil, когда почтовый провайдер не сконфигурирован
	codeTTL      time.Duration
	maxAttempts  int
}

// NewOtpService создает новый сервис одноразовых кодов.
// emailService может быть nil: запрос кода по email тогда завершится
// ErrMailNotConfigured после создания записи.
func NewOtpService(
	otpRepo repository.OtpRequestRepository,
	emailService EmailService,
	codeTTL time.Duration,
	maxAttempts int,
) (*OtpService, error) {
	if otpRepo == nil {
		return nil, fmt.Errorf("otp repository is required")
	}
	if codeTTL <= 0 {
		codeTTL = 5 * time.Minute
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	return &OtpService{
		otpRepo:      otpRepo,
		emailService: emailService,
		codeTTL:      codeTTL,
		maxAttempts:  maxAttempts,
	}, nil
}

// RequestOtp генерирует код, сохраняет его хеш и отправляет код получателю.
// Возвращает идентификатор запроса, по которому код затем проверяется.
func (s *OtpService) RequestOtp(ctx context.Context, input RequestOtpInput) (string, error) {
	var target string
	switch input.Channel {
	case entity.ChannelEmail:
		if strings.TrimSpace(input.Email) == "" {
			return "", fmt.Errorf("%w: email is required for email channel", apperrors.ErrValidation)
		}
		target = strings.ToLower(strings.TrimSpace(input.Email))
	case entity.ChannelSMS:
		if input.Phone == "" {
			return "", fmt.Errorf("%w: phone is required for sms channel", apperrors.ErrValidation)
		}
		target = input.Phone
	default:
		return "", fmt.Errorf("%w: unsupported channel %q", apperrors.ErrValidation, input.Channel)
	}

	code, err := generateOtpCode()
	if err != nil {
		return "", err
	}

	otpContext := input.Context
	if otpContext == "" {
		otpContext = entity.DefaultOtpContext
	}

	record := &entity.OtpRequest{
		Channel:   input.Channel,
		Target:    target,
		Context:   otpContext,
		CodeHash:  hashSecret(code),
		ExpiresAt: time.Now().Add(s.codeTTL),
		Attempts:  0,
		Used:      false,
	}
	requestID, err := s.otpRepo.Create(record)
	if err != nil {
		return "", err
	}

	if input.Channel == entity.ChannelEmail {
		if s.emailService == nil {
			// Запись уже создана, но код не доставлен. Повторная доставка того же
			// кода не предусмотрена — клиент должен запросить новый код.
			log.Printf("[OtpService] Запрос %s не доставлен: почтовый провайдер не сконфигурирован", requestID)
			return "", ErrMailNotConfigured
		}
		idempotencyKey := fmt.Sprintf("otp-request:%s", requestID)
		if err := s.emailService.SendOtpCode(ctx, target, code, idempotencyKey); err != nil {
			return "", fmt.Errorf("failed to send otp email: %w", err)
		}
	}

	return requestID, nil
}

// CheckOtp проверяет код по идентификатору запроса. Решения терминальны
// и принимаются по порядку: not found, already used, expired, too many
// attempts — и только затем регистрируется попытка сравнения.
func (s *OtpService) CheckOtp(ctx context.Context, requestID, code string) (bool, error) {
	if strings.TrimSpace(requestID) == "" || strings.TrimSpace(code) == "" {
		return false, fmt.Errorf("%w: request id and code are required", apperrors.ErrValidation)
	}

	record, err := s.otpRepo.GetByID(requestID)
	if err != nil {
		return false, err
	}

	now := time.Now()
	if record.Used {
		return false, ErrOtpAlreadyUsed
	}
	if record.IsExpired(now) {
		return false, ErrOtpExpired
	}
	if !record.CanAttempt(s.maxAttempts) {
		return false, ErrOtpAttemptsExceeded
	}

	ok := subtle.ConstantTimeCompare([]byte(hashSecret(code)), []byte(record.CodeHash)) == 1
	if err := s.otpRepo.UpdateAttempt(requestID, ok); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Параллельная проверка успела израсходовать код первой
			return false, ErrOtpAlreadyUsed
		}
		return false, err
	}

	return ok, nil
}

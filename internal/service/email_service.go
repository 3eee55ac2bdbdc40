package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// EmailService sends transactional emails.
type EmailService interface {
	SendOtpCode(ctx context.Context, toEmail, code, idempotencyKey string) error
}

// NoopEmailService is used in tests and local development without a mail provider.
type NoopEmailService struct{}

func (s *NoopEmailService) SendOtpCode(ctx context.Context, toEmail, code, idempotencyKey string) error {
	log.Printf("[EmailService] noop send otp code to=%s", toEmail)
	return nil
}

// ResendEmailService sends emails via Resend REST API.
type ResendEmailService struct {
	from    string
	codeTTL time.Duration
	client  *resend.Client
}

func NewResendEmailService(apiKey, from string, codeTTL time.Duration) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	if codeTTL <= 0 {
		codeTTL = 5 * time.Minute
	}
	return &ResendEmailService{
		from:    from,
		codeTTL: codeTTL,
		client:  resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) SendOtpCode(ctx context.Context, toEmail, code, idempotencyKey string) error {
	if toEmail == "" || code == "" {
		return fmt.Errorf("toEmail and code are required")
	}

	ttlMinutes := int(s.codeTTL.Minutes())
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Your verification code",
		Text:    fmt.Sprintf("Your OTP is %s. It expires in %d minutes.", code, ttlMinutes),
		Html:    fmt.Sprintf("<p>Your OTP is <b>%s</b>. It expires in %d minutes.</p>", code, ttlMinutes),
	}

	options := &resend.SendEmailOptions{}
	if strings.TrimSpace(idempotencyKey) != "" {
		options.IdempotencyKey = strings.TrimSpace(idempotencyKey)
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

// resendRetryDelay решает, стоит ли повторить отправку, и с какой задержкой
func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}

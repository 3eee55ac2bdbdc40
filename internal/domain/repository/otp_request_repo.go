package repository

import "github.com/yourusername/otp-api/internal/domain/entity"

// OtpRequestRepository persists one-time passcode requests.
type OtpRequestRepository interface {
	// Create persists a new request and returns the identifier assigned by the store.
	Create(req *entity.OtpRequest) (string, error)
	GetByID(id string) (*entity.OtpRequest, error)
	// UpdateAttempt atomically increments the attempt counter and sets the used
	// flag for one verification attempt. Concurrent attempts on the same id
	// serialize: a record already consumed returns apperrors.ErrConflict and is
	// never mutated again, an unknown id returns apperrors.ErrNotFound.
	UpdateAttempt(id string, used bool) error
}

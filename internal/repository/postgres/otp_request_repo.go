package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/otp-api/internal/domain/entity"
	apperrors "github.com/yourusername/otp-api/internal/pkg/errors"
)

// OtpRequestRepo реализует repository.OtpRequestRepository
type OtpRequestRepo struct {
	db *gorm.DB
}

// NewOtpRequestRepo создает новый репозиторий одноразовых кодов
func NewOtpRequestRepo(db *gorm.DB) *OtpRequestRepo {
	return &OtpRequestRepo{db: db}
}

// Create сохраняет новый запрос кода и присваивает ему идентификатор
func (r *OtpRequestRepo) Create(req *entity.OtpRequest) (string, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if err := r.db.Create(req).Error; err != nil {
		return "", fmt.Errorf("failed to create otp request: %w", err)
	}
	return req.ID, nil
}

// GetByID возвращает запрос кода по идентификатору
func (r *OtpRequestRepo) GetByID(id string) (*entity.OtpRequest, error) {
	var req entity.OtpRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get otp request: %w", err)
	}
	return &req, nil
}

// UpdateAttempt регистрирует одну попытку проверки: увеличивает счетчик попыток
// и выставляет флаг used. Инкремент выполняется на стороне БД, а guard
// used = FALSE сериализует конкурирующие проверки одного id: запись,
// израсходованную параллельным запросом, изменить повторно нельзя.
func (r *OtpRequestRepo) UpdateAttempt(id string, used bool) error {
	res := r.db.Model(&entity.OtpRequest{}).
		Where("id = ? AND used = FALSE", id).
		Updates(map[string]interface{}{
			"attempts": gorm.Expr("attempts + 1"),
			"used":     used,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update otp attempt: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Либо записи нет, либо она уже израсходована — различаем по наличию строки
		var count int64
		if err := r.db.Model(&entity.OtpRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check otp request existence: %w", err)
		}
		if count == 0 {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrConflict
	}
	return nil
}

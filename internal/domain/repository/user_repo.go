package repository

import "github.com/yourusername/otp-api/internal/domain/entity"

// UserRepository определяет методы для работы с каталогом пользователей.
// Каталог для этого сервиса — внешний коллаборатор: сервис находит
// пользователя по email, обновляет учетные данные и метаданные профиля,
// но не владеет аутентификацией.
type UserRepository interface {
	GetByEmail(email string) (*entity.User, error)
	UpdatePassword(userID uint, newPassword string) error
	UpdateProfile(userID uint, updates map[string]interface{}) error
}

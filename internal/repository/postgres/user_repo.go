package postgres

import (
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yourusername/otp-api/internal/domain/entity"
	apperrors "github.com/yourusername/otp-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetByEmail возвращает пользователя по email
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdatePassword безопасно обновляет пароль пользователя.
// Хеширует пароль перед сохранением в базу данных.
func (r *UserRepo) UpdatePassword(userID uint, newPassword string) error {
	// Хешируем пароль непосредственно здесь, вместо того чтобы полагаться на BeforeSave
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[UserRepo.UpdatePassword] Ошибка при хешировании пароля: %v", err)
		return err
	}

	// Используем SQL запрос напрямую, чтобы обойти хук BeforeSave и предотвратить двойное хеширование
	result := r.db.Exec(
		"UPDATE users SET password = ?, updated_at = ? WHERE id = ?",
		string(hashedPassword),
		time.Now(),
		userID,
	)
	if result.Error != nil {
		log.Printf("[UserRepo.UpdatePassword] Ошибка при обновлении пароля для пользователя ID=%d: %v", userID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	log.Printf("[UserRepo.UpdatePassword] Пароль успешно обновлён для пользователя ID=%d", userID)
	return nil
}

// UpdateProfile обновляет метаданные профиля пользователя без изменения пароля.
// Этот метод обновляет только указанные поля, не затрагивая учетные данные.
func (r *UserRepo) UpdateProfile(userID uint, updates map[string]interface{}) error {
	// Проверяем, что не пытаемся обновить пароль через этот метод
	delete(updates, "password")

	// Устанавливаем время обновления
	updates["updated_at"] = time.Now()

	res := r.db.Model(&entity.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

package repository

import (
	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByIDs(ids []uint) ([]entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	UpdateProfile(userID uint, updates map[string]interface{}) error
	UpdatePassword(userID uint, newPassword string) error

	// ApplyAttemptResult атомарно применяет результат попытки к агрегатам пользователя
	ApplyAttemptResult(userID uint, isCorrect bool, points int) error

	// GetLeaderboard возвращает пользователей по суммарным баллам с пагинацией и общим количеством
	GetLeaderboard(limit, offset int) ([]entity.User, int64, error)
}

package repository

import (
	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// FollowRepository определяет методы для работы с подписками
type FollowRepository interface {
	// Create добавляет подписку и атомарно обновляет счётчики обоих пользователей.
	// Повторная подписка возвращает ErrConflict.
	Create(followerID, followeeID uint) error
	// Delete снимает подписку и обновляет счётчики. Отсутствующая подписка — ErrNotFound.
	Delete(followerID, followeeID uint) error
	Exists(followerID, followeeID uint) (bool, error)
	ListFollowers(userID uint, limit, offset int) ([]entity.User, error)
	ListFollowing(userID uint, limit, offset int) ([]entity.User, error)
	FollowingIDs(userID uint) ([]uint, error)
}

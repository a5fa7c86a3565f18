package repository

import (
	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// RefreshTokenRepository определяет методы для работы с refresh-токенами
type RefreshTokenRepository interface {
	Create(token *entity.RefreshToken) error
	GetByHash(tokenHash string) (*entity.RefreshToken, error)
	Delete(tokenHash string) error
	DeleteByUser(userID uint) error
	DeleteExpired() (int64, error)
}

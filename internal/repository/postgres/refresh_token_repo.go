package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
)

// RefreshTokenRepo реализует repository.RefreshTokenRepository
type RefreshTokenRepo struct {
	db *gorm.DB
}

// NewRefreshTokenRepo создает новый репозиторий refresh-токенов
func NewRefreshTokenRepo(db *gorm.DB) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db}
}

// Create сохраняет новый refresh-токен
func (r *RefreshTokenRepo) Create(token *entity.RefreshToken) error {
	return r.db.Create(token).Error
}

// GetByHash возвращает токен по его SHA-256 хешу
func (r *RefreshTokenRepo) GetByHash(tokenHash string) (*entity.RefreshToken, error) {
	var token entity.RefreshToken
	err := r.db.Where("token_hash = ?", tokenHash).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

// Delete удаляет токен по хешу (ротация при refresh)
func (r *RefreshTokenRepo) Delete(tokenHash string) error {
	result := r.db.Where("token_hash = ?", tokenHash).Delete(&entity.RefreshToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteByUser удаляет все токены пользователя (logout со всех устройств)
func (r *RefreshTokenRepo) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&entity.RefreshToken{}).Error
}

// DeleteExpired удаляет просроченные токены, возвращает число удаленных
func (r *RefreshTokenRepo) DeleteExpired() (int64, error) {
	result := r.db.Where("expires_at < ?", time.Now()).Delete(&entity.RefreshToken{})
	return result.RowsAffected, result.Error
}

package entity

import (
	"time"
)

// RefreshToken представляет refresh-токен пользователя.
// Хранится SHA-256 хеш токена, не сам токен.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TokenHash string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// IsExpired возвращает true, если срок жизни токена истек
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

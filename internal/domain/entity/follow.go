package entity

import (
	"time"
)

// Follow представляет подписку одного пользователя на другого.
// Подписка на самого себя запрещена на уровне сервиса.
type Follow struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	FollowerID uint `gorm:"not null;index;uniqueIndex:idx_follows_once" json:"follower_id"`
	FolloweeID uint `gorm:"not null;index;uniqueIndex:idx_follows_once" json:"followee_id"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Follow) TableName() string {
	return "follows"
}

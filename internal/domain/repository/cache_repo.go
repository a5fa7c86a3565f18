package repository

import (
	"time"
)

// CacheRepository определяет методы для работы с кешем и счётчиками в Redis
type CacheRepository interface {
	// Increment атомарно увеличивает счётчик; на первом инкременте
	// ключу выставляется TTL, равный window
	Increment(key string, window time.Duration) (int64, error)
	Delete(key string) error
	SetJSON(key string, value interface{}, expiration time.Duration) error
	GetJSON(key string, dest interface{}) error
}

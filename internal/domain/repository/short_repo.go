package repository

import (
	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// ShortStats агрегирует статистику попыток по одному шорту
type ShortStats struct {
	Attempts    int64   `json:"attempts"`
	Correct     int64   `json:"correct"`
	AvgTimeMs   float64 `json:"avg_time_ms"`
	TotalPoints int64   `json:"total_points"`
}

// ShortRepository определяет методы для работы с шортами и попытками ответов
type ShortRepository interface {
	Create(short *entity.Short) error
	GetByID(id uint) (*entity.Short, error)
	Delete(id uint) error
	ListByClassroom(classroomID uint, limit, offset int) ([]entity.Short, int64, error)
	ListByAuthor(authorID uint, limit, offset int) ([]entity.Short, error)

	// CreateAttempt сохраняет попытку и атомарно обновляет счётчики шорта.
	// Вторая попытка того же пользователя возвращает ErrConflict.
	CreateAttempt(attempt *entity.ShortAttempt) error
	GetAttempt(shortID, userID uint) (*entity.ShortAttempt, error)
	ListAttempts(shortID uint, limit, offset int) ([]entity.ShortAttempt, int64, error)
	GetStats(shortID uint) (*ShortStats, error)
}

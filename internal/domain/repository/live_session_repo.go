package repository

import (
	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// LiveSessionRepository определяет методы для работы с живыми сессиями
type LiveSessionRepository interface {
	Create(session *entity.LiveSession) error
	GetByID(id uint) (*entity.LiveSession, error)
	GetActiveByClassroom(classroomID uint) (*entity.LiveSession, error)
	End(id uint) error
	ListByClassroom(classroomID uint, limit, offset int) ([]entity.LiveSession, error)
}

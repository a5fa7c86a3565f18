package repository

import (
	"time"

	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// ClassroomRepository определяет методы для работы с классами и их участниками
type ClassroomRepository interface {
	Create(classroom *entity.Classroom, owner *entity.ClassroomMember) error
	GetByID(id uint) (*entity.Classroom, error)
	GetByJoinCode(code string) (*entity.Classroom, error)
	List(limit, offset int, search string) ([]entity.Classroom, int64, error)
	ListByMember(userID uint, limit, offset int) ([]entity.Classroom, error)
	UpdateSchedule(classroomID uint, scheduledAt time.Time, durationMinutes int) error

	// AddMember добавляет участника и атомарно увеличивает members_count.
	// Повторное вступление возвращает ErrConflict.
	AddMember(member *entity.ClassroomMember) error
	IsMember(classroomID, userID uint) (bool, error)
	ListMembers(classroomID uint, limit, offset int) ([]entity.ClassroomMember, error)
	MemberClassroomIDs(userID uint) ([]uint, error)
}

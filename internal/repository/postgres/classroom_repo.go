package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
)

// ClassroomRepo реализует repository.ClassroomRepository
type ClassroomRepo struct {
	db *gorm.DB
}

// NewClassroomRepo создает новый репозиторий классов
func NewClassroomRepo(db *gorm.DB) *ClassroomRepo {
	return &ClassroomRepo{db: db}
}

// Create создает класс и членство владельца в одной транзакции
func (r *ClassroomRepo) Create(classroom *entity.Classroom, owner *entity.ClassroomMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(classroom).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: join code collision", apperrors.ErrConflict)
			}
			return err
		}
		owner.ClassroomID = classroom.ID
		if err := tx.Create(owner).Error; err != nil {
			return err
		}
		return tx.Model(classroom).Update("members_count", 1).Error
	})
}

// GetByID возвращает класс по ID
func (r *ClassroomRepo) GetByID(id uint) (*entity.Classroom, error) {
	var classroom entity.Classroom
	err := r.db.First(&classroom, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &classroom, nil
}

// GetByJoinCode возвращает класс по коду приглашения
func (r *ClassroomRepo) GetByJoinCode(code string) (*entity.Classroom, error) {
	var classroom entity.Classroom
	err := r.db.Where("join_code = ?", code).First(&classroom).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &classroom, nil
}

// List возвращает список классов с пагинацией, поиском и total count
func (r *ClassroomRepo) List(limit, offset int, search string) ([]entity.Classroom, int64, error) {
	var classrooms []entity.Classroom
	var total int64

	query := r.db.Model(&entity.Classroom{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR subject ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&classrooms).Error
	if err != nil {
		return nil, 0, err
	}
	return classrooms, total, nil
}

// ListByMember возвращает классы, в которых состоит пользователь
func (r *ClassroomRepo) ListByMember(userID uint, limit, offset int) ([]entity.Classroom, error) {
	var classrooms []entity.Classroom
	err := r.db.
		Joins("JOIN classroom_members ON classroom_members.classroom_id = classrooms.id").
		Where("classroom_members.user_id = ?", userID).
		Order("classrooms.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&classrooms).Error
	return classrooms, err
}

// UpdateSchedule точечно обновляет расписание занятия (без full Save)
func (r *ClassroomRepo) UpdateSchedule(classroomID uint, scheduledAt time.Time, durationMinutes int) error {
	result := r.db.Model(&entity.Classroom{}).
		Where("id = ?", classroomID).
		Updates(map[string]interface{}{
			"scheduled_at":     scheduledAt,
			"duration_minutes": durationMinutes,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AddMember добавляет участника и атомарно увеличивает members_count
func (r *ClassroomRepo) AddMember(member *entity.ClassroomMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: user #%d is already a member of classroom #%d",
					apperrors.ErrConflict, member.UserID, member.ClassroomID)
			}
			return err
		}
		return tx.Model(&entity.Classroom{}).
			Where("id = ?", member.ClassroomID).
			Update("members_count", gorm.Expr("members_count + 1")).Error
	})
}

// IsMember проверяет членство пользователя в классе
func (r *ClassroomRepo) IsMember(classroomID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.ClassroomMember{}).
		Where("classroom_id = ? AND user_id = ?", classroomID, userID).
		Count(&count).Error
	return count > 0, err
}

// ListMembers возвращает участников класса с пагинацией
func (r *ClassroomRepo) ListMembers(classroomID uint, limit, offset int) ([]entity.ClassroomMember, error) {
	var members []entity.ClassroomMember
	err := r.db.
		Where("classroom_id = ?", classroomID).
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&members).Error
	return members, err
}

// MemberClassroomIDs возвращает ID всех классов пользователя
func (r *ClassroomRepo) MemberClassroomIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entity.ClassroomMember{}).
		Where("user_id = ?", userID).
		Pluck("classroom_id", &ids).Error
	return ids, err
}

package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
)

// LiveSessionRepo реализует repository.LiveSessionRepository
type LiveSessionRepo struct {
	db *gorm.DB
}

// NewLiveSessionRepo создает новый репозиторий live-сессий
func NewLiveSessionRepo(db *gorm.DB) *LiveSessionRepo {
	return &LiveSessionRepo{db: db}
}

// Create создает новую live-сессию
func (r *LiveSessionRepo) Create(session *entity.LiveSession) error {
	return r.db.Create(session).Error
}

// GetByID возвращает сессию по ID
func (r *LiveSessionRepo) GetByID(id uint) (*entity.LiveSession, error) {
	var session entity.LiveSession
	err := r.db.First(&session, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetActiveByClassroom возвращает активную сессию класса, если она есть
func (r *LiveSessionRepo) GetActiveByClassroom(classroomID uint) (*entity.LiveSession, error) {
	var session entity.LiveSession
	err := r.db.
		Where("classroom_id = ? AND status = ?", classroomID, entity.LiveSessionStatusActive).
		Order("id DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// End переводит активную сессию в статус ended
func (r *LiveSessionRepo) End(id uint) error {
	result := r.db.Model(&entity.LiveSession{}).
		Where("id = ? AND status = ?", id, entity.LiveSessionStatusActive).
		Updates(map[string]interface{}{
			"status":   entity.LiveSessionStatusEnded,
			"ended_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListByClassroom возвращает историю сессий класса
func (r *LiveSessionRepo) ListByClassroom(classroomID uint, limit, offset int) ([]entity.LiveSession, error) {
	var sessions []entity.LiveSession
	err := r.db.
		Where("classroom_id = ?", classroomID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&sessions).Error
	return sessions, err
}

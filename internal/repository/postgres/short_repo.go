package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	"github.com/yourusername/classroom-api/internal/domain/repository"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
)

// ShortRepo реализует repository.ShortRepository
type ShortRepo struct {
	db *gorm.DB
}

// NewShortRepo создает новый репозиторий шортсов
func NewShortRepo(db *gorm.DB) *ShortRepo {
	return &ShortRepo{db: db}
}

// Create создает новый шортс
func (r *ShortRepo) Create(short *entity.Short) error {
	return r.db.Create(short).Error
}

// GetByID возвращает шортс по ID
func (r *ShortRepo) GetByID(id uint) (*entity.Short, error) {
	var short entity.Short
	err := r.db.First(&short, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &short, nil
}

// Delete удаляет шортс вместе с попытками
func (r *ShortRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("short_id = ?", id).Delete(&entity.ShortAttempt{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.Short{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// ListByClassroom возвращает шортсы класса с пагинацией и total count
func (r *ShortRepo) ListByClassroom(classroomID uint, limit, offset int) ([]entity.Short, int64, error) {
	var shorts []entity.Short
	var total int64

	query := r.db.Model(&entity.Short{}).Where("classroom_id = ?", classroomID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&shorts).Error
	if err != nil {
		return nil, 0, err
	}
	return shorts, total, nil
}

// ListByAuthor возвращает шортсы автора с пагинацией
func (r *ShortRepo) ListByAuthor(authorID uint, limit, offset int) ([]entity.Short, error) {
	var shorts []entity.Short
	err := r.db.
		Where("author_id = ?", authorID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&shorts).Error
	return shorts, err
}

// CreateAttempt сохраняет попытку и атомарно обновляет счетчики шортса.
// Уникальный индекс (short_id, user_id) гарантирует одну попытку на пользователя.
func (r *ShortRepo) CreateAttempt(attempt *entity.ShortAttempt) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: user #%d already attempted short #%d", apperrors.ErrConflict, attempt.UserID, attempt.ShortID)
			}
			return err
		}

		updates := map[string]interface{}{
			"attempts_count": gorm.Expr("attempts_count + 1"),
		}
		if attempt.IsCorrect {
			updates["correct_count"] = gorm.Expr("correct_count + 1")
		}
		return tx.Model(&entity.Short{}).Where("id = ?", attempt.ShortID).Updates(updates).Error
	})
}

// GetAttempt возвращает попытку пользователя по шортсу
func (r *ShortRepo) GetAttempt(shortID, userID uint) (*entity.ShortAttempt, error) {
	var attempt entity.ShortAttempt
	err := r.db.Where("short_id = ? AND user_id = ?", shortID, userID).First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// ListAttempts возвращает попытки по шортсу с пагинацией и total count
func (r *ShortRepo) ListAttempts(shortID uint, limit, offset int) ([]entity.ShortAttempt, int64, error) {
	var attempts []entity.ShortAttempt
	var total int64

	query := r.db.Model(&entity.ShortAttempt{}).Where("short_id = ?", shortID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id ASC").Limit(limit).Offset(offset).Find(&attempts).Error
	if err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

// GetStats возвращает агрегированную статистику по шортсу
func (r *ShortRepo) GetStats(shortID uint) (*repository.ShortStats, error) {
	var stats repository.ShortStats
	err := r.db.Model(&entity.ShortAttempt{}).
		Select("COUNT(*) AS attempts, "+
			"COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0) AS correct, "+
			"COALESCE(AVG(time_taken_ms), 0) AS avg_time_ms, "+
			"COALESCE(SUM(points_awarded), 0) AS total_points").
		Where("short_id = ?", shortID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

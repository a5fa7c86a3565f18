package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
)

// NoteRepo реализует repository.NoteRepository
type NoteRepo struct {
	db *gorm.DB
}

// NewNoteRepo создает новый репозиторий заметок
func NewNoteRepo(db *gorm.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

// Create создает новую заметку
func (r *NoteRepo) Create(note *entity.Note) error {
	return r.db.Create(note).Error
}

// GetByID возвращает заметку по ID
func (r *NoteRepo) GetByID(id uint) (*entity.Note, error) {
	var note entity.Note
	err := r.db.First(&note, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

// Delete удаляет заметку вместе с её лайками
func (r *NoteRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", id).Delete(&entity.NoteLike{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.Note{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// ListByAuthor возвращает заметки автора с пагинацией
func (r *NoteRepo) ListByAuthor(authorID uint, limit, offset int) ([]entity.Note, error) {
	var notes []entity.Note
	err := r.db.
		Where("author_id = ?", authorID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&notes).Error
	return notes, err
}

// ListByClassroom возвращает заметки класса с пагинацией и total count
func (r *NoteRepo) ListByClassroom(classroomID uint, limit, offset int) ([]entity.Note, int64, error) {
	var notes []entity.Note
	var total int64

	query := r.db.Model(&entity.Note{}).Where("classroom_id = ?", classroomID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&notes).Error
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

// ListFeed возвращает заметки подписок и классов пользователя по убыванию даты
func (r *NoteRepo) ListFeed(authorIDs []uint, classroomIDs []uint, limit, offset int) ([]entity.Note, error) {
	if len(authorIDs) == 0 && len(classroomIDs) == 0 {
		return nil, nil
	}

	query := r.db.Model(&entity.Note{})
	switch {
	case len(authorIDs) > 0 && len(classroomIDs) > 0:
		query = query.Where("author_id IN ? OR classroom_id IN ?", authorIDs, classroomIDs)
	case len(authorIDs) > 0:
		query = query.Where("author_id IN ?", authorIDs)
	default:
		query = query.Where("classroom_id IN ?", classroomIDs)
	}

	var notes []entity.Note
	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&notes).Error
	return notes, err
}

// Like добавляет лайк и атомарно увеличивает likes_count
func (r *NoteRepo) Like(noteID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		like := &entity.NoteLike{NoteID: noteID, UserID: userID}
		if err := tx.Create(like).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: note #%d already liked by user #%d", apperrors.ErrConflict, noteID, userID)
			}
			return err
		}
		return tx.Model(&entity.Note{}).
			Where("id = ?", noteID).
			Update("likes_count", gorm.Expr("likes_count + 1")).Error
	})
}

// Unlike снимает лайк и атомарно уменьшает likes_count
func (r *NoteRepo) Unlike(noteID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("note_id = ? AND user_id = ?", noteID, userID).Delete(&entity.NoteLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return tx.Model(&entity.Note{}).
			Where("id = ? AND likes_count > 0", noteID).
			Update("likes_count", gorm.Expr("likes_count - 1")).Error
	})
}

// IsLiked проверяет, лайкнул ли пользователь заметку
func (r *NoteRepo) IsLiked(noteID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.NoteLike{}).
		Where("note_id = ? AND user_id = ?", noteID, userID).
		Count(&count).Error
	return count > 0, err
}

package repository

import (
	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// NoteRepository определяет методы для работы с заметками и лайками
type NoteRepository interface {
	Create(note *entity.Note) error
	GetByID(id uint) (*entity.Note, error)
	Delete(id uint) error
	ListByAuthor(authorID uint, limit, offset int) ([]entity.Note, error)
	ListByClassroom(classroomID uint, limit, offset int) ([]entity.Note, int64, error)

	// ListFeed возвращает заметки авторов из authorIDs и классов из classroomIDs,
	// отсортированные по убыванию даты создания
	ListFeed(authorIDs []uint, classroomIDs []uint, limit, offset int) ([]entity.Note, error)

	// Like добавляет лайк и атомарно увеличивает likes_count.
	// Повторный лайк возвращает ErrConflict.
	Like(noteID, userID uint) error
	// Unlike снимает лайк и уменьшает likes_count. Отсутствующий лайк — ErrNotFound.
	Unlike(noteID, userID uint) error
	IsLiked(noteID, userID uint) (bool, error)
}

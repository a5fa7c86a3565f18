package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	"github.com/yourusername/classroom-api/internal/domain/repository"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
	"github.com/yourusername/classroom-api/internal/websocket"
)

// Время жизни кеша ленты
const feedCacheTTL = 30 * time.Second

// NoteService предоставляет методы для работы с заметками, лайками и лентой
type NoteService struct {
	noteRepo      repository.NoteRepository
	classroomRepo repository.ClassroomRepository
	followRepo    repository.FollowRepository
	cacheRepo     repository.CacheRepository
	hub           *websocket.Hub
}

// NewNoteService создает новый сервис заметок
func NewNoteService(
	noteRepo repository.NoteRepository,
	classroomRepo repository.ClassroomRepository,
	followRepo repository.FollowRepository,
	cacheRepo repository.CacheRepository,
	hub *websocket.Hub,
) *NoteService {
	return &NoteService{
		noteRepo:      noteRepo,
		classroomRepo: classroomRepo,
		followRepo:    followRepo,
		cacheRepo:     cacheRepo,
		hub:           hub,
	}
}

// CreateNoteInput содержит данные для создания заметки
type CreateNoteInput struct {
	Title         string
	Body          string
	AttachmentURL string
	ClassroomID   *uint
}

// Create создает заметку. Если указан класс, автор должен быть его участником.
func (s *NoteService) Create(authorID uint, input CreateNoteInput) (*entity.Note, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Body = strings.TrimSpace(input.Body)
	if input.Title == "" {
		return nil, fmt.Errorf("%w: note title is required", apperrors.ErrValidation)
	}
	if input.Body == "" {
		return nil, fmt.Errorf("%w: note body is required", apperrors.ErrValidation)
	}

	if input.ClassroomID != nil {
		isMember, err := s.classroomRepo.IsMember(*input.ClassroomID, authorID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, fmt.Errorf("%w: not a member of this classroom", apperrors.ErrForbidden)
		}
	}

	note := &entity.Note{
		AuthorID:      authorID,
		ClassroomID:   input.ClassroomID,
		Title:         input.Title,
		Body:          input.Body,
		AttachmentURL: strings.TrimSpace(input.AttachmentURL),
	}
	if err := s.noteRepo.Create(note); err != nil {
		return nil, err
	}

	if s.hub != nil && note.ClassroomID != nil {
		s.hub.BroadcastEvent(websocket.NewEvent(websocket.EventNoteCreated, *note.ClassroomID, map[string]interface{}{
			"note_id":   note.ID,
			"author_id": note.AuthorID,
			"title":     note.Title,
		}))
	}

	return note, nil
}

// GetByID возвращает заметку. Заметки класса видны только его участникам.
func (s *NoteService) GetByID(noteID, viewerID uint) (*entity.Note, error) {
	note, err := s.noteRepo.GetByID(noteID)
	if err != nil {
		return nil, err
	}

	if note.ClassroomID != nil && note.AuthorID != viewerID {
		isMember, err := s.classroomRepo.IsMember(*note.ClassroomID, viewerID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, fmt.Errorf("%w: not a member of this classroom", apperrors.ErrForbidden)
		}
	}

	return note, nil
}

// Delete удаляет заметку (только автор)
func (s *NoteService) Delete(noteID, requesterID uint) error {
	note, err := s.noteRepo.GetByID(noteID)
	if err != nil {
		return err
	}
	if note.AuthorID != requesterID {
		return fmt.Errorf("%w: only the author can delete a note", apperrors.ErrForbidden)
	}
	return s.noteRepo.Delete(noteID)
}

// ListByAuthor возвращает заметки автора
func (s *NoteService) ListByAuthor(authorID uint, page, pageSize int) ([]entity.Note, error) {
	limit, offset := paginate(page, pageSize)
	return s.noteRepo.ListByAuthor(authorID, limit, offset)
}

// ListByClassroom возвращает заметки класса (только для участников)
func (s *NoteService) ListByClassroom(classroomID, requesterID uint, page, pageSize int) ([]entity.Note, int64, error) {
	isMember, err := s.classroomRepo.IsMember(classroomID, requesterID)
	if err != nil {
		return nil, 0, err
	}
	if !isMember {
		return nil, 0, fmt.Errorf("%w: not a member of this classroom", apperrors.ErrForbidden)
	}

	limit, offset := paginate(page, pageSize)
	return s.noteRepo.ListByClassroom(classroomID, limit, offset)
}

// GetFeed возвращает ленту заметок: от подписок пользователя и из его классов.
// Первая страница кешируется в Redis на короткое время.
func (s *NoteService) GetFeed(userID uint, page, pageSize int) ([]entity.Note, error) {
	limit, offset := paginate(page, pageSize)

	cacheKey := fmt.Sprintf("feed:%d:%d:%d", userID, limit, offset)
	if s.cacheRepo != nil && offset == 0 {
		var cached []entity.Note
		if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			// Ошибка кеша не фатальна, идем в БД
			log.Printf("[NoteService] Ошибка чтения кеша ленты %s: %v", cacheKey, err)
		}
	}

	authorIDs, err := s.followRepo.FollowingIDs(userID)
	if err != nil {
		return nil, err
	}
	classroomIDs, err := s.classroomRepo.MemberClassroomIDs(userID)
	if err != nil {
		return nil, err
	}

	notes, err := s.noteRepo.ListFeed(authorIDs, classroomIDs, limit, offset)
	if err != nil {
		return nil, err
	}

	if s.cacheRepo != nil && offset == 0 {
		if err := s.cacheRepo.SetJSON(cacheKey, notes, feedCacheTTL); err != nil {
			log.Printf("[NoteService] Ошибка записи кеша ленты %s: %v", cacheKey, err)
		}
	}

	return notes, nil
}

// Like ставит лайк заметке
func (s *NoteService) Like(noteID, userID uint) (*entity.Note, error) {
	if _, err := s.GetByID(noteID, userID); err != nil {
		return nil, err
	}

	if err := s.noteRepo.Like(noteID, userID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: note already liked", apperrors.ErrConflict)
		}
		return nil, err
	}
	return s.noteRepo.GetByID(noteID)
}

// Unlike снимает лайк с заметки
func (s *NoteService) Unlike(noteID, userID uint) (*entity.Note, error) {
	if err := s.noteRepo.Unlike(noteID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: note is not liked", apperrors.ErrNotFound)
		}
		return nil, err
	}
	return s.noteRepo.GetByID(noteID)
}

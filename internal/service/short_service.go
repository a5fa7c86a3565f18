package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	"github.com/yourusername/classroom-api/internal/domain/repository"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
	"github.com/yourusername/classroom-api/internal/service/grading"
	"github.com/yourusername/classroom-api/internal/websocket"
)

// statsCacheTTL ограничивает устаревание агрегатов между инвалидациями
const statsCacheTTL = 30 * time.Second

// ShortService предоставляет методы для авторинга шортов и проверки ответов
type ShortService struct {
	shortRepo     repository.ShortRepository
	userRepo      repository.UserRepository
	classroomRepo repository.ClassroomRepository
	cacheRepo     repository.CacheRepository
	hub           *websocket.Hub
}

// NewShortService создает новый сервис шортов
func NewShortService(
	shortRepo repository.ShortRepository,
	userRepo repository.UserRepository,
	classroomRepo repository.ClassroomRepository,
	cacheRepo repository.CacheRepository,
	hub *websocket.Hub,
) *ShortService {
	return &ShortService{
		shortRepo:     shortRepo,
		userRepo:      userRepo,
		classroomRepo: classroomRepo,
		cacheRepo:     cacheRepo,
		hub:           hub,
	}
}

func statsCacheKey(shortID uint) string {
	return fmt.Sprintf("short:stats:%d", shortID)
}

// CreateShortInput содержит данные для создания шорта
type CreateShortInput struct {
	Title          string
	Type           string
	Payload        json.RawMessage
	ValidationRule json.RawMessage
	TimeLimitSec   int
	MaxPoints      int
	ClassroomID    *uint
}

// Create валидирует определение шорта и сохраняет его.
// Ошибки формы и семантики определения возвращаются как ErrValidation
// с перечислением всех проблемных полей.
func (s *ShortService) Create(authorID uint, input CreateShortInput) (*entity.Short, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, fmt.Errorf("%w: short title is required", apperrors.ErrValidation)
	}

	author, err := s.userRepo.GetByID(authorID)
	if err != nil {
		return nil, err
	}
	if !author.IsTeacher() {
		return nil, fmt.Errorf("%w: only teachers can create shorts", apperrors.ErrForbidden)
	}

	if input.ClassroomID != nil {
		classroom, err := s.classroomRepo.GetByID(*input.ClassroomID)
		if err != nil {
			return nil, err
		}
		if classroom.OwnerID != authorID {
			return nil, fmt.Errorf("%w: only the classroom owner can publish shorts to it", apperrors.ErrForbidden)
		}
	}

	// Полная проверка определения до сохранения: невалидное определение
	// не должно попасть в БД
	if _, err := grading.ValidateDefinition(input.Type, input.Payload, input.ValidationRule, input.TimeLimitSec, input.MaxPoints); err != nil {
		var verrs grading.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, verrs.Error())
		}
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	short := &entity.Short{
		AuthorID:       authorID,
		ClassroomID:    input.ClassroomID,
		Title:          input.Title,
		Type:           input.Type,
		Payload:        entity.JSONRaw(input.Payload),
		ValidationRule: entity.JSONRaw(input.ValidationRule),
		TimeLimitSec:   input.TimeLimitSec,
		MaxPoints:      input.MaxPoints,
	}
	if err := s.shortRepo.Create(short); err != nil {
		return nil, err
	}

	if s.hub != nil && short.ClassroomID != nil {
		s.hub.BroadcastEvent(websocket.NewEvent(websocket.EventShortCreated, *short.ClassroomID, map[string]interface{}{
			"short_id": short.ID,
			"title":    short.Title,
			"type":     short.Type,
		}))
	}

	log.Printf("[ShortService] Создан шорт #%d (type=%s) автором #%d", short.ID, short.Type, authorID)
	return short, nil
}

// GetByID возвращает шорт. Шорты класса видны только его участникам.
func (s *ShortService) GetByID(shortID, viewerID uint) (*entity.Short, error) {
	short, err := s.shortRepo.GetByID(shortID)
	if err != nil {
		return nil, err
	}

	if short.ClassroomID != nil && short.AuthorID != viewerID {
		isMember, err := s.classroomRepo.IsMember(*short.ClassroomID, viewerID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, fmt.Errorf("%w: not a member of this classroom", apperrors.ErrForbidden)
		}
	}

	return short, nil
}

// Delete удаляет шорт вместе с попытками (только автор)
func (s *ShortService) Delete(shortID, requesterID uint) error {
	short, err := s.shortRepo.GetByID(shortID)
	if err != nil {
		return err
	}
	if short.AuthorID != requesterID {
		return fmt.Errorf("%w: only the author can delete a short", apperrors.ErrForbidden)
	}
	return s.shortRepo.Delete(shortID)
}

// ListByClassroom возвращает шорты класса (только для участников)
func (s *ShortService) ListByClassroom(classroomID, requesterID uint, page, pageSize int) ([]entity.Short, int64, error) {
	isMember, err := s.classroomRepo.IsMember(classroomID, requesterID)
	if err != nil {
		return nil, 0, err
	}
	if !isMember {
		return nil, 0, fmt.Errorf("%w: not a member of this classroom", apperrors.ErrForbidden)
	}

	limit, offset := paginate(page, pageSize)
	return s.shortRepo.ListByClassroom(classroomID, limit, offset)
}

// ListByAuthor возвращает шорты автора
func (s *ShortService) ListByAuthor(authorID uint, page, pageSize int) ([]entity.Short, error) {
	limit, offset := paginate(page, pageSize)
	return s.shortRepo.ListByAuthor(authorID, limit, offset)
}

// Submit проверяет ответ ученика и записывает попытку.
// На каждого пользователя допускается ровно одна попытка; повторная
// отправка возвращает ErrConflict с уже записанным результатом.
func (s *ShortService) Submit(shortID, userID uint, rawAnswer json.RawMessage, timeTakenMs int64) (*entity.ShortAttempt, error) {
	short, err := s.GetByID(shortID, userID)
	if err != nil {
		return nil, err
	}

	if short.AuthorID == userID {
		return nil, fmt.Errorf("%w: authors cannot attempt their own shorts", apperrors.ErrForbidden)
	}

	// Определение шорта прошло полную валидацию при создании,
	// здесь достаточно разбора формы
	def, err := grading.ParseDefinition(short.Type, json.RawMessage(short.Payload), json.RawMessage(short.ValidationRule), short.TimeLimitSec, short.MaxPoints)
	if err != nil {
		log.Printf("[ShortService] Шорт #%d содержит неразборчивое определение: %v", shortID, err)
		return nil, fmt.Errorf("short #%d has a corrupt definition: %w", shortID, err)
	}

	result := grading.GradeSubmission(def, rawAnswer)

	normalized, err := json.Marshal(result.Normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to encode normalized answer: %w", err)
	}
	if len(rawAnswer) == 0 {
		rawAnswer = json.RawMessage("null")
	}

	attempt := &entity.ShortAttempt{
		ShortID:          shortID,
		UserID:           userID,
		RawAnswer:        entity.JSONRaw(rawAnswer),
		NormalizedAnswer: entity.JSONRaw(normalized),
		IsCorrect:        result.IsCorrect,
		PointsAwarded:    result.PointsAwarded,
		TimeTakenMs:      timeTakenMs,
	}

	if err := s.shortRepo.CreateAttempt(attempt); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: short already attempted", apperrors.ErrConflict)
		}
		return nil, err
	}

	// Обновляем агрегаты пользователя; попытка уже записана, поэтому
	// ошибку здесь только логируем
	if err := s.userRepo.ApplyAttemptResult(userID, result.IsCorrect, result.PointsAwarded); err != nil {
		log.Printf("[ShortService] Не удалось обновить агрегаты пользователя #%d: %v", userID, err)
	}

	// Новая попытка делает кешированную статистику устаревшей
	if s.cacheRepo != nil {
		if err := s.cacheRepo.Delete(statsCacheKey(shortID)); err != nil {
			log.Printf("[ShortService] Не удалось сбросить кеш статистики шорта #%d: %v", shortID, err)
		}
	}

	return attempt, nil
}

// GetMyAttempt возвращает попытку пользователя по шорту
func (s *ShortService) GetMyAttempt(shortID, userID uint) (*entity.ShortAttempt, error) {
	return s.shortRepo.GetAttempt(shortID, userID)
}

// ListAttempts возвращает попытки по шорту (только автор)
func (s *ShortService) ListAttempts(shortID, requesterID uint, page, pageSize int) ([]entity.ShortAttempt, int64, error) {
	short, err := s.shortRepo.GetByID(shortID)
	if err != nil {
		return nil, 0, err
	}
	if short.AuthorID != requesterID {
		return nil, 0, fmt.Errorf("%w: only the author can view attempts", apperrors.ErrForbidden)
	}

	limit, offset := paginate(page, pageSize)
	return s.shortRepo.ListAttempts(shortID, limit, offset)
}

// GetStats возвращает агрегированную статистику по шорту (только автор).
// Агрегат кешируется и сбрасывается при каждой новой попытке.
func (s *ShortService) GetStats(shortID, requesterID uint) (*repository.ShortStats, error) {
	short, err := s.shortRepo.GetByID(shortID)
	if err != nil {
		return nil, err
	}
	if short.AuthorID != requesterID {
		return nil, fmt.Errorf("%w: only the author can view stats", apperrors.ErrForbidden)
	}

	cacheKey := statsCacheKey(shortID)
	if s.cacheRepo != nil {
		var cached repository.ShortStats
		if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[ShortService] Ошибка чтения кеша статистики %s: %v", cacheKey, err)
		}
	}

	stats, err := s.shortRepo.GetStats(shortID)
	if err != nil {
		return nil, err
	}
	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(cacheKey, stats, statsCacheTTL); err != nil {
			log.Printf("[ShortService] Ошибка записи кеша статистики %s: %v", cacheKey, err)
		}
	}
	return stats, nil
}

// ExportAttempts выгружает все попытки по шорту в xlsx (только автор).
// Возвращает содержимое файла и его имя.
func (s *ShortService) ExportAttempts(shortID, requesterID uint) (*bytes.Buffer, string, error) {
	short, err := s.shortRepo.GetByID(shortID)
	if err != nil {
		return nil, "", err
	}
	if short.AuthorID != requesterID {
		return nil, "", fmt.Errorf("%w: only the author can export attempts", apperrors.ErrForbidden)
	}

	const exportBatch = 1000
	attempts, _, err := s.shortRepo.ListAttempts(shortID, exportBatch, 0)
	if err != nil {
		return nil, "", err
	}

	// Подтягиваем имена пользователей одним запросом
	userIDs := make([]uint, 0, len(attempts))
	for _, attempt := range attempts {
		userIDs = append(userIDs, attempt.UserID)
	}
	usernames := make(map[uint]string, len(userIDs))
	if len(userIDs) > 0 {
		users, err := s.userRepo.GetByIDs(userIDs)
		if err != nil {
			return nil, "", err
		}
		for _, user := range users {
			usernames[user.ID] = user.Username
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attempts"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"User ID", "Username", "Answer", "Correct", "Points", "Time (ms)", "Submitted At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, attempt := range attempts {
		values := []interface{}{
			attempt.UserID,
			usernames[attempt.UserID],
			string(attempt.NormalizedAnswer),
			attempt.IsCorrect,
			attempt.PointsAwarded,
			attempt.TimeTakenMs,
			attempt.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to build xlsx export: %w", err)
	}

	filename := fmt.Sprintf("short_%d_attempts.xlsx", shortID)
	return buf, filename, nil
}

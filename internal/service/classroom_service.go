package service

import (
	"context"
	"crypto/rand"
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

// Алфавит кода приглашения без похожих символов (0/O, 1/I/L)
const joinCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const joinCodeLength = 8

// ClassroomService предоставляет методы для работы с классами
type ClassroomService struct {
	classroomRepo repository.ClassroomRepository
	userRepo      repository.UserRepository
	emailService  EmailService
	hub           *websocket.Hub
}

// NewClassroomService создает новый сервис классов
func NewClassroomService(
	classroomRepo repository.ClassroomRepository,
	userRepo repository.UserRepository,
	emailService EmailService,
	hub *websocket.Hub,
) *ClassroomService {
	return &ClassroomService{
		classroomRepo: classroomRepo,
		userRepo:      userRepo,
		emailService:  emailService,
		hub:           hub,
	}
}

// CreateClassroomInput содержит данные для создания класса
type CreateClassroomInput struct {
	Name        string
	Subject     string
	Description string
}

// Create создает класс; создатель становится владельцем и первым участником
func (s *ClassroomService) Create(ownerID uint, input CreateClassroomInput) (*entity.Classroom, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: classroom name is required", apperrors.ErrValidation)
	}

	owner, err := s.userRepo.GetByID(ownerID)
	if err != nil {
		return nil, err
	}
	if !owner.IsTeacher() {
		return nil, fmt.Errorf("%w: only teachers can create classrooms", apperrors.ErrForbidden)
	}

	// Несколько попыток на случай коллизии кода приглашения
	for attempt := 0; attempt < 5; attempt++ {
		code, err := generateJoinCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate join code: %w", err)
		}

		classroom := &entity.Classroom{
			OwnerID:     ownerID,
			Name:        input.Name,
			Subject:     strings.TrimSpace(input.Subject),
			Description: strings.TrimSpace(input.Description),
			JoinCode:    code,
		}
		member := &entity.ClassroomMember{
			UserID: ownerID,
			Role:   entity.MemberRoleOwner,
		}

		err = s.classroomRepo.Create(classroom, member)
		if err == nil {
			log.Printf("[ClassroomService] Создан класс #%d (%s) владельцем #%d", classroom.ID, classroom.Name, ownerID)
			return classroom, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		log.Printf("[ClassroomService] Коллизия кода приглашения %q, пробуем снова", code)
	}

	return nil, fmt.Errorf("failed to create classroom: join code collisions")
}

// GetByID возвращает класс по ID
func (s *ClassroomService) GetByID(id uint) (*entity.Classroom, error) {
	return s.classroomRepo.GetByID(id)
}

// List возвращает список классов с поиском по названию/предмету
func (s *ClassroomService) List(page, pageSize int, search string) ([]entity.Classroom, int64, error) {
	limit, offset := paginate(page, pageSize)
	return s.classroomRepo.List(limit, offset, strings.TrimSpace(search))
}

// ListMine возвращает классы, в которых состоит пользователь
func (s *ClassroomService) ListMine(userID uint, page, pageSize int) ([]entity.Classroom, error) {
	limit, offset := paginate(page, pageSize)
	return s.classroomRepo.ListByMember(userID, limit, offset)
}

// Join добавляет пользователя в класс по коду приглашения
func (s *ClassroomService) Join(userID uint, joinCode string) (*entity.Classroom, error) {
	joinCode = strings.ToUpper(strings.TrimSpace(joinCode))
	if joinCode == "" {
		return nil, fmt.Errorf("%w: join code is required", apperrors.ErrValidation)
	}

	classroom, err := s.classroomRepo.GetByJoinCode(joinCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid join code", apperrors.ErrNotFound)
		}
		return nil, err
	}

	member := &entity.ClassroomMember{
		ClassroomID: classroom.ID,
		UserID:      userID,
		Role:        entity.MemberRoleStudent,
	}
	if err := s.classroomRepo.AddMember(member); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: already a member of this classroom", apperrors.ErrConflict)
		}
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(websocket.NewEvent(websocket.EventMemberJoined, classroom.ID, map[string]interface{}{
			"user_id": userID,
		}))
	}

	return classroom, nil
}

// IsMember проверяет членство пользователя в классе
func (s *ClassroomService) IsMember(classroomID, userID uint) (bool, error) {
	return s.classroomRepo.IsMember(classroomID, userID)
}

// ListMembers возвращает участников класса (только для участников)
func (s *ClassroomService) ListMembers(classroomID, requesterID uint, page, pageSize int) ([]entity.ClassroomMember, error) {
	isMember, err := s.classroomRepo.IsMember(classroomID, requesterID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("%w: not a member of this classroom", apperrors.ErrForbidden)
	}

	limit, offset := paginate(page, pageSize)
	return s.classroomRepo.ListMembers(classroomID, limit, offset)
}

// Schedule назначает время следующего занятия (только владелец)
func (s *ClassroomService) Schedule(classroomID, requesterID uint, scheduledAt time.Time, durationMinutes int) (*entity.Classroom, error) {
	classroom, err := s.classroomRepo.GetByID(classroomID)
	if err != nil {
		return nil, err
	}
	if classroom.OwnerID != requesterID {
		return nil, fmt.Errorf("%w: only the classroom owner can schedule meetings", apperrors.ErrForbidden)
	}
	if scheduledAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: scheduled time must be in the future", apperrors.ErrValidation)
	}
	if durationMinutes < 5 || durationMinutes > 480 {
		return nil, fmt.Errorf("%w: duration must be between 5 and 480 minutes", apperrors.ErrValidation)
	}

	if err := s.classroomRepo.UpdateSchedule(classroomID, scheduledAt, durationMinutes); err != nil {
		return nil, err
	}
	return s.classroomRepo.GetByID(classroomID)
}

// Invite отправляет приглашение в класс по email (только владелец)
func (s *ClassroomService) Invite(ctx context.Context, classroomID, requesterID uint, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}

	classroom, err := s.classroomRepo.GetByID(classroomID)
	if err != nil {
		return err
	}
	if classroom.OwnerID != requesterID {
		return fmt.Errorf("%w: only the classroom owner can invite", apperrors.ErrForbidden)
	}

	return s.emailService.SendClassroomInvite(ctx, email, classroom.Name, classroom.JoinCode)
}

// generateJoinCode создает случайный код приглашения
func generateJoinCode() (string, error) {
	buf := make([]byte, joinCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := make([]byte, joinCodeLength)
	for i, b := range buf {
		code[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(code), nil
}

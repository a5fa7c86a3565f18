package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	"github.com/yourusername/classroom-api/internal/domain/repository"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
	"github.com/yourusername/classroom-api/internal/websocket"
)

// LiveService управляет живыми видеозанятиями классов.
// Видеопоток обслуживает внешний провайдер; сервис выдает подписанные
// токены доступа к комнате и ведет учет сессий.
type LiveService struct {
	liveRepo      repository.LiveSessionRepository
	classroomRepo repository.ClassroomRepository
	hub           *websocket.Hub

	appID       string
	appSecret   []byte
	tokenExpiry time.Duration
}

// NewLiveService создает новый сервис живых занятий и возвращает ошибку при проблемах
func NewLiveService(
	liveRepo repository.LiveSessionRepository,
	classroomRepo repository.ClassroomRepository,
	hub *websocket.Hub,
	appID, appSecret string,
	tokenExpirySec int,
) (*LiveService, error) {
	if liveRepo == nil {
		return nil, fmt.Errorf("LiveSessionRepository is required for LiveService")
	}
	if classroomRepo == nil {
		return nil, fmt.Errorf("ClassroomRepository is required for LiveService")
	}
	if appSecret == "" {
		return nil, fmt.Errorf("live provider app secret is required for LiveService")
	}
	if tokenExpirySec <= 0 {
		tokenExpirySec = 3600
	}

	return &LiveService{
		liveRepo:      liveRepo,
		classroomRepo: classroomRepo,
		hub:           hub,
		appID:         appID,
		appSecret:     []byte(appSecret),
		tokenExpiry:   time.Duration(tokenExpirySec) * time.Second,
	}, nil
}

// roomTokenClaims — claims токена доступа к комнате видеопровайдера
type roomTokenClaims struct {
	AppID  string `json:"app_id"`
	RoomID string `json:"room_id"`
	UserID uint   `json:"user_id"`
	Host   bool   `json:"host"`
	jwt.RegisteredClaims
}

// Start открывает живую сессию класса (только владелец).
// На класс допускается одна активная сессия.
func (s *LiveService) Start(classroomID, requesterID uint) (*entity.LiveSession, string, error) {
	classroom, err := s.classroomRepo.GetByID(classroomID)
	if err != nil {
		return nil, "", err
	}
	if classroom.OwnerID != requesterID {
		return nil, "", fmt.Errorf("%w: only the classroom owner can start a live session", apperrors.ErrForbidden)
	}

	if _, err := s.liveRepo.GetActiveByClassroom(classroomID); err == nil {
		return nil, "", fmt.Errorf("%w: classroom already has an active live session", apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", err
	}

	session := &entity.LiveSession{
		ClassroomID: classroomID,
		StartedBy:   requesterID,
		RoomID:      uuid.New().String(),
		Status:      entity.LiveSessionStatusActive,
		StartedAt:   time.Now(),
	}
	if err := s.liveRepo.Create(session); err != nil {
		return nil, "", err
	}

	token, err := s.issueRoomToken(session.RoomID, requesterID, true)
	if err != nil {
		return nil, "", err
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(websocket.NewEvent(websocket.EventLiveStarted, classroomID, map[string]interface{}{
			"session_id": session.ID,
			"room_id":    session.RoomID,
		}))
	}

	log.Printf("[LiveService] Открыта live-сессия #%d для класса #%d (room=%s)", session.ID, classroomID, session.RoomID)
	return session, token, nil
}

// Join выдает участнику класса токен доступа к активной сессии
func (s *LiveService) Join(classroomID, userID uint) (*entity.LiveSession, string, error) {
	isMember, err := s.classroomRepo.IsMember(classroomID, userID)
	if err != nil {
		return nil, "", err
	}
	if !isMember {
		return nil, "", fmt.Errorf("%w: not a member of this classroom", apperrors.ErrForbidden)
	}

	session, err := s.liveRepo.GetActiveByClassroom(classroomID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: no active live session for this classroom", apperrors.ErrNotFound)
		}
		return nil, "", err
	}

	token, err := s.issueRoomToken(session.RoomID, userID, session.StartedBy == userID)
	if err != nil {
		return nil, "", err
	}
	return session, token, nil
}

// End завершает сессию (только открывший или владелец класса)
func (s *LiveService) End(sessionID, requesterID uint) error {
	session, err := s.liveRepo.GetByID(sessionID)
	if err != nil {
		return err
	}

	if session.StartedBy != requesterID {
		classroom, err := s.classroomRepo.GetByID(session.ClassroomID)
		if err != nil {
			return err
		}
		if classroom.OwnerID != requesterID {
			return fmt.Errorf("%w: only the host can end a live session", apperrors.ErrForbidden)
		}
	}

	if !session.IsActive() {
		return fmt.Errorf("%w: live session already ended", apperrors.ErrConflict)
	}

	if err := s.liveRepo.End(sessionID); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(websocket.NewEvent(websocket.EventLiveEnded, session.ClassroomID, map[string]interface{}{
			"session_id": session.ID,
		}))
	}

	return nil
}

// History возвращает прошлые сессии класса (только для участников)
func (s *LiveService) History(classroomID, requesterID uint, page, pageSize int) ([]entity.LiveSession, error) {
	isMember, err := s.classroomRepo.IsMember(classroomID, requesterID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("%w: not a member of this classroom", apperrors.ErrForbidden)
	}

	limit, offset := paginate(page, pageSize)
	return s.liveRepo.ListByClassroom(classroomID, limit, offset)
}

// issueRoomToken подписывает токен доступа к комнате секретом провайдера
func (s *LiveService) issueRoomToken(roomID string, userID uint, host bool) (string, error) {
	now := time.Now()
	claims := &roomTokenClaims{
		AppID:  s.appID,
		RoomID: roomID,
		UserID: userID,
		Host:   host,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.appSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign room token: %w", err)
	}
	return token, nil
}

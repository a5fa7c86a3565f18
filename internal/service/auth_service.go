package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	"github.com/yourusername/classroom-api/internal/domain/repository"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
	"github.com/yourusername/classroom-api/pkg/auth"
)

// AuthService предоставляет методы для регистрации и аутентификации пользователей
type AuthService struct {
	userRepo             repository.UserRepository
	refreshTokenRepo     repository.RefreshTokenRepository
	jwtService           *auth.JWTService
	refreshTokenLifetime time.Duration
}

// RegisterInput содержит все данные для регистрации
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string // student или teacher; admin назначается только вручную
	Bio      string
}

// TokenPair содержит пару access/refresh токенов
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	jwtService *auth.JWTService,
	refreshTokenLifetimeDays int,
) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if refreshTokenRepo == nil {
		return nil, fmt.Errorf("RefreshTokenRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	if refreshTokenLifetimeDays <= 0 {
		refreshTokenLifetimeDays = 30
	}

	return &AuthService{
		userRepo:             userRepo,
		refreshTokenRepo:     refreshTokenRepo,
		jwtService:           jwtService,
		refreshTokenLifetime: time.Duration(refreshTokenLifetimeDays) * 24 * time.Hour,
	}, nil
}

// RegisterUser регистрирует нового пользователя
func (s *AuthService) RegisterUser(input RegisterInput) (*entity.User, error) {
	input.Email = normalizeEmail(input.Email)
	input.Username = strings.TrimSpace(input.Username)
	input.Bio = strings.TrimSpace(input.Bio)

	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", apperrors.ErrValidation)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidation)
	}

	role := input.Role
	if role == "" {
		role = entity.RoleStudent
	}
	if role != entity.RoleStudent && role != entity.RoleTeacher {
		return nil, fmt.Errorf("%w: invalid role", apperrors.ErrValidation)
	}

	// Проверяем, существует ли пользователь с таким email
	_, err := s.userRepo.GetByEmail(input.Email)
	if err == nil {
		return nil, fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}

	// Проверяем, существует ли пользователь с таким username
	_, err = s.userRepo.GetByUsername(input.Username)
	if err == nil {
		return nil, fmt.Errorf("%w: user with this username already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}

	user := &entity.User{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password, // Хешируется в BeforeSave
		Role:     role,
		Bio:      input.Bio,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: user with this email or username already exists", apperrors.ErrConflict)
		}
		log.Printf("[AuthService] Ошибка при создании пользователя: %v", err)
		return nil, err
	}

	log.Printf("[AuthService] Зарегистрирован новый пользователь #%d (%s, role=%s)", user.ID, user.Username, user.Role)
	return user, nil
}

// Login проверяет учетные данные и выдает пару токенов
func (s *AuthService) Login(email, password string) (*entity.User, *TokenPair, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		return nil, nil, err
	}

	if !user.CheckPassword(password) {
		return nil, nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	tokens, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// RefreshTokens проверяет refresh-токен, отзывает его и выдает новую пару (ротация)
func (s *AuthService) RefreshTokens(refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", apperrors.ErrValidation)
	}

	tokenHash := hashRefreshToken(refreshToken)
	stored, err := s.refreshTokenRepo.GetByHash(tokenHash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: refresh token not recognized", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if stored.IsExpired() {
		// Просроченный токен сразу удаляем
		if err := s.refreshTokenRepo.Delete(tokenHash); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[AuthService] Не удалось удалить просроченный refresh-токен: %v", err)
		}
		return nil, apperrors.ErrExpiredToken
	}

	user, err := s.userRepo.GetByID(stored.UserID)
	if err != nil {
		return nil, err
	}

	// Ротация: старый токен отзывается до выдачи нового
	if err := s.refreshTokenRepo.Delete(tokenHash); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokenPair(user)
}

// Logout отзывает refresh-токен пользователя
func (s *AuthService) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	err := s.refreshTokenRepo.Delete(hashRefreshToken(refreshToken))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return nil
}

// LogoutAll отзывает все refresh-токены пользователя (выход со всех устройств)
func (s *AuthService) LogoutAll(userID uint) error {
	return s.refreshTokenRepo.DeleteByUser(userID)
}

// CleanupExpiredTokens удаляет просроченные refresh-токены, возвращает число удаленных
func (s *AuthService) CleanupExpiredTokens() (int64, error) {
	return s.refreshTokenRepo.DeleteExpired()
}

func (s *AuthService) issueTokenPair(user *entity.User) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	record := &entity.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashRefreshToken(refreshToken),
		ExpiresAt: time.Now().Add(s.refreshTokenLifetime),
	}
	if err := s.refreshTokenRepo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// generateRefreshToken создает криптографически случайный токен
func generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// hashRefreshToken возвращает SHA-256 хеш токена в hex.
// В БД хранится только хеш, сам токен знает лишь клиент.
func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

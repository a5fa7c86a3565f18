package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
	"github.com/yourusername/classroom-api/pkg/auth"
)

func newTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret-key-for-auth-service", 1)
	require.NoError(t, err, "Создание JWTService с непустым секретом должно быть успешным")
	return jwtService
}

func hashedPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_RegisterUser_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockTokenRepo := new(MockRefreshTokenRepository)
	authService, err := NewAuthService(mockUserRepo, mockTokenRepo, newTestJWTService(t), 30)
	require.NoError(t, err)

	mockUserRepo.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound)
	mockUserRepo.On("GetByUsername", "newuser").Return(nil, apperrors.ErrNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*entity.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.User).ID = 1
	}).Return(nil)

	// Act
	user, err := authService.RegisterUser(RegisterInput{
		Username: "newuser",
		Email:    "New@Example.com",
		Password: "password123",
		Role:     entity.RoleStudent,
	})

	// Assert
	require.NoError(t, err, "Регистрация с валидными данными должна быть успешной")
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "new@example.com", user.Email, "Email должен нормализоваться к нижнему регистру")
	assert.Equal(t, entity.RoleStudent, user.Role)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_EmailTaken(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockTokenRepo := new(MockRefreshTokenRepository)
	authService, err := NewAuthService(mockUserRepo, mockTokenRepo, newTestJWTService(t), 30)
	require.NoError(t, err)

	existing := &entity.User{ID: 5, Email: "taken@example.com"}
	mockUserRepo.On("GetByEmail", "taken@example.com").Return(existing, nil)

	// Act
	user, err := authService.RegisterUser(RegisterInput{
		Username: "someone",
		Email:    "taken@example.com",
		Password: "password123",
	})

	// Assert
	require.Error(t, err, "Повторная регистрация email должна отклоняться")
	assert.True(t, errors.Is(err, apperrors.ErrConflict), "Ожидается ErrConflict")
	assert.Nil(t, user)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_RegisterUser_AdminRoleRejected(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockTokenRepo := new(MockRefreshTokenRepository)
	authService, err := NewAuthService(mockUserRepo, mockTokenRepo, newTestJWTService(t), 30)
	require.NoError(t, err)

	// Act
	_, err = authService.RegisterUser(RegisterInput{
		Username: "wannabe",
		Email:    "admin@example.com",
		Password: "password123",
		Role:     entity.RoleAdmin,
	})

	// Assert
	require.Error(t, err, "Роль admin нельзя получить через регистрацию")
	assert.True(t, errors.Is(err, apperrors.ErrValidation), "Ожидается ErrValidation")
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_Login_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockTokenRepo := new(MockRefreshTokenRepository)
	authService, err := NewAuthService(mockUserRepo, mockTokenRepo, newTestJWTService(t), 30)
	require.NoError(t, err)

	user := &entity.User{
		ID:       1,
		Username: "student",
		Email:    "student@example.com",
		Password: hashedPassword(t, "password123"),
		Role:     entity.RoleStudent,
	}
	mockUserRepo.On("GetByEmail", "student@example.com").Return(user, nil)
	mockTokenRepo.On("Create", mock.AnythingOfType("*entity.RefreshToken")).Return(nil)

	// Act
	gotUser, tokens, err := authService.Login("Student@Example.com", "password123")

	// Assert
	require.NoError(t, err, "Вход с верными учетными данными должен быть успешным")
	assert.Equal(t, user.ID, gotUser.ID)
	assert.NotEmpty(t, tokens.AccessToken, "Должен быть выдан access-токен")
	assert.NotEmpty(t, tokens.RefreshToken, "Должен быть выдан refresh-токен")
	mockTokenRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockTokenRepo := new(MockRefreshTokenRepository)
	authService, err := NewAuthService(mockUserRepo, mockTokenRepo, newTestJWTService(t), 30)
	require.NoError(t, err)

	user := &entity.User{
		ID:       1,
		Email:    "student@example.com",
		Password: hashedPassword(t, "password123"),
	}
	mockUserRepo.On("GetByEmail", "student@example.com").Return(user, nil)

	// Act
	_, tokens, err := authService.Login("student@example.com", "wrong-password")

	// Assert
	require.Error(t, err, "Неверный пароль должен отклоняться")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized), "Ожидается ErrUnauthorized")
	assert.Nil(t, tokens)
	mockTokenRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockTokenRepo := new(MockRefreshTokenRepository)
	authService, err := NewAuthService(mockUserRepo, mockTokenRepo, newTestJWTService(t), 30)
	require.NoError(t, err)

	mockUserRepo.On("GetByEmail", "nobody@example.com").Return(nil, apperrors.ErrNotFound)

	// Act
	_, _, err = authService.Login("nobody@example.com", "password123")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized),
		"Несуществующий email отклоняется так же, как неверный пароль")
}

func TestAuthService_RefreshTokens_Rotation(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockTokenRepo := new(MockRefreshTokenRepository)
	authService, err := NewAuthService(mockUserRepo, mockTokenRepo, newTestJWTService(t), 30)
	require.NoError(t, err)

	user := &entity.User{ID: 1, Email: "student@example.com", Role: entity.RoleStudent}
	stored := &entity.RefreshToken{
		ID:        7,
		UserID:    1,
		TokenHash: hashRefreshToken("old-refresh-token"),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	mockTokenRepo.On("GetByHash", stored.TokenHash).Return(stored, nil)
	mockUserRepo.On("GetByID", uint(1)).Return(user, nil)
	// Старый токен отзывается до выдачи нового
	mockTokenRepo.On("Delete", stored.TokenHash).Return(nil)
	mockTokenRepo.On("Create", mock.AnythingOfType("*entity.RefreshToken")).Return(nil)

	// Act
	tokens, err := authService.RefreshTokens("old-refresh-token")

	// Assert
	require.NoError(t, err, "Обновление по валидному refresh-токену должно быть успешным")
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEqual(t, "old-refresh-token", tokens.RefreshToken, "Токен должен ротироваться")
	mockTokenRepo.AssertExpectations(t)
}

func TestAuthService_RefreshTokens_Expired(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockTokenRepo := new(MockRefreshTokenRepository)
	authService, err := NewAuthService(mockUserRepo, mockTokenRepo, newTestJWTService(t), 30)
	require.NoError(t, err)

	stored := &entity.RefreshToken{
		ID:        7,
		UserID:    1,
		TokenHash: hashRefreshToken("stale-token"),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	mockTokenRepo.On("GetByHash", stored.TokenHash).Return(stored, nil)
	mockTokenRepo.On("Delete", stored.TokenHash).Return(nil)

	// Act
	tokens, err := authService.RefreshTokens("stale-token")

	// Assert
	require.Error(t, err, "Просроченный refresh-токен должен отклоняться")
	assert.True(t, errors.Is(err, apperrors.ErrExpiredToken), "Ожидается ErrExpiredToken")
	assert.Nil(t, tokens)
	mockTokenRepo.AssertCalled(t, "Delete", stored.TokenHash)
	mockTokenRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_RefreshTokens_Unknown(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockTokenRepo := new(MockRefreshTokenRepository)
	authService, err := NewAuthService(mockUserRepo, mockTokenRepo, newTestJWTService(t), 30)
	require.NoError(t, err)

	mockTokenRepo.On("GetByHash", mock.AnythingOfType("string")).Return(nil, apperrors.ErrNotFound)

	// Act
	tokens, err := authService.RefreshTokens("forged-token")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized), "Неизвестный токен — ErrUnauthorized")
	assert.Nil(t, tokens)
}

func TestAuthService_Logout_UnknownTokenIgnored(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockTokenRepo := new(MockRefreshTokenRepository)
	authService, err := NewAuthService(mockUserRepo, mockTokenRepo, newTestJWTService(t), 30)
	require.NoError(t, err)

	mockTokenRepo.On("Delete", mock.AnythingOfType("string")).Return(apperrors.ErrNotFound)

	// Act
	err = authService.Logout("already-revoked")

	// Assert
	assert.NoError(t, err, "Выход с уже отозванным токеном не должен быть ошибкой")
}

package dto

import (
	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// RegisterRequest содержит данные запроса регистрации
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=student teacher"`
	Bio      string `json:"bio" binding:"max=500"`
}

// LoginRequest содержит данные запроса входа
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest содержит refresh-токен для ротации
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest содержит изменяемые поля профиля.
// Указатели отличают "не менять" от "очистить".
type UpdateProfileRequest struct {
	Username       *string `json:"username" binding:"omitempty,min=3,max=50"`
	Bio            *string `json:"bio" binding:"omitempty,max=500"`
	ProfilePicture *string `json:"profile_picture" binding:"omitempty,max=255"`
}

// ChangePasswordRequest содержит данные смены пароля
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ProfileResponse представляет профиль пользователя для ответа клиенту
type ProfileResponse struct {
	User        *entity.User `json:"user"`
	IsFollowing bool         `json:"is_following"`
}

// LeaderboardUserDTO представляет строку лидерборда
type LeaderboardUserDTO struct {
	Rank            int    `json:"rank"`
	UserID          uint   `json:"user_id"`
	Username        string `json:"username"`
	ProfilePicture  string `json:"profile_picture,omitempty"`
	ShortsAttempted int64  `json:"shorts_attempted"`
	ShortsCorrect   int64  `json:"shorts_correct"`
	TotalPoints     int64  `json:"total_points"`
}

// PaginatedLeaderboardResponse представляет пагинированный лидерборд
type PaginatedLeaderboardResponse struct {
	Users   []*LeaderboardUserDTO `json:"users"`
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
}

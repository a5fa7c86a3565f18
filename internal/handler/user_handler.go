package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/classroom-api/internal/handler/dto"
	"github.com/yourusername/classroom-api/internal/service"
)

// UserHandler обрабатывает запросы, связанные с пользователями и подписками
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe возвращает профиль текущего пользователя
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetProfile возвращает профиль пользователя по ID
func (h *UserHandler) GetProfile(c *gin.Context) {
	targetID, ok := uintParam(c, "userID")
	if !ok {
		return
	}
	viewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(targetID, viewerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile обновляет профиль текущего пользователя
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(userID, service.UpdateProfileInput{
		Username:       req.Username,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword меняет пароль текущего пользователя
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

// Follow подписывает текущего пользователя на другого
func (h *UserHandler) Follow(c *gin.Context) {
	targetID, ok := uintParam(c, "userID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.userService.Follow(userID, targetID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Followed"})
}

// Unfollow снимает подписку
func (h *UserHandler) Unfollow(c *gin.Context) {
	targetID, ok := uintParam(c, "userID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.userService.Unfollow(userID, targetID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed"})
}

// GetFollowers возвращает подписчиков пользователя
func (h *UserHandler) GetFollowers(c *gin.Context) {
	targetID, ok := uintParam(c, "userID")
	if !ok {
		return
	}
	page, pageSize := paginationParams(c)

	users, err := h.userService.GetFollowers(targetID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "page": page, "per_page": pageSize})
}

// GetFollowing возвращает подписки пользователя
func (h *UserHandler) GetFollowing(c *gin.Context) {
	targetID, ok := uintParam(c, "userID")
	if !ok {
		return
	}
	page, pageSize := paginationParams(c)

	users, err := h.userService.GetFollowing(targetID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "page": page, "per_page": pageSize})
}

// GetLeaderboard обрабатывает запрос на получение лидерборда
func (h *UserHandler) GetLeaderboard(c *gin.Context) {
	page, pageSize := paginationParams(c)

	leaderboard, err := h.userService.GetLeaderboard(page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, leaderboard)
}

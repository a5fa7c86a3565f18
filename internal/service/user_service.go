package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	"github.com/yourusername/classroom-api/internal/domain/repository"
	"github.com/yourusername/classroom-api/internal/handler/dto"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
)

// UserService предоставляет методы для работы с пользователями и соцграфом
type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// GetByID возвращает пользователя по ID
func (s *UserService) GetByID(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}

// GetProfile возвращает профиль пользователя вместе с признаком подписки смотрящего
func (s *UserService) GetProfile(userID, viewerID uint) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if viewerID != 0 && viewerID != userID {
		isFollowing, err = s.followRepo.Exists(viewerID, userID)
		if err != nil {
			log.Printf("[UserService] Ошибка проверки подписки viewer=%d user=%d: %v", viewerID, userID, err)
			return nil, err
		}
	}

	return &dto.ProfileResponse{
		User:        user,
		IsFollowing: isFollowing,
	}, nil
}

// UpdateProfileInput содержит изменяемые поля профиля
type UpdateProfileInput struct {
	Username       *string
	Bio            *string
	ProfilePicture *string
}

// UpdateProfile обновляет профиль пользователя
func (s *UserService) UpdateProfile(userID uint, input UpdateProfileInput) (*entity.User, error) {
	updates := make(map[string]interface{})

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", apperrors.ErrValidation)
		}
		// Проверяем занятость нового имени
		existing, err := s.userRepo.GetByUsername(username)
		if err == nil && existing.ID != userID {
			return nil, fmt.Errorf("%w: username already taken", apperrors.ErrConflict)
		}
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		updates["username"] = username
	}
	if input.Bio != nil {
		updates["bio"] = strings.TrimSpace(*input.Bio)
	}
	if input.ProfilePicture != nil {
		updates["profile_picture"] = strings.TrimSpace(*input.ProfilePicture)
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", apperrors.ErrValidation)
	}

	if err := s.userRepo.UpdateProfile(userID, updates); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(userID)
}

// ChangePassword меняет пароль после проверки текущего
func (s *UserService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(currentPassword) {
		return fmt.Errorf("%w: current password is incorrect", apperrors.ErrUnauthorized)
	}

	return s.userRepo.UpdatePassword(userID, newPassword)
}

// Follow подписывает пользователя на другого пользователя
func (s *UserService) Follow(followerID, followeeID uint) error {
	if followerID == followeeID {
		return fmt.Errorf("%w: cannot follow yourself", apperrors.ErrValidation)
	}

	// Убеждаемся, что адресат существует
	if _, err := s.userRepo.GetByID(followeeID); err != nil {
		return err
	}

	if err := s.followRepo.Create(followerID, followeeID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: already following", apperrors.ErrConflict)
		}
		return err
	}
	return nil
}

// Unfollow снимает подписку
func (s *UserService) Unfollow(followerID, followeeID uint) error {
	if followerID == followeeID {
		return fmt.Errorf("%w: cannot unfollow yourself", apperrors.ErrValidation)
	}
	return s.followRepo.Delete(followerID, followeeID)
}

// GetFollowers возвращает подписчиков пользователя
func (s *UserService) GetFollowers(userID uint, page, pageSize int) ([]entity.User, error) {
	limit, offset := paginate(page, pageSize)
	return s.followRepo.ListFollowers(userID, limit, offset)
}

// GetFollowing возвращает подписки пользователя
func (s *UserService) GetFollowing(userID uint, page, pageSize int) ([]entity.User, error) {
	limit, offset := paginate(page, pageSize)
	return s.followRepo.ListFollowing(userID, limit, offset)
}

// GetLeaderboard возвращает пагинированный список пользователей по суммарным баллам
func (s *UserService) GetLeaderboard(page, pageSize int) (*dto.PaginatedLeaderboardResponse, error) {
	limit, offset := paginate(page, pageSize)

	users, total, err := s.userRepo.GetLeaderboard(limit, offset)
	if err != nil {
		log.Printf("[UserService] Ошибка при получении лидерборда из репозитория: %v", err)
		return nil, err
	}

	userDTOs := make([]*dto.LeaderboardUserDTO, len(users))
	for i, user := range users {
		userDTOs[i] = &dto.LeaderboardUserDTO{
			Rank:            offset + i + 1,
			UserID:          user.ID,
			Username:        user.Username,
			ProfilePicture:  user.ProfilePicture,
			ShortsAttempted: user.ShortsAttempted,
			ShortsCorrect:   user.ShortsCorrect,
			TotalPoints:     user.TotalPoints,
		}
	}

	return &dto.PaginatedLeaderboardResponse{
		Users:   userDTOs,
		Total:   total,
		Page:    normalizePage(page),
		PerPage: limit,
	}, nil
}

// paginate нормализует параметры пагинации и возвращает limit/offset
func paginate(page, pageSize int) (limit, offset int) {
	page = normalizePage(page)
	if pageSize < 1 {
		pageSize = 10
	} else if pageSize > 100 {
		pageSize = 100
	}
	return pageSize, (page - 1) * pageSize
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

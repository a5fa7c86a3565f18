package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
)

// FollowRepo реализует repository.FollowRepository
type FollowRepo struct {
	db *gorm.DB
}

// NewFollowRepo создает новый репозиторий подписок
func NewFollowRepo(db *gorm.DB) *FollowRepo {
	return &FollowRepo{db: db}
}

// Create создает подписку и атомарно обновляет счетчики обоих пользователей
func (r *FollowRepo) Create(followerID, followeeID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		follow := &entity.Follow{FollowerID: followerID, FolloweeID: followeeID}
		if err := tx.Create(follow).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: user #%d already follows user #%d", apperrors.ErrConflict, followerID, followeeID)
			}
			return err
		}
		if err := tx.Model(&entity.User{}).
			Where("id = ?", followerID).
			Update("following_count", gorm.Expr("following_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&entity.User{}).
			Where("id = ?", followeeID).
			Update("followers_count", gorm.Expr("followers_count + 1")).Error
	})
}

// Delete удаляет подписку и атомарно обновляет счетчики
func (r *FollowRepo) Delete(followerID, followeeID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Delete(&entity.Follow{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		if err := tx.Model(&entity.User{}).
			Where("id = ? AND following_count > 0", followerID).
			Update("following_count", gorm.Expr("following_count - 1")).Error; err != nil {
			return err
		}
		return tx.Model(&entity.User{}).
			Where("id = ? AND followers_count > 0", followeeID).
			Update("followers_count", gorm.Expr("followers_count - 1")).Error
	})
}

// Exists проверяет наличие подписки
func (r *FollowRepo) Exists(followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

// ListFollowers возвращает подписчиков пользователя
func (r *FollowRepo) ListFollowers(userID uint, limit, offset int) ([]entity.User, error) {
	var users []entity.User
	err := r.db.Model(&entity.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Order("follows.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}

// ListFollowing возвращает пользователей, на которых подписан пользователь
func (r *FollowRepo) ListFollowing(userID uint, limit, offset int) ([]entity.User, error) {
	var users []entity.User
	err := r.db.Model(&entity.User{}).
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}

// FollowingIDs возвращает все ID подписок пользователя (для ленты)
func (r *FollowRepo) FollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entity.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error
	return ids, err
}

package repositories

import (
	"github.com/experiencehub/backend/internal/models"
	"gorm.io/gorm"
)

// BlockedUserRepository defines the interface for block edge operations
type BlockedUserRepository interface {
	CreateBlock(block *models.BlockedUser) error
	DeleteBlock(userID, blockedUserID uint) error
	IsBlocked(userID, blockedUserID uint) (bool, error)
}

type postgresBlockedUserRepository struct {
	db *gorm.DB
}

func NewPostgresBlockedUserRepository(db *gorm.DB) BlockedUserRepository {
	return &postgresBlockedUserRepository{db: db}
}

func (r *postgresBlockedUserRepository) CreateBlock(block *models.BlockedUser) error {
	return r.db.Create(block).Error
}

func (r *postgresBlockedUserRepository) DeleteBlock(userID, blockedUserID uint) error {
	res := r.db.Where("user_id = ? AND blocked_user_id = ?", userID, blockedUserID).Delete(&models.BlockedUser{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postgresBlockedUserRepository) IsBlocked(userID, blockedUserID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.BlockedUser{}).Where("user_id = ? AND blocked_user_id = ?", userID, blockedUserID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

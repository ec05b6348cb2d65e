package repositories

import (
	"github.com/experiencehub/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRequestRepository defines the interface for follow request operations.
// Resolved requests are deleted, never transitioned, so every stored row is
// a pending one.
type FollowRequestRepository interface {
	CreateRequest(request *models.FollowRequest) error
	GetPendingRequest(followerID, followedID uint) (*models.FollowRequest, error)
	GetRequestByID(id uint) (*models.FollowRequest, error)
	HasPendingRequest(followerID, followedID uint) (bool, error)
	DeleteRequest(id uint) error
	GetRequestsForUser(userID uint) ([]models.FollowRequest, error)
}

type postgresFollowRequestRepository struct {
	db *gorm.DB
}

func NewPostgresFollowRequestRepository(db *gorm.DB) FollowRequestRepository {
	return &postgresFollowRequestRepository{db: db}
}

func (r *postgresFollowRequestRepository) CreateRequest(request *models.FollowRequest) error {
	return r.db.Create(request).Error
}

func (r *postgresFollowRequestRepository) GetPendingRequest(followerID, followedID uint) (*models.FollowRequest, error) {
	var request models.FollowRequest
	err := r.db.Where("follower_id = ? AND followed_id = ? AND status = ?",
		followerID, followedID, models.FollowRequestPending).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *postgresFollowRequestRepository) GetRequestByID(id uint) (*models.FollowRequest, error) {
	var request models.FollowRequest
	if err := r.db.First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *postgresFollowRequestRepository) HasPendingRequest(followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.FollowRequest{}).
		Where("follower_id = ? AND followed_id = ? AND status = ?", followerID, followedID, models.FollowRequestPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *postgresFollowRequestRepository) DeleteRequest(id uint) error {
	res := r.db.Unscoped().Delete(&models.FollowRequest{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postgresFollowRequestRepository) GetRequestsForUser(userID uint) ([]models.FollowRequest, error) {
	var requests []models.FollowRequest
	err := r.db.Where("(followed_id = ? OR follower_id = ?) AND status = ?",
		userID, userID, models.FollowRequestPending).Find(&requests).Error
	return requests, err
}

package repositories

import (
	"github.com/experiencehub/backend/internal/models"
	"gorm.io/gorm"
)

// CommentReactionRepository defines the interface for comment reaction operations
type CommentReactionRepository interface {
	GetReaction(commentID, userID uint) (*models.CommentReaction, error)
	CreateReaction(reaction *models.CommentReaction) error
	UpdateReaction(reaction *models.CommentReaction) error
	DeleteReaction(commentID, userID uint) error
	CountReactions(commentID uint, isLike bool) (int64, error)
}

type postgresCommentReactionRepository struct {
	db *gorm.DB
}

func NewPostgresCommentReactionRepository(db *gorm.DB) CommentReactionRepository {
	return &postgresCommentReactionRepository{db: db}
}

func (r *postgresCommentReactionRepository) GetReaction(commentID, userID uint) (*models.CommentReaction, error) {
	var reaction models.CommentReaction
	err := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *postgresCommentReactionRepository) CreateReaction(reaction *models.CommentReaction) error {
	return r.db.Create(reaction).Error
}

func (r *postgresCommentReactionRepository) UpdateReaction(reaction *models.CommentReaction) error {
	return r.db.Save(reaction).Error
}

func (r *postgresCommentReactionRepository) DeleteReaction(commentID, userID uint) error {
	res := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentReaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postgresCommentReactionRepository) CountReactions(commentID uint, isLike bool) (int64, error) {
	var count int64
	err := r.db.Model(&models.CommentReaction{}).Where("comment_id = ? AND is_like = ?", commentID, isLike).Count(&count).Error
	return count, err
}

package repositories

import (
	"github.com/experiencehub/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByExperienceID(experienceID uint) ([]models.Comment, error)
	UpdateReactionCounts(commentID uint, likes, dislikes int) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *PostgresCommentRepository) GetCommentsByExperienceID(experienceID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("experience_id = ?", experienceID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (r *PostgresCommentRepository) UpdateReactionCounts(commentID uint, likes, dislikes int) error {
	return r.db.Model(&models.Comment{}).Where("id = ?", commentID).
		Updates(map[string]interface{}{"likes_count": likes, "dislikes_count": dislikes}).Error
}

package repositories

import (
	"github.com/experiencehub/backend/internal/models"
	"gorm.io/gorm"
)

// ExperienceRepository defines the narrow surface the realtime core needs
// from the experience store
type ExperienceRepository interface {
	GetExperienceByID(id uint) (*models.Experience, error)
	ExperienceExists(id uint) (bool, error)
}

type postgresExperienceRepository struct {
	db *gorm.DB
}

func NewPostgresExperienceRepository(db *gorm.DB) ExperienceRepository {
	return &postgresExperienceRepository{db: db}
}

func (r *postgresExperienceRepository) GetExperienceByID(id uint) (*models.Experience, error) {
	var experience models.Experience
	if err := r.db.First(&experience, id).Error; err != nil {
		return nil, err
	}
	return &experience, nil
}

func (r *postgresExperienceRepository) ExperienceExists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Experience{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

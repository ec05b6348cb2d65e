package repositories

import (
	"github.com/experiencehub/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	CreateMessage(message *models.Message) error
	GetConversation(userID, peerID uint) ([]models.Message, error)
	GetSenders(receiverID uint) ([]models.User, error)
	DeleteConversation(userID, peerID uint) (int64, error)
	DeleteMessageByID(id uint) error
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *PostgresMessageRepository) GetConversation(userID, peerID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userID, peerID, peerID, userID).
		Order("timestamp ASC").Find(&messages).Error
	return messages, err
}

func (r *PostgresMessageRepository) GetSenders(receiverID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id IN (?)",
		r.db.Model(&models.Message{}).Distinct("sender_id").Where("receiver_id = ?", receiverID),
	).Find(&users).Error
	return users, err
}

func (r *PostgresMessageRepository) DeleteConversation(userID, peerID uint) (int64, error) {
	res := r.db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userID, peerID, peerID, userID).Delete(&models.Message{})
	return res.RowsAffected, res.Error
}

func (r *PostgresMessageRepository) DeleteMessageByID(id uint) error {
	res := r.db.Delete(&models.Message{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

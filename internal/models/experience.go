package models

import "time"

// Experience represents a shared experience post. Its CRUD surface lives
// outside this service's realtime core; the hub only needs existence checks
// and the comment thread foreign key.
type Experience struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

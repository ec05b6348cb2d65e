package models

import "time"

// Notification represents a user notification, created as a side effect of
// workflow transitions (follow request accepted, likes) and mutated only by
// mark-as-read
type Notification struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	UserID  uint      `json:"user_id" gorm:"index"`
	Type    string    `json:"type" gorm:"size:50"`
	Content string    `json:"content"`
	IsRead  bool      `json:"is_read" gorm:"default:false;index"`
	Date    time.Time `json:"date" gorm:"autoCreateTime"`
}

package models

import "time"

// BlockedUser is a directed block edge. Blocking is advisory: clients query
// it before opening a conversation, the message send path does not consult it.
type BlockedUser struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_blocked"`
	BlockedUserID uint      `json:"blocked_user_id" gorm:"index;uniqueIndex:idx_user_blocked"`
	BlockedAt     time.Time `json:"blocked_at" gorm:"autoCreateTime"`
}

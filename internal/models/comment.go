package models

import "time"

// Comment represents a comment on an experience. ParentCommentID allows
// threaded replies. LikesCount and DislikesCount are denormalized caches
// maintained exclusively by the reaction engine: they are always recomputed
// from CommentReaction rows, never incremented in place.
type Comment struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Content         string    `json:"content" validate:"required,min=1,max=500"`
	UserID          uint      `json:"user_id" gorm:"index"`
	ExperienceID    uint      `json:"experience_id" gorm:"index"`
	ParentCommentID *uint     `json:"parent_comment_id,omitempty" gorm:"index"`
	CreatedAt       time.Time `json:"created_at"`
	LikesCount      int       `json:"likes_count" gorm:"default:0"`
	DislikesCount   int       `json:"dislikes_count" gorm:"default:0"`
}

// CreateCommentRequest defines the payload for posting a comment over the hub
type CreateCommentRequest struct {
	Content         string `json:"content" validate:"required,min=1,max=500"`
	ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
}

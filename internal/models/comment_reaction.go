package models

import "time"

// CommentReaction is a user's like/dislike vote on a comment.
// At most one row exists per (comment, user) pair; repeating the same
// reaction removes the row, the opposite reaction flips IsLike in place.
type CommentReaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CommentID uint      `json:"comment_id" gorm:"index;uniqueIndex:idx_comment_user_reaction"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_comment_user_reaction"`
	IsLike    bool      `json:"is_like"` // true = like, false = dislike
	CreatedAt time.Time `json:"created_at"`
}

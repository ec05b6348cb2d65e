package models

import "gorm.io/gorm"

// FollowRequestStatus enumerates follow request states. Resolved requests are
// deleted rather than transitioned, so only "pending" is ever observed in the
// table; the accepted/rejected values are kept for the API contract.
type FollowRequestStatus string

const (
	FollowRequestPending  FollowRequestStatus = "pending"
	FollowRequestAccepted FollowRequestStatus = "accepted"
	FollowRequestRejected FollowRequestStatus = "rejected"
)

// FollowRequest represents a pending follow request between two users
type FollowRequest struct {
	gorm.Model
	FollowerID uint                `json:"follower_id" gorm:"index"` // User who wants to follow
	FollowedID uint                `json:"followed_id" gorm:"index"` // User being followed
	Status     FollowRequestStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
}

// RespondFollowRequest defines the request body for accepting/rejecting a follow request
type RespondFollowRequest struct {
	IsAccepted bool `json:"is_accepted"`
}

// CancelFollowRequest defines the request body for cancelling a sent follow request
type CancelFollowRequest struct {
	FollowedID uint `json:"followed_id" validate:"required"`
}

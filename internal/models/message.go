package models

import "time"

// Message is a durable direct message between two users. Timestamp is always
// server-assigned; client-supplied values are ignored. Delivery over the
// realtime transport is best-effort, the row here is the source of truth.
type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SenderID   uint      `json:"sender_id" gorm:"index"`
	ReceiverID uint      `json:"receiver_id" gorm:"index"`
	Content    string    `json:"content"`
	MediaURL   string    `json:"media_url,omitempty"`
	MediaType  string    `json:"media_type,omitempty"` // "image", "audio", "video" etc.
	Timestamp  time.Time `json:"timestamp"`
}

// SendMessageRequest is the payload a connected client submits over the hub.
// The sender identity comes from the connection, never from this body.
type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
	MediaURL   string `json:"media_url,omitempty"`
	MediaType  string `json:"media_type,omitempty"`
}

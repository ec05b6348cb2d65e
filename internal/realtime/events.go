package realtime

import (
	"fmt"

	"github.com/experiencehub/backend/internal/models"
)

// Event names pushed to clients over the transport.
const (
	EventConnectionInfo      = "ConnectionInfo"
	EventReceiveMessage      = "ReceiveMessage"
	EventIncomingCall        = "IncomingCall"
	EventCallAccepted        = "CallAccepted"
	EventCallRejected        = "CallRejected"
	EventReceiveWebRTCOffer  = "ReceiveWebRTCOffer"
	EventReceiveWebRTCAnswer = "ReceiveWebRTCAnswer"
	EventReceiveICECandidate = "ReceiveICECandidate"
	EventReceiveComment      = "ReceiveComment"
	EventUpdateReaction      = "UpdateReaction"
	EventErrorMessage        = "ErrorMessage"
	EventReceiveSuccess      = "ReceiveSuccess"
	EventReceiveError        = "ReceiveError"
)

// Event is one frame pushed to a client connection
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ConnectionInfo confirms a successful registration to the connecting client
type ConnectionInfo struct {
	UserID       uint   `json:"user_id"`
	ConnectionID string `json:"connection_id"`
}

// IncomingCall notifies the receiver that a call is being placed
type IncomingCall struct {
	CallerID uint `json:"caller_id"`
	IsVideo  bool `json:"is_video"`
}

// CallAccepted notifies the original caller that the receiver picked up
type CallAccepted struct {
	ReceiverID uint `json:"receiver_id"`
}

// WebRTCSignal carries an SDP offer or answer verbatim
type WebRTCSignal struct {
	SDP string `json:"sdp"`
}

// ICECandidate carries one ICE candidate verbatim
type ICECandidate struct {
	Candidate string `json:"candidate"`
}

// CommentEvent is a persisted comment broadcast to an experience group
type CommentEvent struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

// ReactionUpdate carries freshly recomputed reaction counts for a comment
type ReactionUpdate struct {
	CommentID     uint `json:"comment_id"`
	LikesCount    int  `json:"likes_count"`
	DislikesCount int  `json:"dislikes_count"`
}

func errorEvent(format string, args ...interface{}) Event {
	return Event{Type: EventErrorMessage, Payload: fmt.Sprintf(format, args...)}
}

package realtime

import (
	"errors"
	"time"

	"github.com/experiencehub/backend/internal/models"
	"github.com/experiencehub/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenParser resolves a transport-level credential to a user id.
// The same JWT parsing backs the HTTP middleware; the hub receives it as a
// capability so identity resolution stays out of the routing logic.
type TokenParser func(token string) (uint, error)

// Session identifies one live connection and the user it authenticated as.
// UserID is zero when the connection never completed registration.
type Session struct {
	ConnectionID string
	UserID       uint
}

// Registered reports whether the session carries a verified user identity.
func (s Session) Registered() bool { return s.UserID != 0 }

// Hub owns the connect/disconnect lifecycle and routes chat, call-signaling,
// comment and reaction events between live connections. All state beyond the
// connection registry lives in the repositories; hub operations from
// different connections run concurrently without global serialization.
type Hub struct {
	registry    *ConnectionRegistry
	transport   Transport
	users       repositories.UserRepository
	experiences repositories.ExperienceRepository
	comments    repositories.CommentRepository
	messages    repositories.MessageRepository
	reactions   *ReactionEngine
	parseToken  TokenParser
	logger      *zap.Logger
}

// NewHub creates a Hub wired to its collaborators
func NewHub(
	registry *ConnectionRegistry,
	transport Transport,
	userRepo repositories.UserRepository,
	experienceRepo repositories.ExperienceRepository,
	commentRepo repositories.CommentRepository,
	messageRepo repositories.MessageRepository,
	reactions *ReactionEngine,
	parseToken TokenParser,
	logger *zap.Logger,
) *Hub {
	return &Hub{
		registry:    registry,
		transport:   transport,
		users:       userRepo,
		experiences: experienceRepo,
		comments:    commentRepo,
		messages:    messageRepo,
		reactions:   reactions,
		parseToken:  parseToken,
		logger:      logger,
	}
}

// Connect registers a fresh connection under the user the credential resolves
// to. On failure the caller is notified over its own connection and the
// connection stays unregistered; no cleanup is needed on its disconnect.
func (h *Hub) Connect(connectionID, token string) Session {
	session := Session{ConnectionID: connectionID}

	userID, err := h.parseToken(token)
	if err != nil {
		h.logger.Warn("connection rejected, identity could not be determined",
			zap.String("connection_id", connectionID), zap.Error(err))
		h.transport.SendToConnection(connectionID, errorEvent("user ID could not be determined for connection %s", connectionID))
		return session
	}

	exists, err := h.users.UserExists(userID)
	if err != nil {
		h.logger.Error("user lookup failed on connect", zap.Uint("user_id", userID), zap.Error(err))
		h.transport.SendToConnection(connectionID, errorEvent("failed to verify user %d", userID))
		return session
	}
	if !exists {
		h.transport.SendToConnection(connectionID, errorEvent("user with ID %d does not exist", userID))
		return session
	}

	h.registry.Register(userID, connectionID)
	session.UserID = userID

	h.transport.SendToConnection(connectionID, Event{
		Type:    EventConnectionInfo,
		Payload: ConnectionInfo{UserID: userID, ConnectionID: connectionID},
	})
	h.logger.Info("connection registered",
		zap.Uint("user_id", userID), zap.String("connection_id", connectionID))
	return session
}

// Disconnect drops the session's registry entry. It never fails, even for
// sessions that never registered, and it leaves a newer connection of the
// same user untouched.
func (h *Hub) Disconnect(session Session) {
	if !session.Registered() {
		return
	}
	if h.registry.Remove(session.UserID, session.ConnectionID) {
		h.logger.Info("connection removed",
			zap.Uint("user_id", session.UserID), zap.String("connection_id", session.ConnectionID))
	}
}

// SendMessage persists a direct message and forwards it best-effort to the
// receiver's live connection, echoing it back to the sender's own connection.
// An offline receiver is not an error; the durable row remains for polling.
func (h *Hub) SendMessage(session Session, req models.SendMessageRequest) {
	if !session.Registered() {
		h.transport.SendToConnection(session.ConnectionID, errorEvent("user ID not found"))
		return
	}
	if req.Content == "" && req.MediaURL == "" {
		h.transport.SendToConnection(session.ConnectionID, errorEvent("message must have content or media"))
		return
	}

	message := &models.Message{
		SenderID:   session.UserID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		MediaURL:   req.MediaURL,
		MediaType:  req.MediaType,
		Timestamp:  time.Now().UTC(),
	}
	if err := h.messages.CreateMessage(message); err != nil {
		h.logger.Error("message persist failed",
			zap.Uint("sender_id", session.UserID), zap.Uint("receiver_id", req.ReceiverID), zap.Error(err))
		h.transport.SendToConnection(session.ConnectionID, errorEvent("failed to send message"))
		return
	}

	event := Event{Type: EventReceiveMessage, Payload: message}
	if receiverConn, ok := h.registry.Lookup(req.ReceiverID); ok {
		h.transport.SendToConnection(receiverConn, event)
	}
	if senderConn, ok := h.registry.Lookup(session.UserID); ok && senderConn != "" {
		if receiverConn, _ := h.registry.Lookup(req.ReceiverID); senderConn != receiverConn {
			h.transport.SendToConnection(senderConn, event)
		}
	}
}

// CallUser rings the receiver if it is online. The only surfaced error is an
// unresolvable caller identity.
func (h *Hub) CallUser(session Session, receiverID uint, isVideo bool) {
	if !session.Registered() {
		h.transport.SendToConnection(session.ConnectionID, errorEvent("user ID not found"))
		return
	}
	if receiverConn, ok := h.registry.Lookup(receiverID); ok {
		h.transport.SendToConnection(receiverConn, Event{
			Type:    EventIncomingCall,
			Payload: IncomingCall{CallerID: session.UserID, IsVideo: isVideo},
		})
	}
}

// AcceptCall notifies the original caller that the call was picked up.
func (h *Hub) AcceptCall(session Session, callerID uint) {
	if !session.Registered() {
		h.transport.SendToConnection(session.ConnectionID, errorEvent("user ID not found"))
		return
	}
	if callerConn, ok := h.registry.Lookup(callerID); ok {
		h.transport.SendToConnection(callerConn, Event{
			Type:    EventCallAccepted,
			Payload: CallAccepted{ReceiverID: session.UserID},
		})
	}
}

// RejectCall notifies the original caller that the call was declined.
// The call silently fails when the caller has gone offline.
func (h *Hub) RejectCall(session Session, callerID uint) {
	if callerConn, ok := h.registry.Lookup(callerID); ok {
		h.transport.SendToConnection(callerConn, Event{Type: EventCallRejected})
	}
}

// SendWebRTCOffer forwards an SDP offer verbatim to the receiver.
func (h *Hub) SendWebRTCOffer(session Session, receiverID uint, sdp string) {
	if receiverConn, ok := h.registry.Lookup(receiverID); ok {
		h.transport.SendToConnection(receiverConn, Event{
			Type:    EventReceiveWebRTCOffer,
			Payload: WebRTCSignal{SDP: sdp},
		})
	}
}

// SendWebRTCAnswer forwards an SDP answer verbatim to the caller.
func (h *Hub) SendWebRTCAnswer(session Session, callerID uint, sdp string) {
	if callerConn, ok := h.registry.Lookup(callerID); ok {
		h.transport.SendToConnection(callerConn, Event{
			Type:    EventReceiveWebRTCAnswer,
			Payload: WebRTCSignal{SDP: sdp},
		})
	}
}

// SendICECandidate forwards one ICE candidate verbatim to the receiver.
func (h *Hub) SendICECandidate(session Session, receiverID uint, candidate string) {
	if receiverConn, ok := h.registry.Lookup(receiverID); ok {
		h.transport.SendToConnection(receiverConn, Event{
			Type:    EventReceiveICECandidate,
			Payload: ICECandidate{Candidate: candidate},
		})
	}
}

// JoinExperienceGroup subscribes the connection to one experience's comment
// thread. Joining is idempotent.
func (h *Hub) JoinExperienceGroup(session Session, experienceID int) {
	if experienceID <= 0 {
		h.transport.SendToConnection(session.ConnectionID, Event{Type: EventReceiveError, Payload: "invalid experience ID"})
		return
	}
	group := ExperienceGroup(experienceID)
	h.transport.AddToGroup(session.ConnectionID, group)
	h.transport.SendToConnection(session.ConnectionID, Event{Type: EventReceiveSuccess, Payload: "joined " + group})
}

// LeaveExperienceGroup removes the connection from the experience's group.
// Leaving a group the connection never joined is a no-op.
func (h *Hub) LeaveExperienceGroup(session Session, experienceID int) {
	if experienceID <= 0 {
		h.transport.SendToConnection(session.ConnectionID, Event{Type: EventReceiveError, Payload: "invalid experience ID"})
		return
	}
	group := ExperienceGroup(experienceID)
	h.transport.RemoveFromGroup(session.ConnectionID, group)
	h.transport.SendToConnection(session.ConnectionID, Event{Type: EventReceiveSuccess, Payload: "left " + group})
}

// AddComment persists a comment on an experience and broadcasts it to every
// connection subscribed to that experience's group.
func (h *Hub) AddComment(session Session, experienceID int, req models.CreateCommentRequest) {
	if !session.Registered() {
		h.transport.SendToConnection(session.ConnectionID, errorEvent("user ID not found"))
		return
	}
	if experienceID <= 0 || req.Content == "" {
		h.transport.SendToConnection(session.ConnectionID, errorEvent("comment must target an experience and carry content"))
		return
	}

	exists, err := h.experiences.ExperienceExists(uint(experienceID))
	if err != nil {
		h.logger.Error("experience lookup failed", zap.Int("experience_id", experienceID), zap.Error(err))
		h.transport.SendToConnection(session.ConnectionID, errorEvent("failed to add comment"))
		return
	}
	if !exists {
		h.transport.SendToConnection(session.ConnectionID, errorEvent("experience not found"))
		return
	}

	author, err := h.users.GetUserByID(session.UserID)
	if err != nil {
		h.transport.SendToConnection(session.ConnectionID, errorEvent("user not found"))
		return
	}

	comment := &models.Comment{
		Content:         req.Content,
		UserID:          session.UserID,
		ExperienceID:    uint(experienceID),
		ParentCommentID: req.ParentCommentID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := h.comments.CreateComment(comment); err != nil {
		h.logger.Error("comment persist failed", zap.Int("experience_id", experienceID), zap.Error(err))
		h.transport.SendToConnection(session.ConnectionID, errorEvent("failed to add comment"))
		return
	}

	h.transport.SendToGroup(ExperienceGroup(experienceID), Event{
		Type:    EventReceiveComment,
		Payload: CommentEvent{Comment: *comment, Author: author.ToCompact()},
	})
}

// ReactToComment toggles the session user's reaction and lets the engine
// broadcast the recomputed counts. Failures go back to the caller only.
func (h *Hub) ReactToComment(session Session, commentID uint, isLike bool) {
	if !session.Registered() {
		h.transport.SendToConnection(session.ConnectionID, Event{Type: EventReceiveError, Payload: "invalid user token"})
		return
	}
	if _, err := h.reactions.React(commentID, session.UserID, isLike); err != nil {
		if errors.Is(err, ErrCommentNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			h.transport.SendToConnection(session.ConnectionID, Event{Type: EventReceiveError, Payload: "comment not found"})
			return
		}
		h.logger.Error("reaction failed", zap.Uint("comment_id", commentID), zap.Error(err))
		h.transport.SendToConnection(session.ConnectionID, Event{Type: EventReceiveError, Payload: "failed to apply reaction"})
	}
}

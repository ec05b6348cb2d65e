package realtime

import (
	"encoding/json"
	"time"

	"github.com/experiencehub/backend/internal/models"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 32
)

// Client is one live websocket connection. The read pump dispatches inbound
// frames to hub operations; the write pump drains the send channel. A slow
// consumer whose buffer fills up has events dropped rather than blocking the
// sender.
type Client struct {
	id      string
	conn    *websocket.Conn
	send    chan Event
	hub     *Hub
	session Session
	logger  *zap.Logger
}

func newClient(id string, conn *websocket.Conn, hub *Hub, logger *zap.Logger) *Client {
	return &Client{
		id:     id,
		conn:   conn,
		send:   make(chan Event, sendBuffer),
		hub:    hub,
		logger: logger,
	}
}

// enqueue offers an event to the client without blocking.
func (c *Client) enqueue(event Event) {
	select {
	case c.send <- event:
	default:
		c.logger.Warn("send buffer full, dropping event",
			zap.String("connection_id", c.id), zap.String("event", event.Type))
	}
}

// frame is one inbound remote invocation from the client.
type frame struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type callPayload struct {
	ReceiverID uint   `json:"receiver_id"`
	CallerID   uint   `json:"caller_id"`
	IsVideo    bool   `json:"is_video"`
	SDP        string `json:"sdp"`
	Candidate  string `json:"candidate"`
}

type groupPayload struct {
	ExperienceID int `json:"experience_id"`
}

type commentPayload struct {
	ExperienceID int    `json:"experience_id"`
	Content      string `json:"content"`
	ParentID     *uint  `json:"parent_comment_id"`
}

type reactionPayload struct {
	CommentID uint `json:"comment_id"`
	IsLike    bool `json:"is_like"`
}

func (c *Client) readPump(transport *WSTransport) {
	defer func() {
		// removeConnection closes the send channel under the transport lock,
		// so no in-flight delivery can race the close.
		transport.removeConnection(c.id)
		c.hub.Disconnect(c.session)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var f frame
		if err := c.conn.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("abnormal websocket closure", zap.String("connection_id", c.id), zap.Error(err))
			}
			return
		}
		c.dispatch(f)
	}
}

// dispatch routes one frame to its hub operation. Every invocation runs in
// its own goroutine so a slow operation never blocks the connection's other
// calls.
func (c *Client) dispatch(f frame) {
	session := c.session
	switch f.Action {
	case "SendMessage":
		var req models.SendMessageRequest
		if c.decode(f.Data, &req) {
			go c.hub.SendMessage(session, req)
		}
	case "CallUser":
		var p callPayload
		if c.decode(f.Data, &p) {
			go c.hub.CallUser(session, p.ReceiverID, p.IsVideo)
		}
	case "AcceptCall":
		var p callPayload
		if c.decode(f.Data, &p) {
			go c.hub.AcceptCall(session, p.CallerID)
		}
	case "RejectCall":
		var p callPayload
		if c.decode(f.Data, &p) {
			go c.hub.RejectCall(session, p.CallerID)
		}
	case "SendWebRTCOffer":
		var p callPayload
		if c.decode(f.Data, &p) {
			go c.hub.SendWebRTCOffer(session, p.ReceiverID, p.SDP)
		}
	case "SendWebRTCAnswer":
		var p callPayload
		if c.decode(f.Data, &p) {
			go c.hub.SendWebRTCAnswer(session, p.CallerID, p.SDP)
		}
	case "SendICECandidate":
		var p callPayload
		if c.decode(f.Data, &p) {
			go c.hub.SendICECandidate(session, p.ReceiverID, p.Candidate)
		}
	case "JoinExperienceGroup":
		var p groupPayload
		if c.decode(f.Data, &p) {
			go c.hub.JoinExperienceGroup(session, p.ExperienceID)
		}
	case "LeaveExperienceGroup":
		var p groupPayload
		if c.decode(f.Data, &p) {
			go c.hub.LeaveExperienceGroup(session, p.ExperienceID)
		}
	case "AddComment":
		var p commentPayload
		if c.decode(f.Data, &p) {
			go c.hub.AddComment(session, p.ExperienceID, models.CreateCommentRequest{
				Content:         p.Content,
				ParentCommentID: p.ParentID,
			})
		}
	case "ReactToComment":
		var p reactionPayload
		if c.decode(f.Data, &p) {
			go c.hub.ReactToComment(session, p.CommentID, p.IsLike)
		}
	default:
		c.enqueue(errorEvent("unknown action %q", f.Action))
	}
}

func (c *Client) decode(data json.RawMessage, v interface{}) bool {
	if err := json.Unmarshal(data, v); err != nil {
		c.enqueue(errorEvent("malformed payload: %v", err))
		return false
	}
	return true
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				c.logger.Warn("websocket write failed", zap.String("connection_id", c.id), zap.Error(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package realtime

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browsers connect from a separate origin in development; auth happens
	// through the access_token credential, not the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSTransport implements Transport on gorilla websockets. It owns the
// connection-id to client mapping and the named broadcast groups.
type WSTransport struct {
	mu      sync.RWMutex
	clients map[string]*Client
	groups  map[string]map[string]struct{}
	logger  *zap.Logger
}

// NewWSTransport creates an empty websocket transport
func NewWSTransport(logger *zap.Logger) *WSTransport {
	return &WSTransport{
		clients: make(map[string]*Client),
		groups:  make(map[string]map[string]struct{}),
		logger:  logger,
	}
}

// SendToConnection pushes an event to one connection. Unknown connection ids
// are silently skipped.
func (t *WSTransport) SendToConnection(connectionID string, event Event) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if client, ok := t.clients[connectionID]; ok {
		client.enqueue(event)
	}
}

// SendToGroup pushes an event to every connection in the group.
func (t *WSTransport) SendToGroup(group string, event Event) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for connectionID := range t.groups[group] {
		if client, ok := t.clients[connectionID]; ok {
			client.enqueue(event)
		}
	}
}

// AddToGroup subscribes a connection to a named group. Idempotent.
func (t *WSTransport) AddToGroup(connectionID, group string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.clients[connectionID]; !ok {
		return
	}
	if _, ok := t.groups[group]; !ok {
		t.groups[group] = make(map[string]struct{})
	}
	t.groups[group][connectionID] = struct{}{}
}

// RemoveFromGroup unsubscribes a connection from a group, dropping the group
// entirely once empty so dead groups do not accumulate.
func (t *WSTransport) RemoveFromGroup(connectionID, group string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.removeFromGroupLocked(connectionID, group)
}

func (t *WSTransport) removeFromGroupLocked(connectionID, group string) {
	if members, ok := t.groups[group]; ok {
		delete(members, connectionID)
		if len(members) == 0 {
			delete(t.groups, group)
		}
	}
}

func (t *WSTransport) addClient(client *Client) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clients[client.id] = client
}

// removeConnection drops the client from the routing table and every group,
// closing its send channel under the lock so no concurrent delivery can hit
// a closed channel.
func (t *WSTransport) removeConnection(connectionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	client, ok := t.clients[connectionID]
	if !ok {
		return
	}
	delete(t.clients, connectionID)
	for group := range t.groups {
		t.removeFromGroupLocked(connectionID, group)
	}
	close(client.send)
}

// ConnectionCount returns the number of live connections.
func (t *WSTransport) ConnectionCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.clients)
}

// ServeWS returns the echo handler that upgrades a request to a websocket
// connection, registers it with the hub and runs the client pumps until
// disconnect. The credential travels in the access_token query parameter.
func ServeWS(hub *Hub, transport *WSTransport, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return err
		}

		connectionID := uuid.NewString()
		client := newClient(connectionID, conn, hub, logger)
		transport.addClient(client)

		go client.writePump()

		// Register before reading any frame so the ConnectionInfo event is
		// the first thing a well-behaved client observes.
		client.session = hub.Connect(connectionID, c.QueryParam("access_token"))

		client.readPump(transport)
		return nil
	}
}

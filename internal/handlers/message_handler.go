package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/experiencehub/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// MessageHandler serves the durable side of the chat: conversation history
// for polling, sender listings and deletion. Live delivery happens on the
// realtime hub.
type MessageHandler struct {
	messageRepository repositories.MessageRepository
	uploader          Uploader
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repositories.MessageRepository, uploader Uploader) *MessageHandler {
	return &MessageHandler{messageRepository: messageRepo, uploader: uploader}
}

// RegisterMessageRoutes registers message-related routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/messages/:peer_id", h.GetConversation)
	g.GET("/messages/senders", h.GetSenders)
	g.DELETE("/messages/:peer_id", h.DeleteConversation)
	g.POST("/messages/media", h.UploadMedia)
}

// RegisterAdminRoutes registers the operator-only message surface
func (h *MessageHandler) RegisterAdminRoutes(g *echo.Group) {
	g.DELETE("/messages/:id", h.AdminDeleteMessage)
}

// GetConversation returns the full message history between the caller and a peer
func (h *MessageHandler) GetConversation(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	peerID, err := strconv.ParseUint(c.Param("peer_id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	messages, err := h.messageRepository.GetConversation(currentUserID, uint(peerID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, messages)
}

// GetSenders lists the distinct users who have messaged the caller
func (h *MessageHandler) GetSenders(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	senders, err := h.messageRepository.GetSenders(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, compactUsers(senders))
}

// DeleteConversation removes all messages between the caller and a peer
func (h *MessageHandler) DeleteConversation(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	peerID, err := strconv.ParseUint(c.Param("peer_id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	deleted, err := h.messageRepository.DeleteConversation(currentUserID, uint(peerID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if deleted == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "No messages found")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted": deleted}})
}

// UploadMedia stores a chat attachment and returns the URL to reference in a
// subsequent SendMessage call over the hub
func (h *MessageHandler) UploadMedia(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	fileHeader, err := c.FormFile("media")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Media file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to open uploaded file")
	}
	defer file.Close()

	objectName := fmt.Sprintf("messages/%d/%d%s", currentUserID, time.Now().UnixNano(), filepath.Ext(fileHeader.Filename))
	url, err := h.uploader.Upload(c.Request().Context(), objectName, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to upload media")
	}

	return c.JSON(http.StatusOK, echo.Map{"media_url": url, "media_type": fileHeader.Header.Get("Content-Type")})
}

// AdminDeleteMessage removes one message by id. Operator-only surface.
func (h *MessageHandler) AdminDeleteMessage(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid message ID")
	}

	if err := h.messageRepository.DeleteMessageByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Message not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

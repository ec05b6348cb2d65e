package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/experiencehub/backend/internal/models"
	"github.com/experiencehub/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository  repositories.NotificationRepository
	followRepository        repositories.FollowRepository
	followRequestRepository repositories.FollowRequestRepository
	userRepository          repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(
	notifRepo repositories.NotificationRepository,
	followRepo repositories.FollowRepository,
	requestRepo repositories.FollowRequestRepository,
	userRepo repositories.UserRepository,
) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository:  notifRepo,
		followRepository:        followRepo,
		followRequestRepository: requestRepo,
		userRepository:          userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.POST("/notifications/follow-requests/:id/respond", h.RespondToFollowRequest)
}

// GetNotifications returns the caller's unread notifications
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notifications, err := h.notificationRepository.GetUnreadByUserID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, notifications)
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.notificationRepository.GetUnreadCount(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks a notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notifID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	if err := h.notificationRepository.MarkAsRead(uint(notifID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all of the caller's notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.MarkAllAsRead(currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// RespondToFollowRequest resolves a pending follow request referenced by its
// row id from a notification listing. Same transition as the follow surface:
// accept creates the edge and a notification, the request row is deleted
// either way.
func (h *NotificationHandler) RespondToFollowRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	var req models.RespondFollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	request, err := h.followRequestRepository.GetRequestByID(uint(requestID))
	if err != nil || request.FollowedID != currentUserID {
		return echo.NewHTTPError(http.StatusNotFound, "Follow request not found")
	}

	if req.IsAccepted {
		follow := &models.Follow{
			FollowerID: request.FollowerID,
			FollowedID: currentUserID,
		}
		if err := h.followRepository.CreateFollow(follow); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		userName := "Unknown"
		if user, err := h.userRepository.GetUserByID(currentUserID); err == nil {
			userName = user.UserName
		}
		notification := &models.Notification{
			UserID:  request.FollowerID,
			Type:    "Follow Request Accepted",
			Content: fmt.Sprintf("%s accepted your follow request.", userName),
		}
		if err := h.notificationRepository.CreateNotification(notification); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if err := h.followRequestRepository.DeleteRequest(request.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"accepted": req.IsAccepted}})
}

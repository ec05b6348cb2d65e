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

// FollowHandler drives the follow request workflow: send, respond, cancel,
// unfollow and status. Acting identity always comes from the verified token,
// never from the request body; only the admin delete path is exempt.
type FollowHandler struct {
	followRepository        repositories.FollowRepository
	followRequestRepository repositories.FollowRequestRepository
	userRepository          repositories.UserRepository
	notificationRepository  repositories.NotificationRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(
	followRepo repositories.FollowRepository,
	requestRepo repositories.FollowRequestRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
) *FollowHandler {
	return &FollowHandler{
		followRepository:        followRepo,
		followRequestRepository: requestRepo,
		userRepository:          userRepo,
		notificationRepository:  notifRepo,
	}
}

// RegisterFollowRoutes registers follow workflow routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow-request", h.SendFollowRequest)
	g.POST("/follow-requests/:follower_id/respond", h.RespondToFollowRequest)
	g.POST("/follow-requests/cancel", h.CancelFollowRequest)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/follow-status", h.GetFollowStatus)
	g.GET("/followers", h.GetFollowers)
	g.GET("/following", h.GetFollowing)
	g.GET("/follow-requests", h.GetFollowRequests)
}

// RegisterAdminRoutes registers the operator-only follow surface
func (h *FollowHandler) RegisterAdminRoutes(g *echo.Group) {
	g.DELETE("/follows/:id", h.AdminDeleteFollow)
}

// SendFollowRequest creates a pending follow request toward the target user
func (h *FollowHandler) SendFollowRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	if currentUserID == uint(targetID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	if _, err := h.userRepository.GetUserByID(uint(targetID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pending, err := h.followRequestRepository.HasPendingRequest(currentUserID, uint(targetID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if pending {
		return echo.NewHTTPError(http.StatusConflict, "Follow request already sent")
	}

	request := &models.FollowRequest{
		FollowerID: currentUserID,
		FollowedID: uint(targetID),
		Status:     models.FollowRequestPending,
	}
	if err := h.followRequestRepository.CreateRequest(request); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"status": "requested"}})
}

// RespondToFollowRequest accepts or rejects a pending request addressed to
// the caller. Accepting creates the follow edge and notifies the requester;
// the request row is deleted either way.
func (h *FollowHandler) RespondToFollowRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	followerID, err := strconv.ParseUint(c.Param("follower_id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	var req models.RespondFollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	request, err := h.followRequestRepository.GetPendingRequest(uint(followerID), currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Follow request not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.IsAccepted {
		follow := &models.Follow{
			FollowerID: uint(followerID),
			FollowedID: currentUserID,
		}
		if err := h.followRepository.CreateFollow(follow); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		notification := &models.Notification{
			UserID:  uint(followerID),
			Type:    "Follow Request Accepted",
			Content: fmt.Sprintf("%s accepted your follow request.", h.userName(currentUserID)),
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

// CancelFollowRequest withdraws a pending request the caller initiated
func (h *FollowHandler) CancelFollowRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CancelFollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	request, err := h.followRequestRepository.GetPendingRequest(currentUserID, req.FollowedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Follow request not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.followRequestRepository.DeleteRequest(request.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"status": "follow"}})
}

// UnfollowUser removes an existing follow edge
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.followRepository.DeleteFollow(currentUserID, uint(targetID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "You are not following this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"status": "follow"}})
}

// GetFollowStatus reports the caller's relationship to the target user:
// following, requested, or follow (a request can be sent)
func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	following, err := h.followRepository.IsFollowing(currentUserID, uint(targetID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if following {
		return c.JSON(http.StatusOK, echo.Map{"status": "following"})
	}

	requested, err := h.followRequestRepository.HasPendingRequest(currentUserID, uint(targetID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if requested {
		return c.JSON(http.StatusOK, echo.Map{"status": "requested"})
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "follow"})
}

// GetFollowers lists users following the caller
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	users, err := h.followRepository.GetFollowers(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, compactUsers(users))
}

// GetFollowing lists users the caller follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	users, err := h.followRepository.GetFollowing(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, compactUsers(users))
}

// GetFollowRequests lists pending requests involving the caller
func (h *FollowHandler) GetFollowRequests(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requests, err := h.followRequestRepository.GetRequestsForUser(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, requests)
}

// AdminDeleteFollow removes a follow edge by row id. Operator-only surface,
// intentionally not scoped to the caller's identity.
func (h *FollowHandler) AdminDeleteFollow(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid follow ID")
	}

	if err := h.followRepository.DeleteFollowByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Follow record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *FollowHandler) userName(userID uint) string {
	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return "Unknown"
	}
	return user.UserName
}

func compactUsers(users []models.User) []models.UserCompact {
	compact := make([]models.UserCompact, len(users))
	for i := range users {
		compact[i] = users[i].ToCompact()
	}
	return compact
}

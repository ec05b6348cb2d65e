package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/experiencehub/backend/internal/models"
	"github.com/experiencehub/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// BlockHandler manages directed block edges. Blocking is advisory: clients
// check isBlocked before opening a conversation, message delivery does not
// consult it.
type BlockHandler struct {
	blockedUserRepository repositories.BlockedUserRepository
}

// NewBlockHandler creates a new BlockHandler
func NewBlockHandler(blockRepo repositories.BlockedUserRepository) *BlockHandler {
	return &BlockHandler{blockedUserRepository: blockRepo}
}

// RegisterBlockRoutes registers block-related routes
func (h *BlockHandler) RegisterBlockRoutes(g *echo.Group) {
	g.POST("/users/:id/block", h.BlockUser)
	g.DELETE("/users/:id/block", h.UnblockUser)
	g.GET("/users/:id/is-blocked", h.IsBlocked)
}

// BlockUser creates a block edge toward the target user
func (h *BlockHandler) BlockUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	if currentUserID == uint(targetID) {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot block yourself")
	}

	blocked, err := h.blockedUserRepository.IsBlocked(currentUserID, uint(targetID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if blocked {
		return echo.NewHTTPError(http.StatusConflict, "User is already blocked")
	}

	block := &models.BlockedUser{UserID: currentUserID, BlockedUserID: uint(targetID)}
	if err := h.blockedUserRepository.CreateBlock(block); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"blocked": true}})
}

// UnblockUser removes a block edge
func (h *BlockHandler) UnblockUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.blockedUserRepository.DeleteBlock(currentUserID, uint(targetID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User is not blocked")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"blocked": false}})
}

// IsBlocked reports whether the caller has blocked the target user
func (h *BlockHandler) IsBlocked(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	blocked, err := h.blockedUserRepository.IsBlocked(currentUserID, uint(targetID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"is_blocked": blocked})
}

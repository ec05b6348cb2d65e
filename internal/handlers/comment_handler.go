package handlers

import (
	"net/http"
	"strconv"

	"github.com/experiencehub/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler serves the durable side of experience discussions: the
// comment history for polling. Live comments and reactions arrive over the
// realtime hub.
type CommentHandler struct {
	commentRepository    repositories.CommentRepository
	experienceRepository repositories.ExperienceRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, experienceRepo repositories.ExperienceRepository) *CommentHandler {
	return &CommentHandler{commentRepository: commentRepo, experienceRepository: experienceRepo}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/experiences/:id/comments", h.GetExperienceComments)
}

// GetExperienceComments returns the full comment thread of an experience
func (h *CommentHandler) GetExperienceComments(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	experienceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || experienceID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid experience ID")
	}

	exists, err := h.experienceRepository.ExperienceExists(uint(experienceID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !exists {
		return echo.NewHTTPError(http.StatusNotFound, "Experience not found")
	}

	comments, err := h.commentRepository.GetCommentsByExperienceID(uint(experienceID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, comments)
}

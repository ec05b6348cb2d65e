package handlers

import (
	"context"
	"io"

	"github.com/experiencehub/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext extracts the authenticated user id placed in the
// request context by the JWT middleware. Returns 0 when unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// Uploader stores a file in blob storage and returns its public URL.
// Implemented by pkg/firebase on the default bucket.
type Uploader interface {
	Upload(ctx context.Context, objectName string, r io.Reader, contentType string) (string, error)
}

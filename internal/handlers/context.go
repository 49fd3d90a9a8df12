package handlers

import (
	"github.com/connectify/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's ID from the JWT claims the
// auth middleware stored in the context, or "" when unauthenticated.
func currentUserID(c echo.Context) string {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return ""
	}
	return claims.UserID
}

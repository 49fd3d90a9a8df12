package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/connectify/backend/internal/models"
	"github.com/connectify/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// notificationPageLimit caps the notification list response
const notificationPageLimit = 50

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notifRepo}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/mark-all-read", h.MarkAllAsRead)
	g.DELETE("/notifications/:id", h.DeleteNotification)
}

// GetNotifications returns the caller's notifications, optionally filtered
// by type (?filter=likes|comments|follows)
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	notifType := ""
	switch c.QueryParam("filter") {
	case "likes":
		notifType = models.NotificationLike
	case "comments":
		notifType = models.NotificationComment
	case "follows":
		notifType = models.NotificationFollow
	}

	notifications, err := h.notificationRepository.GetByRecipient(c.Request().Context(), currentUserID(c), notifType, notificationPageLimit)
	if err != nil {
		log.Printf("Error fetching notifications: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, notifications)
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), currentUserID(c))
	if err != nil {
		log.Printf("Error counting unread notifications: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks a notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	if err := h.notificationRepository.MarkAsRead(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		log.Printf("Error marking notification read: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"msg": "Notification marked as read"})
}

// MarkAllAsRead marks all of the caller's notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	if err := h.notificationRepository.MarkAllAsRead(c.Request().Context(), currentUserID(c)); err != nil {
		log.Printf("Error marking all notifications read: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"msg": "All notifications marked as read"})
}

// DeleteNotification removes one notification
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	if err := h.notificationRepository.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		log.Printf("Error deleting notification: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"msg": "Notification deleted"})
}

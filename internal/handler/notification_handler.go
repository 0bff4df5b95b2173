package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifedesigner21/whole-pod-sub000/internal/middleware"
	"github.com/lifedesigner21/whole-pod-sub000/internal/repository"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepo *repository.NotificationRepository
}

func NewNotificationHandler(notificationRepo *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

// ListMine retrieves the authenticated user's notifications, newest first
func (h *NotificationHandler) ListMine(c *gin.Context) {
	session := middleware.SessionFrom(c)

	notifications, err := h.notificationRepo.ListByUser(c.Request.Context(), session.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkRead flags a notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationRepo.MarkRead(c.Request.Context(), notificationID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}

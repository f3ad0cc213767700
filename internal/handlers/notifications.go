package handlers

import (
	"net/http"

	"github.com/MOULOUNDOU/Senchambre/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type NotificationsHandler struct {
	notifications *service.NotificationService
	log           *logrus.Logger
}

func NewNotificationsHandler(notifications *service.NotificationService, log *logrus.Logger) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications, log: log}
}

// ListNotifications returns the caller's inbox, newest first, with the unread count.
func (h *NotificationsHandler) ListNotifications(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	notifs, err := h.notifications.ForUser(ctx, uid)
	if err != nil {
		handleError(c, h.log, err, "error loading notifications")
		return
	}
	unread, err := h.notifications.UnreadCount(ctx, uid)
	if err != nil {
		handleError(c, h.log, err, "error counting notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifs, "unread": unread})
}

func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	if err := h.notifications.MarkRead(c.Request.Context(), session(c), c.Param("id")); err != nil {
		handleError(c, h.log, err, "error marking notification")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationsHandler) MarkAllRead(c *gin.Context) {
	if err := h.notifications.MarkAllRead(c.Request.Context(), session(c)); err != nil {
		handleError(c, h.log, err, "error marking notifications")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationsHandler) Delete(c *gin.Context) {
	if err := h.notifications.Delete(c.Request.Context(), session(c), c.Param("id")); err != nil {
		handleError(c, h.log, err, "error deleting notification")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationsHandler) DeleteAll(c *gin.Context) {
	if err := h.notifications.DeleteAll(c.Request.Context(), session(c)); err != nil {
		handleError(c, h.log, err, "error deleting notifications")
		return
	}
	c.Status(http.StatusNoContent)
}

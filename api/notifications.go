package api

import (
	"net/http"

	"github.com/Domenick1991/restate/internal/auth"
	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/service/notifications"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service notifications.NotificationUseCase
}

type registerDeviceRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"required"`
}

func NewNotificationHandler(service notifications.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) Register(router *gin.RouterGroup) {
	router.GET("/notifications", h.list)
	router.GET("/notifications/unread-count", h.unreadCount)
	router.POST("/notifications/read-all", h.markAllRead)
	router.POST("/notifications/:id/read", h.markRead)
	router.DELETE("/notifications/:id", h.delete)
	router.GET("/notifications/preferences", h.preferences)
	router.PATCH("/notifications/preferences", h.updatePreferences)
	router.POST("/notifications/devices", h.registerDevice)
}

func (h *NotificationHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), auth.UserID(c), c.Query("unread") == "true")
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) unreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func (h *NotificationHandler) markRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) markAllRead(c *gin.Context) {
	n, err := h.service.MarkAllRead(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func (h *NotificationHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) preferences(c *gin.Context) {
	prefs, err := h.service.Preferences(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *NotificationHandler) updatePreferences(c *gin.Context) {
	var patch domain.PreferencesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	prefs, err := h.service.UpdatePreferences(c.Request.Context(), auth.UserID(c), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *NotificationHandler) registerDevice(c *gin.Context) {
	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.service.RegisterDevice(c.Request.Context(), auth.UserID(c), req.Token, req.Platform); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

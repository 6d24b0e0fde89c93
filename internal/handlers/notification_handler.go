package handlers

import (
	"net/http"

	"easybuk_backend/internal/middleware"
	"easybuk_backend/internal/models"
	"easybuk_backend/internal/repositories"
	"easybuk_backend/internal/services"
	"easybuk_backend/internal/services/dto"
	"easybuk_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", h.GetUserNotifications)
		notifications.GET("/unread-count", h.GetUnreadCount)
		notifications.GET("/:notificationId", h.GetNotification)
		notifications.PUT("/:notificationId/read", h.MarkAsRead)
		notifications.PUT("/read-all", h.MarkAllAsRead)
		notifications.DELETE("/:notificationId", h.DeleteNotification)
	}

	admin := r.Group("/admin/notifications")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("", h.GetAllNotifications)
		admin.GET("/stats", h.GetPlatformStats)
		admin.DELETE("/cleanup", h.CleanOldNotifications)
	}
}

// --- User notification handlers ---

func (h *NotificationHandler) GetUserNotifications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	criteria := repositories.NotificationCriteria{
		UnreadOnly: ParseQueryBool(c, "unread_only"),
		Type:       c.Query("type"),
		Limit:      ParseQueryInt(c, "limit", 0),
	}

	response, err := h.notificationService.GetUserNotifications(userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.GetUnreadCount(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unreadCount": count})
}

func (h *NotificationHandler) GetNotification(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	notification, ok := h.ownedNotification(c, userID, c.Param("notificationId"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, notification)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if _, ok := h.ownedNotification(c, userID, c.Param("notificationId")); !ok {
		return
	}

	if err := h.notificationService.MarkNotificationAsRead(c.Param("notificationId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllAsRead(userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if _, ok := h.ownedNotification(c, userID, c.Param("notificationId")); !ok {
		return
	}

	if err := h.notificationService.DeleteNotification(c.Param("notificationId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}

// ownedNotification loads the notification and verifies it is filed under
// one of the requester's entity ids, or under the raw account id for rows
// written on the degraded path. A missing or foreign row has already been
// answered when ok is false.
func (h *NotificationHandler) ownedNotification(c *gin.Context, accountID, notificationID string) (*dto.NotificationResponse, bool) {
	notification, err := h.notificationService.GetNotification(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			apperrors.HandleError(c, apperrors.ErrNotFound(err))
		} else {
			h.HandleServiceError(c, err)
		}
		return nil, false
	}

	if notification.UserID == accountID {
		return notification, true
	}
	for _, entityID := range h.notificationService.ResolveEntityIDs(accountID) {
		if notification.UserID == entityID {
			return notification, true
		}
	}

	apperrors.HandleError(c, apperrors.NewForbiddenError("Notification belongs to a different user"))
	return nil, false
}

// --- Admin handlers ---

func (h *NotificationHandler) GetAllNotifications(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	criteria := repositories.AdminNotificationCriteria{
		UserID:     c.Query("user_id"),
		Type:       c.Query("type"),
		UnreadOnly: ParseQueryBool(c, "unread_only"),
		Page:       page,
		PageSize:   pageSize,
	}

	response, err := h.notificationService.GetAllNotifications(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *NotificationHandler) GetPlatformStats(c *gin.Context) {
	stats, err := h.notificationService.GetPlatformStats()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *NotificationHandler) CleanOldNotifications(c *gin.Context) {
	retentionDays := ParseQueryInt(c, "retention_days", 90)
	if retentionDays < 1 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("retention_days must be positive"))
		return
	}

	deleted, err := h.notificationService.CleanOldNotifications(retentionDays)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

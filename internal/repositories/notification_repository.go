package repositories

import (
	"errors"
	"time"

	"easybuk_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification type constants. These values are part of the wire contract
// with every UI that renders notifications.
const (
	NotificationTypeBookingRequest      = "BOOKING_REQUEST"
	NotificationTypeBookingConfirmed    = "BOOKING_CONFIRMED"
	NotificationTypeBookingCancelled    = "BOOKING_CANCELLED"
	NotificationTypeBookingInProgress   = "BOOKING_IN_PROGRESS"
	NotificationTypeBookingCompleted    = "BOOKING_COMPLETED"
	NotificationTypePaymentProcessed    = "PAYMENT_PROCESSED"
	NotificationTypePaymentReceived     = "PAYMENT_RECEIVED"
	NotificationTypeSystemAnnouncement  = "SYSTEM_ANNOUNCEMENT"
	NotificationTypeDisputeUpdate       = "DISPUTE_UPDATE"
	NotificationTypeUnknownStatusUpdate = "UNKNOWN_STATUS_UPDATE"
)

// NotificationCriteria filters a user's notification listing.
type NotificationCriteria struct {
	UnreadOnly bool   `form:"unread_only"`
	Type       string `form:"type"`
	Limit      int    `form:"limit"`
}

// AdminNotificationCriteria filters the back-office listing.
type AdminNotificationCriteria struct {
	UserID     string `form:"user_id"`
	Type       string `form:"type"`
	UnreadOnly bool   `form:"unread_only"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// PlatformNotificationStats aggregates dispatch volume for the admin
// dashboard.
type PlatformNotificationStats struct {
	TotalNotifications int64            `json:"totalNotifications"`
	UnreadCount        int64            `json:"unreadCount"`
	TodayCount         int64            `json:"todayCount"`
	DegradedCount      int64            `json:"degradedCount"` // rows written with a raw account id
	ByType             map[string]int64 `json:"byType"`
}

type NotificationRepository interface {
	Create(notification *models.Notification) error
	FindByID(id string) (*models.Notification, error)
	// FindByEntityIDs returns notifications for any of the given domain-entity
	// ids, newest first. The caller resolves the ids; some accounts hold more
	// than one role.
	FindByEntityIDs(entityIDs []string, criteria NotificationCriteria) ([]models.Notification, error)
	MarkAsRead(notificationID string) error
	MarkAllAsRead(entityIDs []string) error
	Delete(id string) error
	GetUnreadCount(entityIDs []string) (int64, error)
	DeleteReadOlderThan(olderThan time.Time) (int64, error)
	FindAll(criteria AdminNotificationCriteria) ([]models.Notification, int64, error)
	GetPlatformStats() (*PlatformNotificationStats, error)
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindByEntityIDs(entityIDs []string, criteria NotificationCriteria) ([]models.Notification, error) {
	if len(entityIDs) == 0 {
		return []models.Notification{}, nil
	}

	query := r.db.Where("user_id IN ?", entityIDs)

	if criteria.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = 50
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").Limit(limit).Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(notificationID string) error {
	result := r.db.Model(&models.Notification{}).Where("id = ?", notificationID).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(entityIDs []string) error {
	if len(entityIDs) == 0 {
		return nil
	}
	return r.db.Model(&models.Notification{}).
		Where("user_id IN ? AND is_read = ?", entityIDs, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		}).Error
}

func (r *NotificationRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) GetUnreadCount(entityIDs []string) (int64, error) {
	if len(entityIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id IN ? AND is_read = ?", entityIDs, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) DeleteReadOlderThan(olderThan time.Time) (int64, error) {
	result := r.db.Where("is_read = ? AND created_at < ?", true, olderThan).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) FindAll(criteria AdminNotificationCriteria) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := r.db.Model(&models.Notification{})

	if criteria.UserID != "" {
		query = query.Where("user_id = ?", criteria.UserID)
	}
	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}
	if criteria.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	err := query.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *NotificationRepositoryImpl) GetPlatformStats() (*PlatformNotificationStats, error) {
	var stats PlatformNotificationStats
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if err := r.db.Model(&models.Notification{}).Count(&stats.TotalNotifications).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Notification{}).Where("is_read = ?", false).Count(&stats.UnreadCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Notification{}).Where("created_at >= ?", todayStart).Count(&stats.TodayCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Notification{}).Where("attribution_degraded = ?", true).Count(&stats.DegradedCount).Error; err != nil {
		return nil, err
	}

	stats.ByType = make(map[string]int64)
	var typeStats []struct {
		Type  string
		Count int64
	}
	err := r.db.Model(&models.Notification{}).
		Select("type, COUNT(*) as count").
		Group("type").
		Scan(&typeStats).Error
	if err != nil {
		return nil, err
	}
	for _, ts := range typeStats {
		stats.ByType[ts.Type] = ts.Count
	}

	return &stats, nil
}

package workers

import (
	"context"
	"time"

	"easybuk_backend/internal/logger"
	"easybuk_backend/internal/services"
)

// NotificationWorker periodically purges read notifications past their
// retention window.
type NotificationWorker struct {
	notificationSvc services.NotificationService
	retentionDays   int
	interval        time.Duration
}

func NewNotificationWorker(notificationSvc services.NotificationService, retentionDays int, interval time.Duration) *NotificationWorker {
	return &NotificationWorker{
		notificationSvc: notificationSvc,
		retentionDays:   retentionDays,
		interval:        interval,
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	go w.cleanupLoop(ctx)
}

func (w *NotificationWorker) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("notification cleanup worker stopped")
			return
		case <-ticker.C:
			deleted, err := w.notificationSvc.CleanOldNotifications(w.retentionDays)
			if err != nil {
				logger.WithError(err).Error("notification cleanup failed")
				continue
			}
			if deleted > 0 {
				logger.Info("cleaned old notifications", "deleted", deleted, "retention_days", w.retentionDays)
			}
		}
	}
}

package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"easybuk_backend/internal/logger"
	"easybuk_backend/internal/models"
	"easybuk_backend/internal/repositories"
	"easybuk_backend/internal/services/dto"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Next-action hints consumed by the UI out of the notification payload.
const (
	NextActionWaitForProvider = "WAIT_FOR_PROVIDER_RESPONSE"
	NextActionCompletePayment = "COMPLETE_PAYMENT"
	NextActionFindNewProvider = "FIND_NEW_PROVIDER"
	NextActionPrepareForJob   = "PREPARE_FOR_SERVICE"
	NextActionAwaitService    = "AWAIT_SERVICE_DELIVERY"
	NextActionExploreServices = "EXPLORE_SERVICES"
	NextActionCompleteProfile = "COMPLETE_PROFILE"
)

type NotificationService interface {
	// Event handlers. Each composes one or more best-effort writes; a
	// returned error means at least one write was not recorded. Writes that
	// did succeed are never rolled back.
	NotifyBookingRequest(ev *dto.BookingRequestEvent) error
	NotifyProviderResponse(ev *dto.ProviderResponseEvent) error
	NotifyStatusChange(ev *dto.StatusChangeEvent) error
	NotifyPaymentCompleted(ev *dto.PaymentCompletedEvent) error
	NotifyDisputeUpdate(ev *dto.DisputeUpdateEvent) error
	NotifyWelcome(ev *dto.WelcomeEvent) error

	// Query facade
	GetUserNotifications(accountID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	GetNotification(notificationID string) (*dto.NotificationResponse, error)
	GetUnreadCount(accountID string) (int64, error)
	MarkNotificationAsRead(notificationID string) error
	MarkAllAsRead(accountID string) error
	DeleteNotification(notificationID string) error
	// ResolveEntityIDs exposes the resolver to the transport layer, which
	// owns the ownership checks for mark-as-read and delete.
	ResolveEntityIDs(accountID string) []string

	// Admin operations
	GetAllNotifications(criteria repositories.AdminNotificationCriteria) (*dto.NotificationListResponse, error)
	GetPlatformStats() (*repositories.PlatformNotificationStats, error)
	CleanOldNotifications(retentionDays int) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	resolver         EntityResolver
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	resolver EntityResolver,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		resolver:         resolver,
	}
}

// ---------------- Writer ----------------

type writeParams struct {
	AccountID string
	Role      models.UserRole
	Type      string
	Title     string
	Message   string
	Data      map[string]interface{}
	ViaEmail  bool
	ViaSMS    bool
}

// write persists a single notification row. Resolution failure degrades to
// filing the row under the raw account id (marked AttributionDegraded) so
// the notification still exists even when attribution is off. The returned
// error is already logged; it exists so handlers can report fan-out results.
func (s *notificationService) write(p writeParams) (string, error) {
	res := s.resolver.Resolve(p.AccountID, p.Role)

	userID := res.EntityID
	if !res.Resolved {
		userID = p.AccountID
		logger.Warn("notification attribution degraded to raw account id",
			"account_id", p.AccountID,
			"role", string(p.Role),
			"type", p.Type,
		)
	}

	var dataJSON datatypes.JSON
	if p.Data != nil {
		jsonData, err := json.Marshal(p.Data)
		if err != nil {
			logger.WithError(err).Error("failed to marshal notification data", "type", p.Type)
			return "", fmt.Errorf("failed to marshal notification data: %w", err)
		}
		dataJSON = datatypes.JSON(jsonData)
	}

	notification := &models.Notification{
		ID:                  generateNotificationID(p.Type),
		UserID:              userID,
		UserType:            p.Role,
		Type:                p.Type,
		Title:               p.Title,
		Message:             p.Message,
		Data:                dataJSON,
		IsRead:              false,
		SentViaEmail:        p.ViaEmail,
		SentViaSMS:          p.ViaSMS,
		AttributionDegraded: !res.Resolved,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		logger.WithError(err).Error("failed to persist notification",
			"type", p.Type,
			"user_id", userID,
		)
		return "", err
	}

	return notification.ID, nil
}

// generateNotificationID builds a time-prefixed id with a random suffix.
// Collision-resistant in practice, not provably unique.
func generateNotificationID(notifType string) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s_%d_%s", strings.ToLower(notifType), time.Now().UnixNano(), suffix)
}

// IsUrgent reports whether the scheduled time is in the future and within
// 24 hours of now.
func IsUrgent(scheduledDate, now time.Time) bool {
	diff := scheduledDate.Sub(now)
	return diff > 0 && diff <= 24*time.Hour
}

// ---------------- Event handlers ----------------

func (s *notificationService) NotifyBookingRequest(ev *dto.BookingRequestEvent) error {
	urgent := IsUrgent(ev.ScheduledDate, time.Now())
	dateStr := ev.ScheduledDate.Format("Jan 2, 2006")

	_, clientErr := s.write(writeParams{
		AccountID: ev.ClientAccountID,
		Role:      models.UserRoleClient,
		Type:      repositories.NotificationTypeBookingRequest,
		Title:     "Booking Request Sent",
		Message: fmt.Sprintf("Your booking request for '%s' on %s at %s has been sent. You'll be notified when the provider responds.",
			ev.ServiceTitle, dateStr, ev.ScheduledTime),
		Data: map[string]interface{}{
			"bookingId":  ev.BookingID,
			"isUrgent":   urgent,
			"nextAction": NextActionWaitForProvider,
		},
		ViaEmail: true,
	})

	_, providerErr := s.write(writeParams{
		AccountID: ev.ProviderAccount,
		Role:      models.UserRoleProvider,
		Type:      repositories.NotificationTypeBookingRequest,
		Title:     "New Booking Request",
		Message: fmt.Sprintf("You have a new booking request for '%s' on %s at %s (%s %.2f). Please respond promptly.",
			ev.ServiceTitle, dateStr, ev.ScheduledTime, ev.Currency, ev.TotalAmount),
		Data: map[string]interface{}{
			"bookingId":      ev.BookingID,
			"isUrgent":       urgent,
			"requiresAction": true,
		},
		ViaEmail: true,
		ViaSMS:   urgent,
	})

	// Both writes are attempted regardless; a partial failure reports as
	// overall failure but the successful row stays.
	if clientErr != nil || providerErr != nil {
		return fmt.Errorf("booking request fan-out incomplete (client=%v, provider=%v)", clientErr, providerErr)
	}
	return nil
}

func (s *notificationService) NotifyProviderResponse(ev *dto.ProviderResponseEvent) error {
	var p writeParams
	if ev.Accepted {
		p = writeParams{
			AccountID: ev.ClientAccountID,
			Role:      models.UserRoleClient,
			Type:      repositories.NotificationTypeBookingConfirmed,
			Title:     "Booking Accepted!",
			Message:   fmt.Sprintf("Great news! Your booking for '%s' has been accepted. Complete your payment to confirm the appointment.", ev.ServiceTitle),
			Data: map[string]interface{}{
				"bookingId":  ev.BookingID,
				"response":   "ACCEPTED",
				"nextAction": NextActionCompletePayment,
			},
			ViaEmail: true,
		}
	} else {
		message := fmt.Sprintf("Unfortunately, your booking for '%s' was declined.", ev.ServiceTitle)
		data := map[string]interface{}{
			"bookingId":  ev.BookingID,
			"response":   "DECLINED",
			"nextAction": NextActionFindNewProvider,
		}
		if ev.Message != "" {
			message = fmt.Sprintf("%s Reason: %s", message, ev.Message)
			data["message"] = ev.Message
		}
		p = writeParams{
			AccountID: ev.ClientAccountID,
			Role:      models.UserRoleClient,
			Type:      repositories.NotificationTypeBookingCancelled,
			Title:     "Booking Declined",
			Message:   message,
			Data:      data,
			ViaEmail:  true,
		}
	}

	if _, err := s.write(p); err != nil {
		return fmt.Errorf("provider response notification failed: %w", err)
	}
	return nil
}

func (s *notificationService) NotifyStatusChange(ev *dto.StatusChangeEvent) error {
	role := models.UserRole(ev.RecipientRole)
	notifType, title, message := statusNotification(models.BookingStatus(ev.NewStatus), ev.ServiceTitle, role)

	if ev.UpdateMessage != "" {
		message = fmt.Sprintf("%s Update: %s", message, ev.UpdateMessage)
	}

	_, err := s.write(writeParams{
		AccountID: ev.RecipientAccount,
		Role:      role,
		Type:      notifType,
		Title:     title,
		Message:   message,
		Data: map[string]interface{}{
			"bookingId": ev.BookingID,
			"oldStatus": ev.OldStatus,
			"newStatus": ev.NewStatus,
		},
		ViaEmail: true,
	})
	if err != nil {
		return fmt.Errorf("status change notification failed: %w", err)
	}
	return nil
}

// statusNotification selects type, title and message for a status
// transition. Unmapped statuses take the generic fallback with a distinct
// type so unattributed transitions stay observable downstream.
func statusNotification(status models.BookingStatus, serviceTitle string, role models.UserRole) (string, string, string) {
	switch status {
	case models.BookingStatusConfirmed:
		return repositories.NotificationTypeBookingConfirmed,
			"Booking Confirmed",
			fmt.Sprintf("Your booking for '%s' is confirmed and scheduled.", serviceTitle)
	case models.BookingStatusInProgress:
		return repositories.NotificationTypeBookingInProgress,
			"Service In Progress",
			fmt.Sprintf("The service '%s' is now in progress.", serviceTitle)
	case models.BookingStatusCompleted:
		if role == models.UserRoleProvider {
			return repositories.NotificationTypeBookingCompleted,
				"Service Completed",
				fmt.Sprintf("You marked '%s' as completed. Payment will be released to your account.", serviceTitle)
		}
		return repositories.NotificationTypeBookingCompleted,
			"Service Completed",
			fmt.Sprintf("Your booking for '%s' is complete. Please take a moment to rate your experience.", serviceTitle)
	case models.BookingStatusCancelled:
		if role == models.UserRoleProvider {
			return repositories.NotificationTypeBookingCancelled,
				"Booking Cancelled",
				fmt.Sprintf("The booking for '%s' has been cancelled.", serviceTitle)
		}
		return repositories.NotificationTypeBookingCancelled,
			"Booking Cancelled",
			fmt.Sprintf("Your booking for '%s' has been cancelled. Any payment made will be refunded to your account.", serviceTitle)
	default:
		return repositories.NotificationTypeUnknownStatusUpdate,
			"Booking Status Update",
			fmt.Sprintf("The status of your booking for '%s' has changed.", serviceTitle)
	}
}

func (s *notificationService) NotifyPaymentCompleted(ev *dto.PaymentCompletedEvent) error {
	dateStr := ev.ScheduledDate.Format("Jan 2, 2006")

	_, clientErr := s.write(writeParams{
		AccountID: ev.ClientAccountID,
		Role:      models.UserRoleClient,
		Type:      repositories.NotificationTypePaymentProcessed,
		Title:     "Payment Successful",
		Message: fmt.Sprintf("Your payment of %s %.2f for '%s' was processed. Your appointment is set for %s at %s.",
			ev.Currency, ev.Amount, ev.ServiceTitle, dateStr, ev.ScheduledTime),
		Data: map[string]interface{}{
			"bookingId":     ev.BookingID,
			"amount":        ev.Amount,
			"currency":      ev.Currency,
			"scheduledDate": ev.ScheduledDate.Format(time.RFC3339),
			"scheduledTime": ev.ScheduledTime,
			"nextAction":    NextActionAwaitService,
		},
		ViaEmail: true,
	})

	_, providerErr := s.write(writeParams{
		AccountID: ev.ProviderAccount,
		Role:      models.UserRoleProvider,
		Type:      repositories.NotificationTypePaymentReceived,
		Title:     "Payment Received",
		Message: fmt.Sprintf("Payment of %s %.2f for '%s' has been received. The appointment is on %s at %s.",
			ev.Currency, ev.Amount, ev.ServiceTitle, dateStr, ev.ScheduledTime),
		Data: map[string]interface{}{
			"bookingId":     ev.BookingID,
			"amount":        ev.Amount,
			"currency":      ev.Currency,
			"scheduledDate": ev.ScheduledDate.Format(time.RFC3339),
			"scheduledTime": ev.ScheduledTime,
			"nextAction":    NextActionPrepareForJob,
		},
		ViaEmail: true,
	})

	if clientErr != nil || providerErr != nil {
		return fmt.Errorf("payment fan-out incomplete (client=%v, provider=%v)", clientErr, providerErr)
	}
	return nil
}

func (s *notificationService) NotifyDisputeUpdate(ev *dto.DisputeUpdateEvent) error {
	title := "Dispute Resolved"
	message := fmt.Sprintf("The dispute on your booking for '%s' has been resolved.", ev.ServiceTitle)
	if ev.Opened {
		title = "Dispute Opened"
		message = fmt.Sprintf("A dispute has been opened on your booking for '%s'. Our support team will review it shortly.", ev.ServiceTitle)
	}
	if ev.Detail != "" {
		message = fmt.Sprintf("%s %s", message, ev.Detail)
	}

	_, err := s.write(writeParams{
		AccountID: ev.RecipientAccount,
		Role:      models.UserRole(ev.RecipientRole),
		Type:      repositories.NotificationTypeDisputeUpdate,
		Title:     title,
		Message:   message,
		Data: map[string]interface{}{
			"bookingId": ev.BookingID,
			"disputeId": ev.DisputeID,
			"opened":    ev.Opened,
		},
		ViaEmail: true,
	})
	if err != nil {
		return fmt.Errorf("dispute notification failed: %w", err)
	}
	return nil
}

func (s *notificationService) NotifyWelcome(ev *dto.WelcomeEvent) error {
	role := models.UserRole(ev.Role)

	title := "Welcome to EasyBuk!"
	message := fmt.Sprintf("Hi %s, welcome aboard! Browse trusted professionals across healthcare, education, home services and more, and book in minutes.", ev.Name)
	nextAction := NextActionExploreServices
	if role == models.UserRoleProvider {
		message = fmt.Sprintf("Hi %s, welcome aboard! Complete your provider profile to start receiving booking requests from clients.", ev.Name)
		nextAction = NextActionCompleteProfile
	}

	_, err := s.write(writeParams{
		AccountID: ev.AccountID,
		Role:      role,
		Type:      repositories.NotificationTypeSystemAnnouncement,
		Title:     title,
		Message:   message,
		Data: map[string]interface{}{
			"isWelcome":  true,
			"nextAction": nextAction,
		},
		ViaEmail: true,
	})
	if err != nil {
		return fmt.Errorf("welcome notification failed: %w", err)
	}
	return nil
}

// ---------------- Query facade ----------------

func (s *notificationService) GetUserNotifications(accountID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	entityIDs := s.resolver.ResolveAll(accountID)
	if len(entityIDs) == 0 {
		// An account with no resolvable entities has no notifications;
		// this is not an error.
		return &dto.NotificationListResponse{Notifications: []*dto.NotificationResponse{}}, nil
	}

	notifications, err := s.notificationRepo.FindByEntityIDs(entityIDs, criteria)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         len(responses),
	}, nil
}

func (s *notificationService) GetNotification(notificationID string) (*dto.NotificationResponse, error) {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		return nil, err
	}
	return buildNotificationResponse(notification), nil
}

func (s *notificationService) GetUnreadCount(accountID string) (int64, error) {
	entityIDs := s.resolver.ResolveAll(accountID)
	return s.notificationRepo.GetUnreadCount(entityIDs)
}

// MarkNotificationAsRead updates by primary key without an ownership check;
// the transport layer verifies the requester owns the row first.
func (s *notificationService) MarkNotificationAsRead(notificationID string) error {
	return s.notificationRepo.MarkAsRead(notificationID)
}

func (s *notificationService) MarkAllAsRead(accountID string) error {
	entityIDs := s.resolver.ResolveAll(accountID)
	return s.notificationRepo.MarkAllAsRead(entityIDs)
}

func (s *notificationService) DeleteNotification(notificationID string) error {
	return s.notificationRepo.Delete(notificationID)
}

func (s *notificationService) ResolveEntityIDs(accountID string) []string {
	return s.resolver.ResolveAll(accountID)
}

// ---------------- Admin operations ----------------

func (s *notificationService) GetAllNotifications(criteria repositories.AdminNotificationCriteria) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.FindAll(criteria)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         int(total),
	}, nil
}

func (s *notificationService) GetPlatformStats() (*repositories.PlatformNotificationStats, error) {
	return s.notificationRepo.GetPlatformStats()
}

func (s *notificationService) CleanOldNotifications(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return s.notificationRepo.DeleteReadOlderThan(cutoff)
}

// ---------------- Helpers ----------------

func buildNotificationResponse(notification *models.Notification) *dto.NotificationResponse {
	response := &dto.NotificationResponse{
		ID:           notification.ID,
		UserID:       notification.UserID,
		UserType:     string(notification.UserType),
		Type:         notification.Type,
		Title:        notification.Title,
		Message:      notification.Message,
		IsRead:       notification.IsRead,
		SentViaEmail: notification.SentViaEmail,
		SentViaSMS:   notification.SentViaSMS,
		CreatedAt:    notification.CreatedAt,
		ReadAt:       notification.ReadAt,
	}

	if len(notification.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(notification.Data, &data); err == nil {
			response.Data = data
		}
	}

	return response
}

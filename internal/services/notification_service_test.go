package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"easybuk_backend/internal/models"
	"easybuk_backend/internal/repositories"
	"easybuk_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUrgent(t *testing.T) {
	now := time.Now()

	assert.True(t, IsUrgent(now.Add(23*time.Hour), now))
	assert.True(t, IsUrgent(now.Add(24*time.Hour), now))
	assert.True(t, IsUrgent(now.Add(time.Minute), now))
	assert.False(t, IsUrgent(now.Add(25*time.Hour), now))
	assert.False(t, IsUrgent(now.Add(-time.Hour), now))
	assert.False(t, IsUrgent(now, now))
}

func TestGenerateNotificationID(t *testing.T) {
	id := generateNotificationID(repositories.NotificationTypeBookingRequest)

	parts := strings.Split(id, "_")
	require.GreaterOrEqual(t, len(parts), 4)
	assert.True(t, strings.HasPrefix(id, "booking_request_"))

	// Two ids generated back to back must differ.
	assert.NotEqual(t, id, generateNotificationID(repositories.NotificationTypeBookingRequest))
}

func TestNotifyBookingRequestFanOut(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, clientID := f.seedClient(t, "client@test.com", "Ama")
	providerAccount, providerID := f.seedProvider(t, "provider@test.com", "Kofi", "home")

	err := f.notifications.NotifyBookingRequest(&dto.BookingRequestEvent{
		BookingID:       "booking_1",
		ClientAccountID: clientAccount,
		ProviderAccount: providerAccount,
		ServiceTitle:    "House Cleaning",
		ScheduledDate:   time.Now().Add(48 * time.Hour),
		ScheduledTime:   "10:00",
		TotalAmount:     150,
		Currency:        "GHS",
	})
	require.NoError(t, err)

	clientRows := f.notificationsFor(t, clientID)
	require.Len(t, clientRows, 1)
	assert.Equal(t, repositories.NotificationTypeBookingRequest, clientRows[0].Type)
	assert.Equal(t, "Booking Request Sent", clientRows[0].Title)
	assert.Equal(t, models.UserRoleClient, clientRows[0].UserType)
	assert.True(t, clientRows[0].SentViaEmail)
	assert.False(t, clientRows[0].SentViaSMS)
	assert.False(t, clientRows[0].AttributionDegraded)

	providerRows := f.notificationsFor(t, providerID)
	require.Len(t, providerRows, 1)
	assert.Equal(t, "New Booking Request", providerRows[0].Title)
	assert.Contains(t, providerRows[0].Message, "House Cleaning")
	assert.Contains(t, providerRows[0].Message, "GHS 150.00")
}

func TestNotifyBookingRequestUrgentSendsSMS(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, _ := f.seedClient(t, "client@test.com", "Ama")
	providerAccount, providerID := f.seedProvider(t, "provider@test.com", "Kofi", "home")

	err := f.notifications.NotifyBookingRequest(&dto.BookingRequestEvent{
		BookingID:       "booking_urgent",
		ClientAccountID: clientAccount,
		ProviderAccount: providerAccount,
		ServiceTitle:    "House Cleaning",
		ScheduledDate:   time.Now().Add(6 * time.Hour),
		ScheduledTime:   "18:00",
		TotalAmount:     150,
		Currency:        "GHS",
	})
	require.NoError(t, err)

	rows := f.notificationsFor(t, providerID)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].SentViaSMS)
}

func TestWriteDegradesToRawAccountID(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, _ := f.seedClient(t, "client@test.com", "Ama")

	// Provider account exists but has no provider record; resolution fails
	// and the row is filed under the raw account id.
	orphanAccount := seedBareUser(t, f, "orphan@test.com")

	err := f.notifications.NotifyBookingRequest(&dto.BookingRequestEvent{
		BookingID:       "booking_2",
		ClientAccountID: clientAccount,
		ProviderAccount: orphanAccount,
		ServiceTitle:    "Math Tutoring",
		ScheduledDate:   time.Now().Add(72 * time.Hour),
		ScheduledTime:   "15:00",
		TotalAmount:     80,
		Currency:        "GHS",
	})
	require.NoError(t, err)

	rows := f.notificationsFor(t, orphanAccount)
	require.Len(t, rows, 1)
	assert.Equal(t, orphanAccount, rows[0].UserID)
	assert.True(t, rows[0].AttributionDegraded)
}

func TestNotifyBookingRequestNotIdempotent(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, clientID := f.seedClient(t, "client@test.com", "Ama")
	providerAccount, _ := f.seedProvider(t, "provider@test.com", "Kofi", "home")

	ev := &dto.BookingRequestEvent{
		BookingID:       "booking_3",
		ClientAccountID: clientAccount,
		ProviderAccount: providerAccount,
		ServiceTitle:    "House Cleaning",
		ScheduledDate:   time.Now().Add(48 * time.Hour),
		ScheduledTime:   "10:00",
		TotalAmount:     150,
		Currency:        "GHS",
	}
	require.NoError(t, f.notifications.NotifyBookingRequest(ev))
	require.NoError(t, f.notifications.NotifyBookingRequest(ev))

	// Re-delivery writes duplicate rows; there is no dedup key.
	assert.Len(t, f.notificationsFor(t, clientID), 2)
}

func TestNotifyProviderResponseAccepted(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, clientID := f.seedClient(t, "client@test.com", "Ama")

	err := f.notifications.NotifyProviderResponse(&dto.ProviderResponseEvent{
		BookingID:       "booking_4",
		ClientAccountID: clientAccount,
		ServiceTitle:    "House Cleaning",
		Accepted:        true,
	})
	require.NoError(t, err)

	rows := f.notificationsFor(t, clientID)
	require.Len(t, rows, 1)
	assert.Equal(t, repositories.NotificationTypeBookingConfirmed, rows[0].Type)
	assert.Equal(t, "Booking Accepted!", rows[0].Title)
	assert.Contains(t, rows[0].Message, "Complete your payment")
}

func TestNotifyProviderResponseDeclinedWithReason(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, clientID := f.seedClient(t, "client@test.com", "Ama")

	err := f.notifications.NotifyProviderResponse(&dto.ProviderResponseEvent{
		BookingID:       "booking_5",
		ClientAccountID: clientAccount,
		ServiceTitle:    "House Cleaning",
		Accepted:        false,
		Message:         "Fully booked that day",
	})
	require.NoError(t, err)

	rows := f.notificationsFor(t, clientID)
	require.Len(t, rows, 1)
	assert.Equal(t, repositories.NotificationTypeBookingCancelled, rows[0].Type)
	assert.Equal(t, "Booking Declined", rows[0].Title)
	assert.Contains(t, rows[0].Message, "Reason: Fully booked that day")
}

func TestNotifyStatusChangeCancelledMentionsRefundForClient(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, clientID := f.seedClient(t, "client@test.com", "Ama")

	err := f.notifications.NotifyStatusChange(&dto.StatusChangeEvent{
		BookingID:        "booking_6",
		RecipientAccount: clientAccount,
		RecipientRole:    string(models.UserRoleClient),
		ServiceTitle:     "House Cleaning",
		OldStatus:        string(models.BookingStatusConfirmed),
		NewStatus:        string(models.BookingStatusCancelled),
	})
	require.NoError(t, err)

	rows := f.notificationsFor(t, clientID)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Message, "refunded")
}

func TestNotifyStatusChangeCancelledProviderNoRefundCopy(t *testing.T) {
	f := newTestFixture(t)
	providerAccount, providerID := f.seedProvider(t, "provider@test.com", "Kofi", "home")

	err := f.notifications.NotifyStatusChange(&dto.StatusChangeEvent{
		BookingID:        "booking_7",
		RecipientAccount: providerAccount,
		RecipientRole:    string(models.UserRoleProvider),
		ServiceTitle:     "House Cleaning",
		OldStatus:        string(models.BookingStatusConfirmed),
		NewStatus:        string(models.BookingStatusCancelled),
	})
	require.NoError(t, err)

	rows := f.notificationsFor(t, providerID)
	require.Len(t, rows, 1)
	assert.NotContains(t, rows[0].Message, "refunded")
}

func TestNotifyStatusChangeUnmappedStatusFallsBack(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, clientID := f.seedClient(t, "client@test.com", "Ama")

	err := f.notifications.NotifyStatusChange(&dto.StatusChangeEvent{
		BookingID:        "booking_8",
		RecipientAccount: clientAccount,
		RecipientRole:    string(models.UserRoleClient),
		ServiceTitle:     "House Cleaning",
		OldStatus:        string(models.BookingStatusConfirmed),
		NewStatus:        "ON_HOLD",
	})
	require.NoError(t, err)

	rows := f.notificationsFor(t, clientID)
	require.Len(t, rows, 1)
	assert.Equal(t, repositories.NotificationTypeUnknownStatusUpdate, rows[0].Type)
	assert.Equal(t, "Booking Status Update", rows[0].Title)
}

func TestNotifyPaymentCompletedFanOut(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, clientID := f.seedClient(t, "client@test.com", "Ama")
	providerAccount, providerID := f.seedProvider(t, "provider@test.com", "Kofi", "home")

	err := f.notifications.NotifyPaymentCompleted(&dto.PaymentCompletedEvent{
		BookingID:       "booking_9",
		ClientAccountID: clientAccount,
		ProviderAccount: providerAccount,
		ServiceTitle:    "House Cleaning",
		Amount:          150,
		Currency:        "GHS",
		ScheduledDate:   time.Now().Add(48 * time.Hour),
		ScheduledTime:   "10:00",
	})
	require.NoError(t, err)

	clientRows := f.notificationsFor(t, clientID)
	require.Len(t, clientRows, 1)
	assert.Equal(t, repositories.NotificationTypePaymentProcessed, clientRows[0].Type)

	providerRows := f.notificationsFor(t, providerID)
	require.Len(t, providerRows, 1)
	assert.Equal(t, repositories.NotificationTypePaymentReceived, providerRows[0].Type)
}

func TestNotifyWelcomeRoleCopy(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, clientID := f.seedClient(t, "client@test.com", "Ama")
	providerAccount, providerID := f.seedProvider(t, "provider@test.com", "Kofi", "home")

	require.NoError(t, f.notifications.NotifyWelcome(&dto.WelcomeEvent{
		AccountID: clientAccount,
		Role:      string(models.UserRoleClient),
		Name:      "Ama",
	}))
	require.NoError(t, f.notifications.NotifyWelcome(&dto.WelcomeEvent{
		AccountID: providerAccount,
		Role:      string(models.UserRoleProvider),
		Name:      "Kofi",
	}))

	clientRows := f.notificationsFor(t, clientID)
	require.Len(t, clientRows, 1)
	assert.Equal(t, repositories.NotificationTypeSystemAnnouncement, clientRows[0].Type)
	assert.Contains(t, clientRows[0].Message, "Browse trusted professionals")

	providerRows := f.notificationsFor(t, providerID)
	require.Len(t, providerRows, 1)
	assert.Contains(t, providerRows[0].Message, "Complete your provider profile")
}

func TestGetUserNotificationsPayloadRoundTrip(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, _ := f.seedClient(t, "client@test.com", "Ama")
	providerAccount, _ := f.seedProvider(t, "provider@test.com", "Kofi", "home")

	require.NoError(t, f.notifications.NotifyBookingRequest(&dto.BookingRequestEvent{
		BookingID:       "booking_10",
		ClientAccountID: clientAccount,
		ProviderAccount: providerAccount,
		ServiceTitle:    "House Cleaning",
		ScheduledDate:   time.Now().Add(6 * time.Hour),
		ScheduledTime:   "18:00",
		TotalAmount:     150,
		Currency:        "GHS",
	}))

	list, err := f.notifications.GetUserNotifications(clientAccount, repositories.NotificationCriteria{})
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)

	n := list.Notifications[0]
	assert.Equal(t, map[string]interface{}{
		"bookingId":  "booking_10",
		"isUrgent":   true,
		"nextAction": NextActionWaitForProvider,
	}, n.Data)
}

func TestGetUserNotificationsUnresolvedAccountEmptyList(t *testing.T) {
	f := newTestFixture(t)
	orphan := seedBareUser(t, f, "orphan@test.com")

	list, err := f.notifications.GetUserNotifications(orphan, repositories.NotificationCriteria{})
	require.NoError(t, err)
	assert.Empty(t, list.Notifications)
	assert.Zero(t, list.Total)
}

func TestGetUserNotificationsUnreadOnly(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, clientID := f.seedClient(t, "client@test.com", "Ama")

	for i := 0; i < 2; i++ {
		require.NoError(t, f.notifications.NotifyWelcome(&dto.WelcomeEvent{
			AccountID: clientAccount,
			Role:      string(models.UserRoleClient),
			Name:      "Ama",
		}))
	}

	rows := f.notificationsFor(t, clientID)
	require.Len(t, rows, 2)
	require.NoError(t, f.notifications.MarkNotificationAsRead(rows[0].ID))

	list, err := f.notifications.GetUserNotifications(clientAccount, repositories.NotificationCriteria{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, list.Notifications, 1)
	assert.False(t, list.Notifications[0].IsRead)
}

func TestMarkAsReadSetsReadAt(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, clientID := f.seedClient(t, "client@test.com", "Ama")

	require.NoError(t, f.notifications.NotifyWelcome(&dto.WelcomeEvent{
		AccountID: clientAccount,
		Role:      string(models.UserRoleClient),
		Name:      "Ama",
	}))

	rows := f.notificationsFor(t, clientID)
	require.Len(t, rows, 1)
	require.NoError(t, f.notifications.MarkNotificationAsRead(rows[0].ID))

	updated, err := f.notifications.GetNotification(rows[0].ID)
	require.NoError(t, err)
	assert.True(t, updated.IsRead)
	require.NotNil(t, updated.ReadAt)
}

func TestUnreadCountAndMarkAllAsRead(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, _ := f.seedClient(t, "client@test.com", "Ama")

	for i := 0; i < 3; i++ {
		require.NoError(t, f.notifications.NotifyWelcome(&dto.WelcomeEvent{
			AccountID: clientAccount,
			Role:      string(models.UserRoleClient),
			Name:      "Ama",
		}))
	}

	count, err := f.notifications.GetUnreadCount(clientAccount)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, f.notifications.MarkAllAsRead(clientAccount))

	count, err = f.notifications.GetUnreadCount(clientAccount)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCleanOldNotificationsKeepsUnread(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, clientID := f.seedClient(t, "client@test.com", "Ama")

	for i := 0; i < 2; i++ {
		require.NoError(t, f.notifications.NotifyWelcome(&dto.WelcomeEvent{
			AccountID: clientAccount,
			Role:      string(models.UserRoleClient),
			Name:      "Ama",
		}))
	}

	rows := f.notificationsFor(t, clientID)
	require.Len(t, rows, 2)

	// Age both rows past the retention window, mark only one as read.
	old := time.Now().AddDate(0, 0, -120)
	require.NoError(t, f.db.Model(&models.Notification{}).
		Where("user_id = ?", clientID).
		Update("created_at", old).Error)
	require.NoError(t, f.notifications.MarkNotificationAsRead(rows[0].ID))

	deleted, err := f.notifications.CleanOldNotifications(90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining := f.notificationsFor(t, clientID)
	require.Len(t, remaining, 1)
	assert.False(t, remaining[0].IsRead)
}

// Full client-books-provider flow: request fan-out for a next-day job marks
// the provider copy urgent, and both parties read their own copy back
// through the facade.
func TestBookingRequestScenario(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, _ := f.seedClient(t, "ama@test.com", "Ama")
	providerAccount, _ := f.seedProvider(t, "kofi@test.com", "Kofi", "home")

	require.NoError(t, f.notifications.NotifyBookingRequest(&dto.BookingRequestEvent{
		BookingID:       "booking_hc",
		ClientAccountID: clientAccount,
		ProviderAccount: providerAccount,
		ServiceTitle:    "House Cleaning",
		ScheduledDate:   time.Now().Add(20 * time.Hour),
		ScheduledTime:   "09:00",
		TotalAmount:     200,
		Currency:        "GHS",
	}))

	clientList, err := f.notifications.GetUserNotifications(clientAccount, repositories.NotificationCriteria{})
	require.NoError(t, err)
	require.Len(t, clientList.Notifications, 1)
	assert.Equal(t, "Booking Request Sent", clientList.Notifications[0].Title)
	assert.Equal(t, true, clientList.Notifications[0].Data["isUrgent"])

	providerList, err := f.notifications.GetUserNotifications(providerAccount, repositories.NotificationCriteria{})
	require.NoError(t, err)
	require.Len(t, providerList.Notifications, 1)
	assert.Equal(t, "New Booking Request", providerList.Notifications[0].Title)
	assert.True(t, providerList.Notifications[0].SentViaSMS)
	assert.Equal(t, true, providerList.Notifications[0].Data["requiresAction"])
}

// failAfterFirstCreateRepo lets the first insert through and rejects the
// rest, simulating a write failure mid fan-out.
type failAfterFirstCreateRepo struct {
	repositories.NotificationRepository
	creates int
}

func (r *failAfterFirstCreateRepo) Create(notification *models.Notification) error {
	r.creates++
	if r.creates > 1 {
		return errors.New("insert rejected")
	}
	return r.NotificationRepository.Create(notification)
}

func TestBookingRequestPartialFanOutFailure(t *testing.T) {
	f := newTestFixture(t)
	clientAccount, clientID := f.seedClient(t, "client@test.com", "Ama")
	providerAccount, providerID := f.seedProvider(t, "provider@test.com", "Kofi", "home")

	repo := &failAfterFirstCreateRepo{NotificationRepository: f.notificationRepo}
	svc := NewNotificationService(repo, f.resolver)

	err := svc.NotifyBookingRequest(&dto.BookingRequestEvent{
		BookingID:       "booking_partial",
		ClientAccountID: clientAccount,
		ProviderAccount: providerAccount,
		ServiceTitle:    "House Cleaning",
		ScheduledDate:   time.Now().Add(48 * time.Hour),
		ScheduledTime:   "10:00",
		TotalAmount:     150,
		Currency:        "GHS",
	})

	// Partial failure reports as overall failure, but the row written before
	// the failure is not rolled back.
	require.Error(t, err)
	assert.Len(t, f.notificationsFor(t, clientID), 1)
	assert.Empty(t, f.notificationsFor(t, providerID))
}

package services

import (
	"testing"
	"time"

	"easybuk_backend/internal/models"
	"easybuk_backend/internal/repositories"
	"easybuk_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDisputeFixture(t *testing.T) (*testFixture, BookingService, DisputeService) {
	f := newTestFixture(t)
	bookings := newBookingService(f)
	disputes := NewDisputeService(f.disputeRepo, f.bookingRepo, f.entityRepo, f.resolver, f.notifications)
	return f, bookings, disputes
}

func confirmedBooking(t *testing.T, f *testFixture, bookings BookingService, clientAccount, providerAccount, providerID string) *dto.BookingResponse {
	t.Helper()
	booking, err := bookings.CreateBooking(clientAccount, &dto.CreateBookingRequest{
		ProviderID:    providerID,
		ServiceTitle:  "House Cleaning",
		ScheduledDate: time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		TotalAmount:   150,
	})
	require.NoError(t, err)

	booking, err = bookings.RespondToBooking(providerAccount, booking.ID, &dto.ProviderRespondRequest{Accept: true})
	require.NoError(t, err)
	return booking
}

func TestOpenDisputeNotifiesCounterparty(t *testing.T) {
	f, bookings, disputes := newDisputeFixture(t)
	clientAccount, _ := f.seedClient(t, "client@test.com", "Ama")
	providerAccount, providerID := f.seedProvider(t, "provider@test.com", "Kofi", "home")

	booking := confirmedBooking(t, f, bookings, clientAccount, providerAccount, providerID)

	dispute, err := disputes.OpenDispute(clientAccount, models.UserRoleClient, booking.ID, &dto.OpenDisputeRequest{
		Reason: "Provider never showed up",
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.DisputeStatusOpen), dispute.Status)
	assert.Equal(t, clientAccount, dispute.RaisedByID)

	var found bool
	for _, row := range f.notificationsFor(t, providerID) {
		if row.Type == repositories.NotificationTypeDisputeUpdate {
			found = true
			assert.Equal(t, "Dispute Opened", row.Title)
		}
	}
	assert.True(t, found)
}

func TestOpenDisputeOnPendingBookingRejected(t *testing.T) {
	f, bookings, disputes := newDisputeFixture(t)
	clientAccount, _ := f.seedClient(t, "client@test.com", "Ama")
	_, providerID := f.seedProvider(t, "provider@test.com", "Kofi", "home")

	booking, err := bookings.CreateBooking(clientAccount, &dto.CreateBookingRequest{
		ProviderID:    providerID,
		ServiceTitle:  "House Cleaning",
		ScheduledDate: time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		TotalAmount:   150,
	})
	require.NoError(t, err)

	_, err = disputes.OpenDispute(clientAccount, models.UserRoleClient, booking.ID, &dto.OpenDisputeRequest{
		Reason: "Changed my mind",
	})
	require.Error(t, err)
}

func TestOpenDisputeByNonPartyRejected(t *testing.T) {
	f, bookings, disputes := newDisputeFixture(t)
	clientAccount, _ := f.seedClient(t, "client@test.com", "Ama")
	providerAccount, providerID := f.seedProvider(t, "provider@test.com", "Kofi", "home")
	strangerAccount, _ := f.seedClient(t, "stranger@test.com", "Esi")

	booking := confirmedBooking(t, f, bookings, clientAccount, providerAccount, providerID)

	_, err := disputes.OpenDispute(strangerAccount, models.UserRoleClient, booking.ID, &dto.OpenDisputeRequest{
		Reason: "Not my booking",
	})
	require.Error(t, err)
}

func TestOpenDuplicateDisputeRejected(t *testing.T) {
	f, bookings, disputes := newDisputeFixture(t)
	clientAccount, _ := f.seedClient(t, "client@test.com", "Ama")
	providerAccount, providerID := f.seedProvider(t, "provider@test.com", "Kofi", "home")

	booking := confirmedBooking(t, f, bookings, clientAccount, providerAccount, providerID)

	_, err := disputes.OpenDispute(clientAccount, models.UserRoleClient, booking.ID, &dto.OpenDisputeRequest{
		Reason: "Provider never showed up",
	})
	require.NoError(t, err)

	_, err = disputes.OpenDispute(clientAccount, models.UserRoleClient, booking.ID, &dto.OpenDisputeRequest{
		Reason: "Still unhappy",
	})
	require.Error(t, err)
}

func TestResolveDisputeNotifiesBothParties(t *testing.T) {
	f, bookings, disputes := newDisputeFixture(t)
	clientAccount, clientID := f.seedClient(t, "client@test.com", "Ama")
	providerAccount, providerID := f.seedProvider(t, "provider@test.com", "Kofi", "home")

	booking := confirmedBooking(t, f, bookings, clientAccount, providerAccount, providerID)

	dispute, err := disputes.OpenDispute(clientAccount, models.UserRoleClient, booking.ID, &dto.OpenDisputeRequest{
		Reason: "Provider never showed up",
	})
	require.NoError(t, err)

	resolved, err := disputes.ResolveDispute(dispute.ID, &dto.ResolveDisputeRequest{
		Accept:     true,
		Resolution: "Refund issued to client",
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.DisputeStatusResolved), resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	for _, entityID := range []string{clientID, providerID} {
		var found bool
		for _, row := range f.notificationsFor(t, entityID) {
			if row.Type == repositories.NotificationTypeDisputeUpdate && row.Title == "Dispute Resolved" {
				found = true
				assert.Contains(t, row.Message, "Refund issued to client")
			}
		}
		assert.True(t, found, "entity %s missing dispute resolution notification", entityID)
	}
}

func TestResolveDisputeTwiceRejected(t *testing.T) {
	f, bookings, disputes := newDisputeFixture(t)
	clientAccount, _ := f.seedClient(t, "client@test.com", "Ama")
	providerAccount, providerID := f.seedProvider(t, "provider@test.com", "Kofi", "home")

	booking := confirmedBooking(t, f, bookings, clientAccount, providerAccount, providerID)

	dispute, err := disputes.OpenDispute(clientAccount, models.UserRoleClient, booking.ID, &dto.OpenDisputeRequest{
		Reason: "Provider never showed up",
	})
	require.NoError(t, err)

	_, err = disputes.ResolveDispute(dispute.ID, &dto.ResolveDisputeRequest{Accept: false, Resolution: "No evidence"})
	require.NoError(t, err)

	_, err = disputes.ResolveDispute(dispute.ID, &dto.ResolveDisputeRequest{Accept: true, Resolution: "Reopened"})
	require.Error(t, err)
}

func TestGetBookingDisputesRequiresParty(t *testing.T) {
	f, bookings, disputes := newDisputeFixture(t)
	clientAccount, _ := f.seedClient(t, "client@test.com", "Ama")
	providerAccount, providerID := f.seedProvider(t, "provider@test.com", "Kofi", "home")
	strangerAccount, _ := f.seedClient(t, "stranger@test.com", "Esi")
	adminAccount, _ := f.seedAdmin(t, "admin@test.com", "Root")

	booking := confirmedBooking(t, f, bookings, clientAccount, providerAccount, providerID)

	_, err := disputes.OpenDispute(clientAccount, models.UserRoleClient, booking.ID, &dto.OpenDisputeRequest{
		Reason: "Provider never showed up",
	})
	require.NoError(t, err)

	rows, err := disputes.GetBookingDisputes(providerAccount, models.UserRoleProvider, booking.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = disputes.GetBookingDisputes(adminAccount, models.UserRoleAdmin, booking.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = disputes.GetBookingDisputes(strangerAccount, models.UserRoleClient, booking.ID)
	require.Error(t, err)
}

package services

import (
	"fmt"
	"time"

	"easybuk_backend/internal/logger"
	"easybuk_backend/internal/models"
	"easybuk_backend/internal/repositories"
	"easybuk_backend/internal/services/dto"
	"easybuk_backend/pkg/apperrors"
)

type BookingService interface {
	CreateBooking(clientAccountID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	GetBooking(actorAccountID string, actorRole models.UserRole, bookingID string) (*dto.BookingResponse, error)
	GetClientBookings(clientAccountID string, criteria repositories.BookingCriteria) (*dto.BookingListResponse, error)
	GetProviderBookings(providerAccountID string, criteria repositories.BookingCriteria) (*dto.BookingListResponse, error)
	RespondToBooking(providerAccountID, bookingID string, req *dto.ProviderRespondRequest) (*dto.BookingResponse, error)
	UpdateBookingStatus(actorAccountID string, actorRole models.UserRole, bookingID string, req *dto.UpdateBookingStatusRequest) (*dto.BookingResponse, error)
	CompletePayment(clientAccountID, bookingID string, req *dto.CompletePaymentRequest) (*dto.BookingResponse, error)
	ListProviders(category string, page, pageSize int) (*dto.ProviderListResponse, error)
}

type BookingServiceImpl struct {
	bookingRepo     repositories.BookingRepository
	paymentRepo     repositories.PaymentRepository
	entityRepo      repositories.EntityRepository
	resolver        EntityResolver
	notificationSvc NotificationService
}

func NewBookingService(
	bookingRepo repositories.BookingRepository,
	paymentRepo repositories.PaymentRepository,
	entityRepo repositories.EntityRepository,
	resolver EntityResolver,
	notificationSvc NotificationService,
) BookingService {
	return &BookingServiceImpl{
		bookingRepo:     bookingRepo,
		paymentRepo:     paymentRepo,
		entityRepo:      entityRepo,
		resolver:        resolver,
		notificationSvc: notificationSvc,
	}
}

func (s *BookingServiceImpl) CreateBooking(clientAccountID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	res := s.resolver.Resolve(clientAccountID, models.UserRoleClient)
	if !res.Resolved {
		return nil, apperrors.NewForbiddenError("Only clients can create bookings")
	}

	provider, err := s.entityRepo.FindProviderByID(req.ProviderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrEntityNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	scheduledDate, err := time.Parse(time.RFC3339, req.ScheduledDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("scheduled_date must be RFC3339")
	}
	if scheduledDate.Before(time.Now()) {
		return nil, apperrors.ErrInvalidOperation("booking", "Cannot book a time in the past")
	}

	currency := req.Currency
	if currency == "" {
		currency = "GHS"
	}
	duration := req.DurationHours
	if duration == 0 {
		duration = 1
	}
	category := req.Category
	if category == "" {
		category = provider.Category
	}

	booking := &models.Booking{
		ClientID:      res.EntityID,
		ProviderID:    provider.ID,
		ServiceTitle:  req.ServiceTitle,
		Category:      category,
		ScheduledDate: scheduledDate,
		ScheduledTime: req.ScheduledTime,
		DurationHours: duration,
		TotalAmount:   req.TotalAmount,
		Currency:      currency,
		Status:        models.BookingStatusPending,
		Notes:         req.Notes,
	}

	if err := s.bookingRepo.Create(booking); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Notifications are best-effort and never fail the booking.
	if err := s.notificationSvc.NotifyBookingRequest(&dto.BookingRequestEvent{
		BookingID:       booking.ID,
		ClientAccountID: clientAccountID,
		ProviderAccount: provider.UserID,
		ServiceTitle:    booking.ServiceTitle,
		ScheduledDate:   booking.ScheduledDate,
		ScheduledTime:   booking.ScheduledTime,
		TotalAmount:     booking.TotalAmount,
		Currency:        booking.Currency,
	}); err != nil {
		logger.WithError(err).Warn("booking request notifications incomplete", "booking_id", booking.ID)
	}

	return buildBookingResponse(booking), nil
}

func (s *BookingServiceImpl) GetBooking(actorAccountID string, actorRole models.UserRole, bookingID string) (*dto.BookingResponse, error) {
	booking, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrBookingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if err := s.authorizeParty(actorAccountID, actorRole, booking); err != nil {
		return nil, err
	}
	return buildBookingResponse(booking), nil
}

func (s *BookingServiceImpl) GetClientBookings(clientAccountID string, criteria repositories.BookingCriteria) (*dto.BookingListResponse, error) {
	res := s.resolver.Resolve(clientAccountID, models.UserRoleClient)
	if !res.Resolved {
		return emptyBookingList(criteria), nil
	}

	bookings, total, err := s.bookingRepo.FindByClient(res.EntityID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildBookingList(bookings, total, criteria), nil
}

func (s *BookingServiceImpl) GetProviderBookings(providerAccountID string, criteria repositories.BookingCriteria) (*dto.BookingListResponse, error) {
	res := s.resolver.Resolve(providerAccountID, models.UserRoleProvider)
	if !res.Resolved {
		return emptyBookingList(criteria), nil
	}

	bookings, total, err := s.bookingRepo.FindByProvider(res.EntityID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildBookingList(bookings, total, criteria), nil
}

func (s *BookingServiceImpl) RespondToBooking(providerAccountID, bookingID string, req *dto.ProviderRespondRequest) (*dto.BookingResponse, error) {
	booking, err := s.providerOwnedBooking(providerAccountID, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != models.BookingStatusPending {
		return nil, apperrors.ErrInvalidStatus("booking", fmt.Sprintf("Cannot respond to a booking in status %s", booking.Status))
	}

	newStatus := models.BookingStatusCancelled
	if req.Accept {
		newStatus = models.BookingStatusConfirmed
	}

	if err := s.bookingRepo.UpdateStatus(booking.ID, newStatus); err != nil {
		return nil, apperrors.InternalError(err)
	}
	booking.Status = newStatus

	clientAccountID := s.clientAccountID(booking.ClientID)
	if err := s.notificationSvc.NotifyProviderResponse(&dto.ProviderResponseEvent{
		BookingID:       booking.ID,
		ClientAccountID: clientAccountID,
		ServiceTitle:    booking.ServiceTitle,
		Accepted:        req.Accept,
		Message:         req.Message,
	}); err != nil {
		logger.WithError(err).Warn("provider response notification not recorded", "booking_id", booking.ID)
	}

	return buildBookingResponse(booking), nil
}

func (s *BookingServiceImpl) UpdateBookingStatus(actorAccountID string, actorRole models.UserRole, bookingID string, req *dto.UpdateBookingStatusRequest) (*dto.BookingResponse, error) {
	booking, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrBookingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.authorizeParty(actorAccountID, actorRole, booking); err != nil {
		return nil, err
	}

	newStatus := models.BookingStatus(req.Status)
	if !models.CanTransition(booking.Status, newStatus) {
		return nil, apperrors.ErrInvalidStatus("booking",
			fmt.Sprintf("Cannot transition booking from %s to %s", booking.Status, newStatus))
	}

	oldStatus := booking.Status
	booking.Status = newStatus
	if err := s.bookingRepo.Update(booking); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// The counterparty of the actor gets notified of the transition.
	recipientAccount := s.clientAccountID(booking.ClientID)
	recipientRole := models.UserRoleClient
	if actorRole == models.UserRoleClient {
		recipientAccount = s.providerAccountID(booking.ProviderID)
		recipientRole = models.UserRoleProvider
	}

	if err := s.notificationSvc.NotifyStatusChange(&dto.StatusChangeEvent{
		BookingID:        booking.ID,
		RecipientAccount: recipientAccount,
		RecipientRole:    string(recipientRole),
		ServiceTitle:     booking.ServiceTitle,
		OldStatus:        string(oldStatus),
		NewStatus:        string(newStatus),
		UpdateMessage:    req.Message,
	}); err != nil {
		logger.WithError(err).Warn("status change notification not recorded", "booking_id", booking.ID)
	}

	return buildBookingResponse(booking), nil
}

func (s *BookingServiceImpl) CompletePayment(clientAccountID, bookingID string, req *dto.CompletePaymentRequest) (*dto.BookingResponse, error) {
	res := s.resolver.Resolve(clientAccountID, models.UserRoleClient)
	if !res.Resolved {
		return nil, apperrors.NewForbiddenError("Only clients can pay for bookings")
	}

	booking, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrBookingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if booking.ClientID != res.EntityID {
		return nil, apperrors.NewForbiddenError("Booking belongs to a different client")
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, apperrors.ErrInvalidStatus("booking", "Payment is only accepted for confirmed bookings")
	}

	existing, err := s.paymentRepo.FindByBooking(booking.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range existing {
		if existing[i].Status == models.PaymentStatusPaid {
			return nil, apperrors.ErrConflict(nil, "payment", "Booking has already been paid")
		}
	}

	payment := &models.PaymentTransaction{
		BookingID: booking.ID,
		ClientID:  booking.ClientID,
		Amount:    booking.TotalAmount,
		Currency:  booking.Currency,
		Status:    models.PaymentStatusPending,
		Reference: req.Reference,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.paymentRepo.MarkPaid(payment.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.notificationSvc.NotifyPaymentCompleted(&dto.PaymentCompletedEvent{
		BookingID:       booking.ID,
		ClientAccountID: clientAccountID,
		ProviderAccount: s.providerAccountID(booking.ProviderID),
		ServiceTitle:    booking.ServiceTitle,
		Amount:          payment.Amount,
		Currency:        payment.Currency,
		ScheduledDate:   booking.ScheduledDate,
		ScheduledTime:   booking.ScheduledTime,
	}); err != nil {
		logger.WithError(err).Warn("payment notifications incomplete", "booking_id", booking.ID)
	}

	return buildBookingResponse(booking), nil
}

// ListProviders is the public provider directory, rating-sorted, optionally
// filtered by category.
func (s *BookingServiceImpl) ListProviders(category string, page, pageSize int) (*dto.ProviderListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	providers, total, err := s.entityRepo.FindProvidersByCategory(category, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ProviderResponse, 0, len(providers))
	for i := range providers {
		p := &providers[i]
		responses = append(responses, &dto.ProviderResponse{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			City:        p.City,
			HourlyRate:  p.HourlyRate,
			Description: p.Description,
			IsVerified:  p.IsVerified,
			Rating:      p.Rating,
		})
	}

	return &dto.ProviderListResponse{
		Providers: responses,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	}, nil
}

// ---------------- Helpers ----------------

func (s *BookingServiceImpl) providerOwnedBooking(providerAccountID, bookingID string) (*models.Booking, error) {
	res := s.resolver.Resolve(providerAccountID, models.UserRoleProvider)
	if !res.Resolved {
		return nil, apperrors.NewForbiddenError("Only providers can respond to bookings")
	}

	booking, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrBookingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if booking.ProviderID != res.EntityID {
		return nil, apperrors.NewForbiddenError("Booking belongs to a different provider")
	}
	return booking, nil
}

func (s *BookingServiceImpl) authorizeParty(accountID string, role models.UserRole, booking *models.Booking) error {
	switch role {
	case models.UserRoleClient:
		res := s.resolver.Resolve(accountID, models.UserRoleClient)
		if !res.Resolved || booking.ClientID != res.EntityID {
			return apperrors.NewForbiddenError("Booking belongs to a different client")
		}
	case models.UserRoleProvider:
		res := s.resolver.Resolve(accountID, models.UserRoleProvider)
		if !res.Resolved || booking.ProviderID != res.EntityID {
			return apperrors.NewForbiddenError("Booking belongs to a different provider")
		}
	case models.UserRoleAdmin:
		// Admins may drive any transition.
	default:
		return apperrors.ErrInvalidUserRole
	}
	return nil
}

// clientAccountID follows the entity back to its account. A miss returns
// the entity id itself; the writer's degraded path then keeps the
// notification alive.
func (s *BookingServiceImpl) clientAccountID(clientID string) string {
	client, err := s.entityRepo.FindClientByID(clientID)
	if err != nil {
		logger.WithError(err).Warn("client account lookup failed", "client_id", clientID)
		return clientID
	}
	return client.UserID
}

func (s *BookingServiceImpl) providerAccountID(providerID string) string {
	provider, err := s.entityRepo.FindProviderByID(providerID)
	if err != nil {
		logger.WithError(err).Warn("provider account lookup failed", "provider_id", providerID)
		return providerID
	}
	return provider.UserID
}

func buildBookingResponse(booking *models.Booking) *dto.BookingResponse {
	return &dto.BookingResponse{
		ID:            booking.ID,
		ClientID:      booking.ClientID,
		ProviderID:    booking.ProviderID,
		ServiceTitle:  booking.ServiceTitle,
		Category:      booking.Category,
		ScheduledDate: booking.ScheduledDate,
		ScheduledTime: booking.ScheduledTime,
		DurationHours: booking.DurationHours,
		TotalAmount:   booking.TotalAmount,
		Currency:      booking.Currency,
		Status:        string(booking.Status),
		Notes:         booking.Notes,
		CreatedAt:     booking.CreatedAt,
	}
}

func buildBookingList(bookings []models.Booking, total int64, criteria repositories.BookingCriteria) *dto.BookingListResponse {
	responses := make([]*dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, buildBookingResponse(&bookings[i]))
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	return &dto.BookingListResponse{
		Bookings: responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}

func emptyBookingList(criteria repositories.BookingCriteria) *dto.BookingListResponse {
	return buildBookingList(nil, 0, criteria)
}

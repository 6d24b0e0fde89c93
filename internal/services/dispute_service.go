package services

import (
	"time"

	"easybuk_backend/internal/logger"
	"easybuk_backend/internal/models"
	"easybuk_backend/internal/repositories"
	"easybuk_backend/internal/services/dto"
	"easybuk_backend/pkg/apperrors"
)

type DisputeService interface {
	OpenDispute(accountID string, role models.UserRole, bookingID string, req *dto.OpenDisputeRequest) (*dto.DisputeResponse, error)
	GetDispute(disputeID string) (*dto.DisputeResponse, error)
	GetBookingDisputes(accountID string, role models.UserRole, bookingID string) ([]*dto.DisputeResponse, error)
	ListDisputes(criteria repositories.DisputeCriteria) ([]*dto.DisputeResponse, int64, error)
	ResolveDispute(disputeID string, req *dto.ResolveDisputeRequest) (*dto.DisputeResponse, error)
}

type DisputeServiceImpl struct {
	disputeRepo     repositories.DisputeRepository
	bookingRepo     repositories.BookingRepository
	entityRepo      repositories.EntityRepository
	resolver        EntityResolver
	notificationSvc NotificationService
}

func NewDisputeService(
	disputeRepo repositories.DisputeRepository,
	bookingRepo repositories.BookingRepository,
	entityRepo repositories.EntityRepository,
	resolver EntityResolver,
	notificationSvc NotificationService,
) DisputeService {
	return &DisputeServiceImpl{
		disputeRepo:     disputeRepo,
		bookingRepo:     bookingRepo,
		entityRepo:      entityRepo,
		resolver:        resolver,
		notificationSvc: notificationSvc,
	}
}

func (s *DisputeServiceImpl) OpenDispute(accountID string, role models.UserRole, bookingID string, req *dto.OpenDisputeRequest) (*dto.DisputeResponse, error) {
	booking, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrBookingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	// Only a party to the booking may dispute it.
	res := s.resolver.Resolve(accountID, role)
	switch role {
	case models.UserRoleClient:
		if !res.Resolved || booking.ClientID != res.EntityID {
			return nil, apperrors.NewForbiddenError("Booking belongs to a different client")
		}
	case models.UserRoleProvider:
		if !res.Resolved || booking.ProviderID != res.EntityID {
			return nil, apperrors.NewForbiddenError("Booking belongs to a different provider")
		}
	default:
		return nil, apperrors.ErrInvalidUserRole
	}

	if booking.Status == models.BookingStatusPending {
		return nil, apperrors.ErrInvalidOperation("dispute", "Cannot dispute a booking that has not been accepted yet")
	}

	open, err := s.disputeRepo.FindByBooking(bookingID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range open {
		if open[i].Status == models.DisputeStatusOpen {
			return nil, apperrors.ErrConflict(nil, "dispute", "An open dispute already exists for this booking")
		}
	}

	dispute := &models.Dispute{
		BookingID:  bookingID,
		RaisedByID: accountID,
		RaisedRole: role,
		Reason:     req.Reason,
		Status:     models.DisputeStatusOpen,
	}
	if err := s.disputeRepo.Create(dispute); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// The counterparty hears about the dispute; the raiser already knows.
	recipientAccount, recipientRole := s.counterparty(booking, role)
	if err := s.notificationSvc.NotifyDisputeUpdate(&dto.DisputeUpdateEvent{
		BookingID:        booking.ID,
		DisputeID:        dispute.ID,
		RecipientAccount: recipientAccount,
		RecipientRole:    string(recipientRole),
		ServiceTitle:     booking.ServiceTitle,
		Opened:           true,
	}); err != nil {
		logger.WithError(err).Warn("dispute opened notification not recorded", "dispute_id", dispute.ID)
	}

	return buildDisputeResponse(dispute), nil
}

func (s *DisputeServiceImpl) GetDispute(disputeID string) (*dto.DisputeResponse, error) {
	dispute, err := s.disputeRepo.FindByID(disputeID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDisputeNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return buildDisputeResponse(dispute), nil
}

// GetBookingDisputes lists a booking's disputes for one of its parties or
// an admin.
func (s *DisputeServiceImpl) GetBookingDisputes(accountID string, role models.UserRole, bookingID string) ([]*dto.DisputeResponse, error) {
	booking, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrBookingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if role != models.UserRoleAdmin {
		res := s.resolver.Resolve(accountID, role)
		party := role == models.UserRoleClient && res.Resolved && booking.ClientID == res.EntityID ||
			role == models.UserRoleProvider && res.Resolved && booking.ProviderID == res.EntityID
		if !party {
			return nil, apperrors.NewForbiddenError("Booking belongs to a different user")
		}
	}

	disputes, err := s.disputeRepo.FindByBooking(bookingID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	responses := make([]*dto.DisputeResponse, 0, len(disputes))
	for i := range disputes {
		responses = append(responses, buildDisputeResponse(&disputes[i]))
	}
	return responses, nil
}

func (s *DisputeServiceImpl) ListDisputes(criteria repositories.DisputeCriteria) ([]*dto.DisputeResponse, int64, error) {
	disputes, total, err := s.disputeRepo.FindAll(criteria)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	responses := make([]*dto.DisputeResponse, 0, len(disputes))
	for i := range disputes {
		responses = append(responses, buildDisputeResponse(&disputes[i]))
	}
	return responses, total, nil
}

func (s *DisputeServiceImpl) ResolveDispute(disputeID string, req *dto.ResolveDisputeRequest) (*dto.DisputeResponse, error) {
	dispute, err := s.disputeRepo.FindByID(disputeID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDisputeNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if dispute.Status != models.DisputeStatusOpen {
		return nil, apperrors.ErrInvalidStatus("dispute", "Dispute is already closed")
	}

	status := models.DisputeStatusRejected
	if req.Accept {
		status = models.DisputeStatusResolved
	}
	if err := s.disputeRepo.Resolve(dispute.ID, status, req.Resolution); err != nil {
		return nil, apperrors.InternalError(err)
	}

	dispute.Status = status
	dispute.Resolution = req.Resolution
	now := time.Now()
	dispute.ResolvedAt = &now

	if booking, err := s.bookingRepo.FindByID(dispute.BookingID); err == nil {
		// Both parties hear the outcome.
		for _, target := range []struct {
			account string
			role    models.UserRole
		}{
			{s.partyAccountID(booking.ClientID, models.UserRoleClient), models.UserRoleClient},
			{s.partyAccountID(booking.ProviderID, models.UserRoleProvider), models.UserRoleProvider},
		} {
			if err := s.notificationSvc.NotifyDisputeUpdate(&dto.DisputeUpdateEvent{
				BookingID:        booking.ID,
				DisputeID:        dispute.ID,
				RecipientAccount: target.account,
				RecipientRole:    string(target.role),
				ServiceTitle:     booking.ServiceTitle,
				Opened:           false,
				Detail:           req.Resolution,
			}); err != nil {
				logger.WithError(err).Warn("dispute resolved notification not recorded",
					"dispute_id", dispute.ID, "role", string(target.role))
			}
		}
	} else {
		logger.WithError(err).Warn("booking lookup failed while notifying dispute outcome", "dispute_id", dispute.ID)
	}

	return buildDisputeResponse(dispute), nil
}

func (s *DisputeServiceImpl) counterparty(booking *models.Booking, raisedBy models.UserRole) (string, models.UserRole) {
	if raisedBy == models.UserRoleClient {
		return s.partyAccountID(booking.ProviderID, models.UserRoleProvider), models.UserRoleProvider
	}
	return s.partyAccountID(booking.ClientID, models.UserRoleClient), models.UserRoleClient
}

// partyAccountID maps a booking-side entity id back to its account id,
// falling back to the entity id itself so the degraded write path can
// still file the notification.
func (s *DisputeServiceImpl) partyAccountID(entityID string, role models.UserRole) string {
	switch role {
	case models.UserRoleClient:
		if client, err := s.entityRepo.FindClientByID(entityID); err == nil {
			return client.UserID
		}
	case models.UserRoleProvider:
		if provider, err := s.entityRepo.FindProviderByID(entityID); err == nil {
			return provider.UserID
		}
	}
	logger.Warn("party account lookup failed", "entity_id", entityID, "role", string(role))
	return entityID
}

func buildDisputeResponse(dispute *models.Dispute) *dto.DisputeResponse {
	return &dto.DisputeResponse{
		ID:         dispute.ID,
		BookingID:  dispute.BookingID,
		RaisedByID: dispute.RaisedByID,
		RaisedRole: string(dispute.RaisedRole),
		Reason:     dispute.Reason,
		Status:     string(dispute.Status),
		Resolution: dispute.Resolution,
		ResolvedAt: dispute.ResolvedAt,
		CreatedAt:  dispute.CreatedAt,
	}
}

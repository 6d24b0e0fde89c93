package services

import (
	"easybuk_backend/internal/models"
	"easybuk_backend/internal/repositories"
	"easybuk_backend/internal/services/dto"
	"easybuk_backend/pkg/apperrors"
)

type AdminService interface {
	GetDashboard() (*dto.DashboardResponse, error)
	ListBookings(criteria repositories.BookingCriteria) (*dto.BookingListResponse, error)
	SetUserStatus(userID string, req *dto.SetUserStatusRequest) error
}

type AdminServiceImpl struct {
	bookingRepo repositories.BookingRepository
	disputeRepo repositories.DisputeRepository
	userRepo    repositories.UserRepository
}

func NewAdminService(
	bookingRepo repositories.BookingRepository,
	disputeRepo repositories.DisputeRepository,
	userRepo repositories.UserRepository,
) AdminService {
	return &AdminServiceImpl{
		bookingRepo: bookingRepo,
		disputeRepo: disputeRepo,
		userRepo:    userRepo,
	}
}

func (s *AdminServiceImpl) GetDashboard() (*dto.DashboardResponse, error) {
	stats, err := s.bookingRepo.GetStats()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	openDisputes, err := s.disputeRepo.CountOpen()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	clients, err := s.userRepo.CountByRole(models.UserRoleClient)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	providers, err := s.userRepo.CountByRole(models.UserRoleProvider)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.DashboardResponse{
		TotalBookings:    stats.Total,
		BookingsByStatus: stats.ByStatus,
		BookingsToday:    stats.TodayCount,
		TotalRevenue:     stats.TotalRevenue,
		OpenDisputes:     openDisputes,
		TotalClients:     clients,
		TotalProviders:   providers,
	}, nil
}

// SetUserStatus moderates an account. Suspended and banned users cannot
// log in; existing sessions expire with the token.
func (s *AdminServiceImpl) SetUserStatus(userID string, req *dto.SetUserStatusRequest) error {
	if err := s.userRepo.UpdateStatus(userID, models.UserStatus(req.Status)); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AdminServiceImpl) ListBookings(criteria repositories.BookingCriteria) (*dto.BookingListResponse, error) {
	bookings, total, err := s.bookingRepo.FindAll(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildBookingList(bookings, total, criteria), nil
}

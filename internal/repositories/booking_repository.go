package repositories

import (
	"errors"
	"time"

	"easybuk_backend/internal/models"

	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

// BookingCriteria filters booking listings.
type BookingCriteria struct {
	Status   models.BookingStatus `form:"status"`
	Category string               `form:"category"`
	DateFrom time.Time            `form:"date_from"`
	DateTo   time.Time            `form:"date_to"`
	Page     int                  `form:"page"`
	PageSize int                  `form:"page_size"`
}

// BookingStats aggregates the admin dashboard numbers.
type BookingStats struct {
	Total        int64            `json:"total"`
	ByStatus     map[string]int64 `json:"by_status"`
	TodayCount   int64            `json:"today_count"`
	TotalRevenue float64          `json:"total_revenue"`
}

type BookingRepository interface {
	Create(booking *models.Booking) error
	FindByID(id string) (*models.Booking, error)
	Update(booking *models.Booking) error
	UpdateStatus(bookingID string, status models.BookingStatus) error
	FindByClient(clientID string, criteria BookingCriteria) ([]models.Booking, int64, error)
	FindByProvider(providerID string, criteria BookingCriteria) ([]models.Booking, int64, error)
	FindAll(criteria BookingCriteria) ([]models.Booking, int64, error)
	GetStats() (*BookingStats, error)
}

type BookingRepositoryImpl struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &BookingRepositoryImpl{db: db}
}

func (r *BookingRepositoryImpl) Create(booking *models.Booking) error {
	return r.db.Create(booking).Error
}

func (r *BookingRepositoryImpl) FindByID(id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepositoryImpl) Update(booking *models.Booking) error {
	return r.db.Save(booking).Error
}

func (r *BookingRepositoryImpl) UpdateStatus(bookingID string, status models.BookingStatus) error {
	result := r.db.Model(&models.Booking{}).Where("id = ?", bookingID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepositoryImpl) FindByClient(clientID string, criteria BookingCriteria) ([]models.Booking, int64, error) {
	return r.findWithCriteria(r.db.Where("client_id = ?", clientID), criteria)
}

func (r *BookingRepositoryImpl) FindByProvider(providerID string, criteria BookingCriteria) ([]models.Booking, int64, error) {
	return r.findWithCriteria(r.db.Where("provider_id = ?", providerID), criteria)
}

func (r *BookingRepositoryImpl) FindAll(criteria BookingCriteria) ([]models.Booking, int64, error) {
	return r.findWithCriteria(r.db.Model(&models.Booking{}), criteria)
}

func (r *BookingRepositoryImpl) findWithCriteria(query *gorm.DB, criteria BookingCriteria) ([]models.Booking, int64, error) {
	var bookings []models.Booking

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Category != "" {
		query = query.Where("category = ?", criteria.Category)
	}
	if !criteria.DateFrom.IsZero() {
		query = query.Where("scheduled_date >= ?", criteria.DateFrom)
	}
	if !criteria.DateTo.IsZero() {
		query = query.Where("scheduled_date <= ?", criteria.DateTo)
	}

	var total int64
	if err := query.Model(&models.Booking{}).Count(&total).Error; err != nil {
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
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *BookingRepositoryImpl) GetStats() (*BookingStats, error) {
	stats := &BookingStats{ByStatus: make(map[string]int64)}

	if err := r.db.Model(&models.Booking{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.Model(&models.Booking{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
	}

	today := time.Now().Truncate(24 * time.Hour)
	if err := r.db.Model(&models.Booking{}).Where("created_at >= ?", today).Count(&stats.TodayCount).Error; err != nil {
		return nil, err
	}

	err = r.db.Model(&models.Booking{}).
		Where("status = ?", models.BookingStatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

package repositories

import (
	"errors"
	"time"

	"easybuk_backend/internal/models"

	"gorm.io/gorm"
)

var ErrDisputeNotFound = errors.New("dispute not found")

type DisputeCriteria struct {
	Status   models.DisputeStatus `form:"status"`
	Page     int                  `form:"page"`
	PageSize int                  `form:"page_size"`
}

type DisputeRepository interface {
	Create(dispute *models.Dispute) error
	FindByID(id string) (*models.Dispute, error)
	FindByBooking(bookingID string) ([]models.Dispute, error)
	FindAll(criteria DisputeCriteria) ([]models.Dispute, int64, error)
	Resolve(id string, status models.DisputeStatus, resolution string) error
	CountOpen() (int64, error)
}

type DisputeRepositoryImpl struct {
	db *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) DisputeRepository {
	return &DisputeRepositoryImpl{db: db}
}

func (r *DisputeRepositoryImpl) Create(dispute *models.Dispute) error {
	return r.db.Create(dispute).Error
}

func (r *DisputeRepositoryImpl) FindByID(id string) (*models.Dispute, error) {
	var dispute models.Dispute
	err := r.db.First(&dispute, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	return &dispute, nil
}

func (r *DisputeRepositoryImpl) FindByBooking(bookingID string) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := r.db.Where("booking_id = ?", bookingID).Order("created_at DESC").Find(&disputes).Error
	return disputes, err
}

func (r *DisputeRepositoryImpl) FindAll(criteria DisputeCriteria) ([]models.Dispute, int64, error) {
	var disputes []models.Dispute
	query := r.db.Model(&models.Dispute{})

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
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
		Find(&disputes).Error
	if err != nil {
		return nil, 0, err
	}
	return disputes, total, nil
}

func (r *DisputeRepositoryImpl) Resolve(id string, status models.DisputeStatus, resolution string) error {
	now := time.Now()
	result := r.db.Model(&models.Dispute{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      status,
		"resolution":  resolution,
		"resolved_at": &now,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDisputeNotFound
	}
	return nil
}

func (r *DisputeRepositoryImpl) CountOpen() (int64, error) {
	var count int64
	err := r.db.Model(&models.Dispute{}).Where("status = ?", models.DisputeStatusOpen).Count(&count).Error
	return count, err
}

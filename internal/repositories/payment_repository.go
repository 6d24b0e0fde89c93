package repositories

import (
	"errors"
	"time"

	"easybuk_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment transaction not found")

type PaymentRepository interface {
	Create(tx *models.PaymentTransaction) error
	FindByBooking(bookingID string) ([]models.PaymentTransaction, error)
	MarkPaid(id string) error
}

type PaymentRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &PaymentRepositoryImpl{db: db}
}

func (r *PaymentRepositoryImpl) Create(tx *models.PaymentTransaction) error {
	return r.db.Create(tx).Error
}

func (r *PaymentRepositoryImpl) FindByBooking(bookingID string) ([]models.PaymentTransaction, error) {
	var payments []models.PaymentTransaction
	err := r.db.Where("booking_id = ?", bookingID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}

func (r *PaymentRepositoryImpl) MarkPaid(id string) error {
	now := time.Now()
	result := r.db.Model(&models.PaymentTransaction{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":  models.PaymentStatusPaid,
		"paid_at": &now,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

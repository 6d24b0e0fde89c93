package models

import "time"

type PaymentTransaction struct {
	BaseModel
	BookingID string        `gorm:"not null;index"`
	ClientID  string        `gorm:"not null;index"`
	Amount    float64       `gorm:"not null"`
	Currency  string        `gorm:"type:varchar(3);default:'GHS'"`
	Status    PaymentStatus `gorm:"type:varchar(20);default:'pending'"`
	Reference string        `gorm:"uniqueIndex"`
	PaidAt    *time.Time
}

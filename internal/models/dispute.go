package models

import "time"

type Dispute struct {
	BaseModel
	BookingID  string        `gorm:"not null;index"`
	RaisedByID string        `gorm:"not null"` // account id of the party that opened it
	RaisedRole UserRole      `gorm:"type:varchar(20);not null"`
	Reason     string        `gorm:"not null"`
	Status     DisputeStatus `gorm:"type:varchar(20);default:'OPEN';index"`
	Resolution string
	ResolvedAt *time.Time

	Booking *Booking `gorm:"foreignKey:BookingID"`
}

package models

import "time"

type Booking struct {
	BaseModel
	ClientID      string        `gorm:"not null;index"`
	ProviderID    string        `gorm:"not null;index"`
	ServiceTitle  string        `gorm:"not null"`
	Category      string
	ScheduledDate time.Time     `gorm:"not null"`
	ScheduledTime string        // display slot, e.g. "10:00 AM"
	DurationHours int           `gorm:"default:1"`
	TotalAmount   float64       `gorm:"not null"`
	Currency      string        `gorm:"type:varchar(3);default:'GHS'"`
	Status        BookingStatus `gorm:"type:varchar(20);default:'PENDING';index"`
	Notes         string

	// Relations
	Client   *Client          `gorm:"foreignKey:ClientID"`
	Provider *ServiceProvider `gorm:"foreignKey:ProviderID"`
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification rows are filed under the recipient's domain-entity id
// (Client/ServiceProvider/Admin), not the account id. When entity resolution
// fails the writer falls back to the raw account id; AttributionDegraded marks
// those rows so the two id spaces stay distinguishable.
type Notification struct {
	ID                  string   `gorm:"primaryKey"` // generated by the writer, not the DB
	UserID              string   `gorm:"not null;index"`
	UserType            UserRole `gorm:"type:varchar(20);not null"`
	Type                string   `gorm:"not null"` // BOOKING_REQUEST, PAYMENT_PROCESSED, ...
	Title               string   `gorm:"not null"`
	Message             string
	Data                datatypes.JSON `gorm:"type:jsonb"` // {"nextAction": "...", "isUrgent": true}
	IsRead              bool           `gorm:"default:false"`
	ReadAt              *time.Time
	SentViaEmail        bool `gorm:"default:false"`
	SentViaSMS          bool `gorm:"default:false"`
	AttributionDegraded bool `gorm:"default:false"`
	CreatedAt           time.Time `gorm:"index"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

package models

import "time"

// User is the authentication-level account. Domain records (Client,
// ServiceProvider, Admin) hang off it via their UserID columns; notifications
// are filed under those domain ids, not the account id.
type User struct {
	BaseModel
	Email             string     `gorm:"uniqueIndex;not null"`
	PasswordHash      string     `gorm:"not null"`
	Role              UserRole   `gorm:"type:varchar(20);not null"`
	Status            UserStatus `gorm:"type:varchar(20);default:'pending'"`
	IsVerified        bool       `gorm:"default:false"`
	VerificationToken string
	ResetToken        string
	ResetTokenExp     *time.Time

	// Relations
	Client   *Client          `gorm:"foreignKey:UserID"`
	Provider *ServiceProvider `gorm:"foreignKey:UserID"`
	Admin    *Admin           `gorm:"foreignKey:UserID"`
}

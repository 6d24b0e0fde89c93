package models

// Client is the consumer-side domain entity.
type Client struct {
	BaseModel
	UserID string `gorm:"uniqueIndex;not null"`
	Name   string `gorm:"not null"`
	Phone  string
	City   string
}

// ServiceProvider is the supplier-side domain entity.
type ServiceProvider struct {
	BaseModel
	UserID      string `gorm:"uniqueIndex;not null"`
	Name        string `gorm:"not null"`
	Category    string `gorm:"index"` // healthcare, education, home, technical, creative, professional
	City        string
	HourlyRate  float64
	Description string
	IsVerified  bool    `gorm:"default:false"`
	Rating      float64 `gorm:"default:0"`
}

// Admin is the back-office domain entity.
type Admin struct {
	BaseModel
	UserID string `gorm:"uniqueIndex;not null"`
	Name   string `gorm:"not null"`
}

package dto

import "time"

// ---------------- Requests ----------------

type CreateBookingRequest struct {
	ProviderID    string  `json:"provider_id" validate:"required"`
	ServiceTitle  string  `json:"service_title" validate:"required,max=200"`
	Category      string  `json:"category" validate:"omitempty,oneof=healthcare education home technical creative professional"`
	ScheduledDate string  `json:"scheduled_date" validate:"required"` // RFC3339
	ScheduledTime string  `json:"scheduled_time" validate:"omitempty,max=20"`
	DurationHours int     `json:"duration_hours" validate:"omitempty,min=1,max=24"`
	TotalAmount   float64 `json:"total_amount" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"omitempty,len=3"`
	Notes         string  `json:"notes" validate:"omitempty,max=2000"`
}

type ProviderRespondRequest struct {
	Accept  bool   `json:"accept"`
	Message string `json:"message" validate:"omitempty,max=1000"`
}

type UpdateBookingStatusRequest struct {
	Status  string `json:"status" validate:"required"`
	Message string `json:"message" validate:"omitempty,max=1000"`
}

type CompletePaymentRequest struct {
	Reference string `json:"reference" validate:"required,max=100"`
}

type OpenDisputeRequest struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

type ResolveDisputeRequest struct {
	Accept     bool   `json:"accept"`
	Resolution string `json:"resolution" validate:"required,max=2000"`
}

// ---------------- Responses ----------------

type BookingResponse struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"client_id"`
	ProviderID    string    `json:"provider_id"`
	ServiceTitle  string    `json:"service_title"`
	Category      string    `json:"category"`
	ScheduledDate time.Time `json:"scheduled_date"`
	ScheduledTime string    `json:"scheduled_time"`
	DurationHours int       `json:"duration_hours"`
	TotalAmount   float64   `json:"total_amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

type ProviderResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	City        string  `json:"city,omitempty"`
	HourlyRate  float64 `json:"hourly_rate"`
	Description string  `json:"description,omitempty"`
	IsVerified  bool    `json:"is_verified"`
	Rating      float64 `json:"rating"`
}

type ProviderListResponse struct {
	Providers []*ProviderResponse `json:"providers"`
	Total     int64               `json:"total"`
	Page      int                 `json:"page"`
	PageSize  int                 `json:"page_size"`
}

type DisputeResponse struct {
	ID         string     `json:"id"`
	BookingID  string     `json:"booking_id"`
	RaisedByID string     `json:"raised_by_id"`
	RaisedRole string     `json:"raised_role"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	Resolution string     `json:"resolution,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

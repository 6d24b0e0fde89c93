package dto

import "time"

// ---------------- Responses ----------------

// NotificationResponse is the wire shape every notification-rendering page
// depends on. Field names are a compatibility contract; do not rename.
type NotificationResponse struct {
	ID           string                 `json:"id"`
	UserID       string                 `json:"userId"`
	UserType     string                 `json:"userType"`
	Type         string                 `json:"type"`
	Title        string                 `json:"title"`
	Message      string                 `json:"message"`
	Data         map[string]interface{} `json:"data,omitempty"`
	IsRead       bool                   `json:"isRead"`
	SentViaEmail bool                   `json:"sentViaEmail"`
	SentViaSMS   bool                   `json:"sentViaSMS"`
	CreatedAt    time.Time              `json:"createdAt"`
	ReadAt       *time.Time             `json:"readAt,omitempty"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int                     `json:"total"`
}

// ---------------- Event inputs ----------------

// BookingRequestEvent carries the data the booking-request fan-out needs.
type BookingRequestEvent struct {
	BookingID       string
	ClientAccountID string
	ProviderAccount string
	ServiceTitle    string
	ScheduledDate   time.Time
	ScheduledTime   string
	TotalAmount     float64
	Currency        string
}

// ProviderResponseEvent is raised when a provider accepts or declines.
type ProviderResponseEvent struct {
	BookingID       string
	ClientAccountID string
	ServiceTitle    string
	Accepted        bool
	Message         string // optional decline reason
}

// StatusChangeEvent notifies one party of a booking status transition.
type StatusChangeEvent struct {
	BookingID        string
	RecipientAccount string
	RecipientRole    string // CLIENT or PROVIDER
	ServiceTitle     string
	OldStatus        string
	NewStatus        string
	UpdateMessage    string // optional free text appended to the body
}

// PaymentCompletedEvent fans out to both parties of a paid booking.
type PaymentCompletedEvent struct {
	BookingID       string
	ClientAccountID string
	ProviderAccount string
	ServiceTitle    string
	Amount          float64
	Currency        string
	ScheduledDate   time.Time
	ScheduledTime   string
}

// DisputeUpdateEvent notifies one party that a dispute was opened or
// resolved on their booking.
type DisputeUpdateEvent struct {
	BookingID        string
	DisputeID        string
	RecipientAccount string
	RecipientRole    string
	ServiceTitle     string
	Opened           bool // false means resolved
	Detail           string
}

// WelcomeEvent greets a freshly registered account.
type WelcomeEvent struct {
	AccountID string
	Role      string
	Name      string
}

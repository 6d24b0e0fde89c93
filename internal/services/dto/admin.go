package dto

// SetUserStatusRequest drives account moderation (suspend, ban, reinstate).
type SetUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended banned"`
}

// DashboardResponse backs the admin back-office landing page.
type DashboardResponse struct {
	TotalBookings    int64            `json:"total_bookings"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	BookingsToday    int64            `json:"bookings_today"`
	TotalRevenue     float64          `json:"total_revenue"`
	OpenDisputes     int64            `json:"open_disputes"`
	TotalClients     int64            `json:"total_clients"`
	TotalProviders   int64            `json:"total_providers"`
}

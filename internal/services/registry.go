package services

// ServiceContainer holds every service the application wires up.
type ServiceContainer struct {
	AuthService         AuthService
	BookingService      BookingService
	DisputeService      DisputeService
	NotificationService NotificationService
	AdminService        AdminService
}

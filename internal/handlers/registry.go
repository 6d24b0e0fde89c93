package handlers

// AppHandlers collects every handler the router registers.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	BookingHandler      *BookingHandler
	NotificationHandler *NotificationHandler
	AdminHandler        *AdminHandler
}

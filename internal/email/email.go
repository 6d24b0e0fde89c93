package email

// Email is a single outbound message.
type Email struct {
	To      []string
	Subject string
	Body    string // text/html
}

// Provider sends email. The notification dispatcher only records channel
// flags; actual delivery happens through this interface in the auth flow
// (welcome and verification mail).
type Provider interface {
	Send(email *Email) error
	SendWelcome(to, name string, role string) error
	SendVerification(to, token string) error
}

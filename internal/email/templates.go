package email

import "fmt"

func renderWelcome(name string, role string) string {
	intro := "You can now book trusted professionals across healthcare, home services, education and more."
	if role == "PROVIDER" {
		intro = "Complete your profile to start receiving booking requests from clients."
	}
	return fmt.Sprintf(`<h2>Welcome to EasyBuk, %s!</h2><p>%s</p>`, name, intro)
}

func renderVerification(token string) string {
	return fmt.Sprintf(`<p>Confirm your email address by entering this code: <b>%s</b></p>`, token)
}

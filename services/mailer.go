package services

import (
	"fmt"
	"log"
	"strconv"

	"gopkg.in/gomail.v2"

	"voyago/config"
)

// Mailer sends plain-text transactional mail. A no-op when SMTP is not
// configured.
type Mailer struct {
	host string
	port int
	user string
	pass string
}

var mailer *Mailer

func InitMailer(cfg *config.Config) {
	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		port = 587
	}

	mailer = &Mailer{
		host: cfg.SMTPHost,
		port: port,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
	}

	if mailer.host == "" || mailer.user == "" {
		log.Println("⚠️  SMTP not configured — booking confirmation mail disabled")
	} else {
		log.Println("✅ SMTP mailer configured")
	}
}

func GetMailer() *Mailer {
	return mailer
}

func (m *Mailer) Configured() bool {
	return m != nil && m.host != "" && m.user != ""
}

// SendBookingConfirmation mails the booking reference to the lead passenger.
func (m *Mailer) SendBookingConfirmation(to, destination, bookingReference string) error {
	if !m.Configured() {
		return nil
	}

	body := fmt.Sprintf(
		"Your flight booking for %s is confirmed.\n\nBooking reference: %s\n\nKeep this reference for check-in and any changes.\n",
		destination, bookingReference)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.user)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Flight booking confirmed - "+bookingReference)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return d.DialAndSend(msg)
}

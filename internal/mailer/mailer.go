package mailer

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Email is one outbound message.
type Email struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer dispatches email. Implemented by SMTPMailer, mocked in tests.
type Mailer interface {
	Send(email Email) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

// NewFromEnv builds a mailer from the SMTP_* environment variables.
func NewFromEnv() *SMTPMailer {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	return &SMTPMailer{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		user:     os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("EMAIL_FROM"),
	}
}

// Send dispatches one message with an HTML body and a tag-stripped plain
// text alternative. When SMTP is not configured the message is skipped
// without failing the caller.
func (m *SMTPMailer) Send(email Email) error {
	if m.host == "" || m.user == "" || m.password == "" || m.from == "" {
		log.Println("Missing SMTP environment variables, skipping email dispatch")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email.To)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/plain", StripTags(email.HTMLBody))
	msg.AddAlternative("text/html", email.HTMLBody)

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending email to %s: %w", email.To, err)
	}

	log.Printf("Email sent to %s", email.To)
	return nil
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags produces the plain-text alternative of an HTML body.
func StripTags(html string) string {
	return tagPattern.ReplaceAllString(html, "")
}

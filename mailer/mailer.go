package mailer

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"clairity-server/confs"

	"gopkg.in/gomail.v2"
)

// Transport delivers a single message to a single recipient. Jobs and
// handlers depend on this, not on SMTP, so tests can inject a recorder.
type Transport interface {
	Send(to, subject, body string, html bool) error
}

type smtpTransport struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPTransport(cfg *confs.Config) Transport {
	return &smtpTransport{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   fmt.Sprintf("Clarity App <%s>", cfg.MailFrom),
	}
}

func (t *smtpTransport) Send(to, subject, body string, html bool) error {
	m := gomail.NewMessage()
	m.SetHeader("From", t.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	if html {
		m.SetBody("text/html", body)
	} else {
		m.SetBody("text/plain", body)
	}
	return t.dialer.DialAndSend(m)
}

// GenerateVerificationCode returns a random 6-digit code.
func GenerateVerificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(fmt.Sprintf("generate verification code: %v", err))
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// SendVerificationCode mails a code to an address.
func SendVerificationCode(t Transport, email, code string) error {
	return t.Send(email,
		"Clarity verification code",
		fmt.Sprintf("Your verification code is: %s", code),
		false)
}

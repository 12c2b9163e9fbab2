// Package mail sends operator notifications over SMTP.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LocalPros/internal/pkg/env"
)

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends HTML mails through one SMTP relay.
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	Sender   string

	send SendFunc
}

// NewFromEnv reads SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD and
// SMTP_SENDER. It returns nil when SMTP_HOST is empty.
func NewFromEnv() *Mailer {
	host := env.GetEnv("SMTP_HOST", "")
	if host == "" {
		return nil
	}
	m := &Mailer{
		Host:     host,
		Port:     env.GetEnv("SMTP_PORT", "587"),
		Username: env.GetEnv("SMTP_USERNAME", ""),
		Password: env.GetEnv("SMTP_PASSWORD", ""),
		Sender:   env.GetEnv("SMTP_SENDER", ""),
	}
	if m.Sender == "" {
		m.Sender = "no-reply@" + host
		log.Warnf("[Mail] SMTP_SENDER not set, using %s", m.Sender)
	}
	return m
}

// BuildMessage renders the raw RFC 5322 message. Header values are stripped
// of line breaks.
func BuildMessage(sender, to, subject, body string) []byte {
	clean := strings.NewReplacer("\r", " ", "\n", " ")
	return []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", clean.Replace(sender), clean.Replace(to), clean.Replace(subject)) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)
}

// Send delivers one HTML mail.
func (m *Mailer) Send(to, subject, body string) error {
	var auth smtp.Auth
	if m.Username != "" && m.Password != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	send := m.send
	if send == nil {
		send = smtp.SendMail
	}

	addr := m.Host + ":" + m.Port
	if err := send(addr, auth, m.Sender, []string{to}, BuildMessage(m.Sender, to, subject, body)); err != nil {
		log.Errorf("[Mail] send to %s via %s: %v", to, addr, err)
		return err
	}
	log.Infof("[Mail] sent %q to %s", subject, to)
	return nil
}

package dispatch

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/devunion/storefront-auth/internal/config"
)

var _ Dispatcher = (*SMTPDispatcher)(nil)

// SMTPDispatcher sends approval codes through the configured SMTP account.
type SMTPDispatcher struct {
	cfg config.Config
}

func NewSMTPDispatcher(cfg config.Config) *SMTPDispatcher {
	return &SMTPDispatcher{cfg: cfg}
}

// Sender returns the configured from address.
func (d *SMTPDispatcher) Sender() string {
	return d.cfg.GetSmtpAccount()
}

// Send delivers the one-time code. Placeholder or missing credentials fail
// with ReasonMissingCredentials before any connection is attempted.
func (d *SMTPDispatcher) Send(msg Message) error {
	account := d.cfg.GetSmtpAccount()
	password := d.cfg.GetSmtpPassword()
	if account == "" || password == "" || strings.Contains(password, "YOUR_APP_PASSWORD") {
		return &Error{Reason: ReasonMissingCredentials}
	}

	if err := d.send(account, password, msg); err != nil {
		log.Err(err).Str("username", msg.Username).Msg("approval code delivery failed")
		return &Error{Reason: ReasonSendFailed, Err: err}
	}
	return nil
}

func (d *SMTPDispatcher) send(account, password string, msg Message) error {
	host := d.cfg.GetSmtpHost()
	addr := net.JoinHostPort(host, d.cfg.GetSmtpPort())

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("create smtp client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); !ok {
		return fmt.Errorf("smtp server does not support STARTTLS")
	}
	if err := client.StartTLS(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}); err != nil {
		return fmt.Errorf("start tls: %w", err)
	}
	if err := client.Auth(smtp.PlainAuth("", account, password, host)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(account); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(msg.Email); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := fmt.Fprint(writer, d.body(account, msg)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	return client.Quit()
}

func (d *SMTPDispatcher) body(account string, msg Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", account)
	fmt.Fprintf(&b, "To: %s\r\n", msg.Email)
	fmt.Fprintf(&b, "Subject: Your minor admin approval code\r\n")
	fmt.Fprintf(&b, "\r\n")
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", msg.Username)
	fmt.Fprintf(&b, "Your one-time approval code is %s.\r\n", msg.Code)
	fmt.Fprintf(&b, "It expires at %s.\r\n", msg.ExpiresAt.Format(time.RFC1123))
	return b.String()
}

package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrSMTPHostPortRequired is returned when Host/Port are missing.
	ErrSMTPHostPortRequired = errors.New("smtp host and port are required")
	// ErrSMTPNoRecipients is returned when To/Cc/Bcc are all empty.
	ErrSMTPNoRecipients = errors.New("no recipients provided")
	// ErrSMTPNoSender is returned when neither the message nor the config has a sender.
	ErrSMTPNoSender = errors.New("no sender provided")
	// ErrSMTPAuthUnsupported is returned when credentials are configured but
	// the server does not offer AUTH.
	ErrSMTPAuthUnsupported = errors.New("smtp server does not support AUTH")
)

const defaultSMTPTimeout = 10 * time.Second

// SMTPConfig configures the SMTP implementation.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the default sender address; FromName is its display name.
	From     string
	FromName string
	// Timeout bounds dial plus the whole conversation. Zero means 10s.
	Timeout time.Duration
}

// SMTP delivers messages with net/smtp, upgrading to STARTTLS when offered.
type SMTP struct {
	addr    string
	host    string
	from    mail.Address
	auth    smtp.Auth
	timeout time.Duration
}

// NewSMTP constructs an SMTP mail sender.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSMTPTimeout
	}

	return &SMTP{
		addr:    net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		host:    cfg.Host,
		from:    mail.Address{Name: cfg.FromName, Address: cfg.From},
		auth:    auth,
		timeout: timeout,
	}, nil
}

// Send delivers msg. The context deadline (or the configured timeout, if
// sooner) bounds the whole exchange.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	recipients := make([]string, 0, len(msg.To)+len(msg.Cc)+len(msg.Bcc))
	recipients = append(recipients, msg.To...)
	recipients = append(recipients, msg.Cc...)
	recipients = append(recipients, msg.Bcc...)
	if len(recipients) == 0 {
		return ErrSMTPNoRecipients
	}

	from := s.from
	if msg.From != "" {
		from = mail.Address{Address: msg.From}
	}
	if from.Address == "" {
		return ErrSMTPNoSender
	}

	raw, err := compose(from, msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", s.addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	// unblock the conversation if ctx is canceled before the deadline
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if err := s.converse(c, from.Address, recipients, raw); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Join(ctxErr, err)
		}
		return err
	}

	return c.Quit()
}

func (s *SMTP) converse(c *smtp.Client, from string, recipients []string, raw []byte) error {
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if s.auth != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return ErrSMTPAuthUnsupported
		}
		if err := c.Auth(s.auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range recipients {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	return nil
}

// Close implements io.Closer. Connections are per message.
func (s *SMTP) Close() error {
	return nil
}

// compose renders headers and body with CRLF line endings.
func compose(from mail.Address, msg Message) ([]byte, error) {
	var buf bytes.Buffer

	header := func(k, v string) { fmt.Fprintf(&buf, "%s: %s\r\n", k, v) }

	header("From", from.String())
	header("To", strings.Join(msg.To, ", "))
	if len(msg.Cc) > 0 {
		header("Cc", strings.Join(msg.Cc, ", "))
	}
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", time.Now().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")

	if msg.HTMLBody == "" || msg.TextBody == "" {
		ct, body := "text/plain; charset=UTF-8", msg.TextBody
		if msg.HTMLBody != "" {
			ct, body = "text/html; charset=UTF-8", msg.HTMLBody
		}
		header("Content-Type", ct)
		buf.WriteString("\r\n")
		buf.WriteString(crlf(body))
		return buf.Bytes(), nil
	}

	var parts bytes.Buffer
	mw := multipart.NewWriter(&parts)
	for _, p := range []struct{ ct, body string }{
		{"text/plain; charset=UTF-8", msg.TextBody},
		{"text/html; charset=UTF-8", msg.HTMLBody},
	} {
		pw, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {p.ct}})
		if err != nil {
			return nil, err
		}
		if _, err := pw.Write([]byte(crlf(p.body))); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	header("Content-Type", "multipart/alternative; boundary="+mw.Boundary())
	buf.WriteString("\r\n")
	buf.Write(parts.Bytes())

	return buf.Bytes(), nil
}

func crlf(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}

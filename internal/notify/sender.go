package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/mail"
	"net/smtp"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/saborconflow/studio-backend/internal/config"
)

// ErrNotConfigured is returned when the selected backend lacks credentials.
var ErrNotConfigured = errors.New("email backend not configured")

// Sender delivers rendered messages.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
	Configured() bool
	Name() string
}

// NewSender builds the backend selected by cfg.Backend.
func NewSender(cfg config.EmailConfig, log zerolog.Logger) (Sender, error) {
	from := mail.Address{Name: cfg.FromName, Address: cfg.From}
	switch cfg.Backend {
	case "", "console":
		return NewConsoleSender(from, log), nil
	case "smtp":
		return &SMTPSender{
			host:     cfg.SMTPHost,
			port:     cfg.SMTPPort,
			username: cfg.SMTPUsername,
			password: cfg.SMTPPassword,
			from:     from,
		}, nil
	case "sendgrid":
		return &SendGridSender{
			key:  cfg.SendGridAPIKey,
			host: "https://api.sendgrid.com",
			from: from,
		}, nil
	default:
		return nil, fmt.Errorf("unknown email backend %q", cfg.Backend)
	}
}

// ─── Console ───────────────────────────────────────────────────────────

// ConsoleSender logs messages instead of delivering them.
type ConsoleSender struct {
	from mail.Address
	log  zerolog.Logger
}

func NewConsoleSender(from mail.Address, log zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{from: from, log: log.With().Str("component", "email_console").Logger()}
}

func (s *ConsoleSender) Name() string     { return "console" }
func (s *ConsoleSender) Configured() bool { return true }

func (s *ConsoleSender) Send(_ context.Context, msg *Message) error {
	raw, err := mimeBytes(s.from, msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	s.log.Info().
		Str("to", joinAddresses(msg.To)).
		Str("subject", msg.Subject).
		Str("template", msg.Template).
		Msg("Email (console backend)")
	s.log.Debug().Msg(string(raw))
	return nil
}

// ─── SMTP ──────────────────────────────────────────────────────────────

// SMTPSender delivers over SMTP with STARTTLS and PLAIN auth.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     mail.Address
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) Configured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}

func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	raw, err := mimeBytes(s.from, msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(30 * time.Second))
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return fmt.Errorf("start TLS: %w", err)
		}
	}
	if err := client.Auth(smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := client.Mail(s.from.Address); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	for _, to := range msg.To {
		if err := client.Rcpt(to.Address); err != nil {
			return fmt.Errorf("set recipient %s: %w", to.Address, err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("open data writer: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data writer: %w", err)
	}
	return client.Quit()
}

// ─── SendGrid ──────────────────────────────────────────────────────────

const sendgridEndpoint = "/v3/mail/send"

// SendGridSender delivers through the SendGrid v3 mail API.
type SendGridSender struct {
	key  string
	host string
	from mail.Address
}

func (s *SendGridSender) Name() string     { return "sendgrid" }
func (s *SendGridSender) Configured() bool { return s.key != "" }

func (s *SendGridSender) prepare(msg *Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Address))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(s.from.Name, s.from.Address))
	if msg.ReplyTo != nil {
		m.SetReplyTo(sgmail.NewEmail(msg.ReplyTo.Name, msg.ReplyTo.Address))
	}
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", msg.Text),
		sgmail.NewContent("text/html", msg.HTML),
	)
	return m
}

func (s *SendGridSender) Send(ctx context.Context, msg *Message) error {
	req := sendgrid.GetRequest(s.key, sendgridEndpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

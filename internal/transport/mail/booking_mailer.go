package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/metrics"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	// To is the operator inbox that receives booking requests.
	To string
	// UseTLS dials implicit TLS (port 465). Otherwise the connection is
	// upgraded with STARTTLS when the server offers it.
	UseTLS bool
}

// sendTimeout bounds a delivery whose context carries no deadline.
const sendTimeout = 30 * time.Second

type sendFunc func(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// BookingMailer emails the operator about each new booking.
type BookingMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	to       string
	useTLS   bool
	send     sendFunc
}

func NewBookingMailer(cfg Config) *BookingMailer {
	m := &BookingMailer{
		host:     strings.TrimSpace(cfg.Host),
		port:     strings.TrimSpace(cfg.Port),
		username: cfg.Username,
		password: cfg.Password,
		from:     strings.TrimSpace(cfg.From),
		to:       strings.TrimSpace(cfg.To),
		useTLS:   cfg.UseTLS,
	}
	m.send = m.deliver
	return m
}

func (m *BookingMailer) NotifyBookingCreated(ctx context.Context, booking domain.Booking) error {
	err := m.notify(ctx, booking)
	metrics.ObserveNotification("email", err)
	return err
}

func (m *BookingMailer) notify(ctx context.Context, booking domain.Booking) error {
	if m == nil {
		return errors.New("mailer not configured")
	}
	if m.host == "" || m.port == "" || m.from == "" || m.to == "" {
		return errors.New("mailer missing configuration")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var auth smtp.Auth
	if m.username != "" || m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	addr := net.JoinHostPort(m.host, m.port)
	if err := m.send(ctx, addr, auth, m.from, []string{m.to}, buildMessage(m.from, m.to, booking)); err != nil {
		return fmt.Errorf("send booking email: %w", err)
	}
	return nil
}

func buildMessage(from, to string, b domain.Booking) []byte {
	date := "not specified"
	if b.Date != nil {
		date = b.Date.Format("2006-01-02")
	}
	message := b.Message
	if strings.TrimSpace(message) == "" {
		message = "-"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	sb.WriteString(fmt.Sprintf("Reply-To: %s\r\n", b.Email))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", "New booking: "+b.TourName)))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	sb.WriteString(fmt.Sprintf("Tour: %s\r\n", b.TourName))
	sb.WriteString(fmt.Sprintf("Name: %s\r\n", b.Name))
	sb.WriteString(fmt.Sprintf("Email: %s\r\n", b.Email))
	sb.WriteString(fmt.Sprintf("Date: %s\r\n", date))
	sb.WriteString(fmt.Sprintf("Requested at: %s\r\n", b.CreatedAt.UTC().Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Message: %s\r\n", message))
	return []byte(sb.String())
}

// deliver speaks SMTP on a connection bounded by ctx. Implicit TLS is used
// when configured, otherwise STARTTLS when the server offers it.
func (m *BookingMailer) deliver(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(sendTimeout)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		_ = conn.Close()
		return err
	}

	tlsConfig := &tls.Config{ServerName: m.host, MinVersion: tls.VersionTLS12}
	if m.useTLS {
		tc := tls.Client(conn, tlsConfig)
		if err := tc.HandshakeContext(ctx); err != nil {
			_ = conn.Close()
			return err
		}
		conn = tc
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer client.Close()

	if !m.useTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return err
			}
		}
	}
	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

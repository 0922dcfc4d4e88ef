package mail

import (
	"context"
	"errors"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachrizzo/hens-travel/internal/domain"
)

func sampleBooking() domain.Booking {
	date := time.Date(2024, 7, 14, 0, 0, 0, 0, time.UTC)
	return domain.Booking{
		ID:        "b1",
		Name:      "Ana",
		Email:     "ana@example.com",
		TourName:  "City Walk",
		Date:      &date,
		CreatedAt: time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("site@hens.travel", "sophie@hens.travel", sampleBooking()))

	assert.Contains(t, msg, "Subject: New booking: City Walk\r\n")
	assert.Contains(t, msg, "Reply-To: ana@example.com\r\n")
	assert.Contains(t, msg, "Date: 2024-07-14\r\n")
	assert.Contains(t, msg, "Requested at: 2024-06-01T10:30:00Z\r\n")
	assert.Contains(t, msg, "Message: -\r\n")
	assert.True(t, strings.Contains(msg, "\r\n\r\nTour: City Walk"), "headers and body are separated by a blank line")
}

func TestBuildMessageEncodesSubject(t *testing.T) {
	b := sampleBooking()
	b.TourName = "Passeio à Noite"
	msg := string(buildMessage("site@hens.travel", "sophie@hens.travel", b))

	headers, _, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found)
	var subject string
	for _, line := range strings.Split(headers, "\r\n") {
		if v, ok := strings.CutPrefix(line, "Subject: "); ok {
			subject = v
		}
	}
	require.NotEmpty(t, subject)
	assert.NotContains(t, subject, "à", "header must be 7-bit")

	decoded, err := new(mime.WordDecoder).DecodeHeader(subject)
	require.NoError(t, err)
	assert.Equal(t, "New booking: Passeio à Noite", decoded)
	assert.Contains(t, msg, "Tour: Passeio à Noite\r\n")
}

func TestBuildMessageKeepsLineBreaksOutOfHeaders(t *testing.T) {
	b := sampleBooking()
	b.TourName = "City Walk\r\nBcc: victim@example.com"
	msg := string(buildMessage("site@hens.travel", "sophie@hens.travel", b))

	headers, _, _ := strings.Cut(msg, "\r\n\r\n")
	for _, line := range strings.Split(headers, "\r\n") {
		assert.False(t, strings.HasPrefix(line, "Bcc:"), "unexpected header line %q", line)
	}
}

func TestDeliverGivesUpAtContextDeadline(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		// Accept and never greet.
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		time.Sleep(3 * time.Second)
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	m := NewBookingMailer(Config{Host: host, Port: port, From: "site@hens.travel", To: "sophie@hens.travel"})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	err = m.NotifyBookingCreated(ctx, sampleBooking())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNotifyBookingCreated(t *testing.T) {
	m := NewBookingMailer(Config{Host: "smtp.local", Port: "587", Username: "u", Password: "p", From: "site@hens.travel", To: "sophie@hens.travel"})

	var gotAddr string
	var gotTo []string
	m.send = func(ctx context.Context, addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo = addr, to
		require.NotNil(t, auth)
		return nil
	}

	require.NoError(t, m.NotifyBookingCreated(context.Background(), sampleBooking()))
	assert.Equal(t, "smtp.local:587", gotAddr)
	assert.Equal(t, []string{"sophie@hens.travel"}, gotTo)

	m.send = func(context.Context, string, smtp.Auth, string, []string, []byte) error { return errors.New("421 try later") }
	assert.ErrorContains(t, m.NotifyBookingCreated(context.Background(), sampleBooking()), "421 try later")
}

func TestNotifyBookingCreatedRequiresConfig(t *testing.T) {
	m := NewBookingMailer(Config{Host: "smtp.local", Port: "587", From: "site@hens.travel"})
	assert.Error(t, m.NotifyBookingCreated(context.Background(), sampleBooking()))

	var nilMailer *BookingMailer
	assert.Error(t, nilMailer.notify(context.Background(), sampleBooking()))
}

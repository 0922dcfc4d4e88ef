// Package queue publishes booking events to RabbitMQ for downstream
// consumers (CRM sync, confirmation mails).
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/metrics"
)

const EventBookingCreated = "booking.created"

// BookingCreatedEvent is the JSON body of a booking.created message.
type BookingCreatedEvent struct {
	Event     string    `json:"event"`
	BookingID string    `json:"bookingId"`
	TourID    string    `json:"tourId"`
	TourName  string    `json:"tourName"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Date      string    `json:"date,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Publisher keeps one connection and channel open and re-dials after a
// failed publish.
type Publisher struct {
	url   string
	queue string
	now   func() time.Time

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url, queue string) *Publisher {
	if queue == "" {
		queue = EventBookingCreated
	}
	return &Publisher{url: url, queue: queue, now: time.Now}
}

func (p *Publisher) NotifyBookingCreated(ctx context.Context, booking domain.Booking) error {
	err := p.publish(ctx, booking)
	metrics.ObserveNotification("rabbitmq", err)
	return err
}

func (p *Publisher) publish(ctx context.Context, booking domain.Booking) error {
	msg, err := buildPublishing(booking, p.now())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.reset()
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}

// channel returns the open channel, dialing and declaring the durable queue
// first when needed. Callers hold p.mu.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: declare %s: %w", p.queue, err)
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

func buildPublishing(b domain.Booking, now time.Time) (amqp.Publishing, error) {
	event := BookingCreatedEvent{
		Event:     EventBookingCreated,
		BookingID: b.ID,
		TourID:    b.TourID,
		TourName:  b.TourName,
		Name:      b.Name,
		Email:     b.Email,
		Message:   b.Message,
		CreatedAt: b.CreatedAt.UTC(),
	}
	if b.Date != nil {
		event.Date = b.Date.Format("2006-01-02")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("rabbitmq: marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    b.ID,
		Type:         EventBookingCreated,
		Timestamp:    now.UTC(),
		Body:         body,
	}, nil
}

// Package events publishes client activity (logins, bookings, cancellations) for analytics.
// Publishing is best-effort and never affects the user-facing flow.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	otelx "github.com/md-rashed-zaman/salonbook/libs/otel"
)

const (
	TypeLogin                = "client.session.login.v1"
	TypeLogout               = "client.session.logout.v1"
	TypeSessionExpired       = "client.session.expired.v1"
	TypeAppointmentBooked    = "client.appointment.booked.v1"
	TypeAppointmentCancelled = "client.appointment.cancelled.v1"
)

type Event struct {
	ID         string
	Type       string
	Key        string
	Payload    []byte
	OccurredAt time.Time
}

func New(eventType, key string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key,
		Payload:    data,
		OccurredAt: time.Now().UTC(),
	}, nil
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Emit builds and publishes an event, logging instead of returning failures.
func Emit(ctx context.Context, p Publisher, logger *slog.Logger, eventType, key string, payload any) {
	if p == nil {
		return
	}
	evt, err := New(eventType, key, payload)
	if err == nil {
		err = p.Publish(ctx, evt)
	}
	if err != nil && logger != nil {
		logger.Warn("event publish failed", "event_type", eventType, "err", err)
	}
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// LogPublisher writes events to the structured log when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, evt Event) error {
	traceparent, _ := otelx.TraceContextStrings(ctx)
	p.logger.Debug("client event",
		"event_id", evt.ID,
		"event_type", evt.Type,
		"key", evt.Key,
		"traceparent", traceparent,
		"payload", json.RawMessage(evt.Payload),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

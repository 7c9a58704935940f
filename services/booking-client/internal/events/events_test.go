package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/md-rashed-zaman/salonbook/libs/kafkax"
	"github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaPublisherTopicPerType(t *testing.T) {
	w := &recordingWriter{}
	p := newKafka(w, KafkaConfig{Source: "salon-cli"})

	evt, err := New(TypeAppointmentBooked, "A1", map[string]string{"appointment_id": "A1"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := p.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if msg.Topic != TypeAppointmentBooked || string(msg.Key) != "A1" {
		t.Fatalf("unexpected message routing: topic=%s key=%s", msg.Topic, msg.Key)
	}
	if kafkax.HeaderValue(msg.Headers, kafkax.HeaderEventID) != evt.ID {
		t.Fatalf("missing event id header: %v", msg.Headers)
	}
	if kafkax.HeaderValue(msg.Headers, kafkax.HeaderSource) != "salon-cli" {
		t.Fatalf("missing source header: %v", msg.Headers)
	}
	if !strings.Contains(string(msg.Value), `"appointment_id":"A1"`) {
		t.Fatalf("unexpected payload %s", msg.Value)
	}
}

func TestKafkaPublisherFixedTopic(t *testing.T) {
	w := &recordingWriter{}
	p := newKafka(w, KafkaConfig{Topic: "salon.client.events"})
	evt, _ := New(TypeLogin, "u1", nil)
	_ = p.Publish(context.Background(), evt)
	if w.msgs[0].Topic != "salon.client.events" {
		t.Fatalf("expected fixed topic, got %s", w.msgs[0].Topic)
	}
}

func TestEmitLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	p := newKafka(&recordingWriter{err: errors.New("broker down")}, KafkaConfig{})

	Emit(context.Background(), p, logger, TypeLogout, "u1", map[string]string{"user_id": "u1"})
	if !strings.Contains(buf.String(), "broker down") {
		t.Fatalf("expected failure to be logged, got %s", buf.String())
	}
	Emit(context.Background(), nil, logger, TypeLogout, "u1", nil)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	evt, _ := New(TypeAppointmentCancelled, "A1", map[string]string{"appointment_id": "A1"})
	if err := p.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if !strings.Contains(buf.String(), TypeAppointmentCancelled) {
		t.Fatalf("expected event type in log, got %s", buf.String())
	}
}

func TestNewKafkaRequiresBrokers(t *testing.T) {
	if _, err := NewKafka(KafkaConfig{}); err == nil {
		t.Fatal("expected error without brokers")
	}
}

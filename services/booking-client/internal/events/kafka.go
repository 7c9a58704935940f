package events

import (
	"context"
	"errors"
	"time"

	"github.com/md-rashed-zaman/salonbook/libs/kafkax"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConfig struct {
	Brokers []string
	// Topic, when set, receives every event; otherwise the topic equals the event type.
	Topic  string
	Source string
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
	source string
}

func NewKafka(cfg KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers required")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return newKafka(writer, cfg), nil
}

func newKafka(w messageWriter, cfg KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: cfg.Topic, source: cfg.Source}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	topic := p.topic
	if topic == "" {
		topic = evt.Type
	}
	msg := kafka.Message{
		Topic:   topic,
		Key:     []byte(evt.Key),
		Value:   evt.Payload,
		Time:    evt.OccurredAt,
		Headers: kafkax.EventHeaders(evt.ID, evt.Type, p.source),
	}
	msg.Headers = kafkax.InjectTraceHeaders(ctx, msg.Headers)
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

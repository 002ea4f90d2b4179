package kafkabus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/maxi-cmyk/poop-tracker/internal/platform/logger"
	"github.com/maxi-cmyk/poop-tracker/internal/ports/activity"
)

var ErrNoBrokers = errors.New("kafka: no brokers configured")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher manda la actividad del círculo a un topic, con key = user_id
// para que los eventos de un usuario queden ordenados en su partición.
type Publisher struct {
	w     messageWriter
	topic string
	log   logger.Logger
}

type Config struct {
	Brokers []string
	Topic   string

	// WriteTimeout por defecto 5s.
	WriteTimeout time.Duration
}

func NewPublisher(cfg Config, log logger.Logger) (*Publisher, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, b := range cfg.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		return nil, errors.New("kafka: topic is required")
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: timeout,
	}
	return newPublisher(w, topic, log), nil
}

func newPublisher(w messageWriter, topic string, log logger.Logger) *Publisher {
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{
		w:     w,
		topic: topic,
		log:   log.With(map[string]any{"component": "kafkabus", "topic": topic}),
	}
}

func (p *Publisher) Publish(ctx context.Context, ev activity.Event) error {
	if strings.TrimSpace(ev.UserID) == "" {
		return errors.New("kafka: event without user_id")
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: encode event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(ev.UserID),
		Value: payload,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(ev.Kind)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		p.log.Warn("activity publish failed", map[string]any{
			"kind":    string(ev.Kind),
			"user_id": ev.UserID,
			"error":   err,
		})
		return fmt.Errorf("kafka: write: %w", err)
	}

	p.log.Debug("activity published", map[string]any{"kind": string(ev.Kind), "user_id": ev.UserID})
	return nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}

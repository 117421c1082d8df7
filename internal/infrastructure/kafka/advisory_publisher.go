// Package kafka publica los resultados de notificación como eventos en un tópico.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/warehouse-inventory/internal/application/notification"
)

var _ notification.EventPublisher = (*AdvisoryPublisher)(nil)

// EventType tipo de evento que viaja en el sobre.
const EventType = "NotificationAttempted"

// Config conexión al clúster.
type Config struct {
	Brokers []string
	Topic   string
}

// Event sobre JSON de cada aviso publicado.
type Event struct {
	EventID   string                `json:"event_id"`
	EventType string                `json:"event_type"`
	Payload   notification.Advisory `json:"payload"`
	Timestamp time.Time             `json:"timestamp"`
}

// messageWriter subconjunto de *kafka.Writer que usa el publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AdvisoryPublisher implementa notification.EventPublisher con un kafka.Writer.
type AdvisoryPublisher struct {
	writer messageWriter
}

// NewAdvisoryPublisher construye el writer balanceado por clave (el ID del mensaje).
func NewAdvisoryPublisher(cfg Config) *AdvisoryPublisher {
	return newAdvisoryPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	})
}

func newAdvisoryPublisher(w messageWriter) *AdvisoryPublisher {
	return &AdvisoryPublisher{writer: w}
}

// Publish serializa el aviso y lo escribe. Los avisos de un mismo mensaje comparten partición.
func (p *AdvisoryPublisher) Publish(ctx context.Context, a notification.Advisory) error {
	value, err := json.Marshal(Event{
		EventID:   a.MessageID + ":" + a.At.UTC().Format(time.RFC3339Nano),
		EventType: EventType,
		Payload:   a,
		Timestamp: a.At,
	})
	if err != nil {
		return fmt.Errorf("kafka: serializar aviso: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(a.MessageID),
		Value: value,
		Time:  a.At,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventType)},
			{Key: "kind", Value: []byte(a.Kind)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publicar aviso %s: %w", a.MessageID, err)
	}
	return nil
}

// Close vacía y cierra el writer.
func (p *AdvisoryPublisher) Close() error {
	return p.writer.Close()
}

// Package broker publica los eventos de dominio en Kafka.
package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/ports"
)

var (
	_ ports.EventPublisher = (*Producer)(nil)
	_ ports.EventPublisher = NopPublisher{}
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publica cada evento como un mensaje JSON; la clave es el ID del agregado.
type Producer struct {
	w     messageWriter
	topic string
	log   zerolog.Logger
}

// NewProducer crea un writer asíncrono sobre los brokers dados.
func NewProducer(log zerolog.Logger, brokers []string, topic string) *Producer {
	log = log.With().Str("component", "kafka").Str("topic", topic).Logger()
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		Async:                  true,
		AllowAutoTopicCreation: true,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Debug().Msgf(msg, args...)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Error().Msgf(msg, args...)
		}),
	}
	return &Producer{w: w, topic: topic, log: log}
}

// Publish serializa el evento y lo encola.
func (p *Producer) Publish(ctx context.Context, e ports.Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("kafka: serializar evento %s: %w", e.Type, err)
	}
	err = p.w.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(e.Key),
		Value: b,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka: publicar %s: %w", e.Type, err)
	}
	return nil
}

// Close vacía el buffer del writer.
func (p *Producer) Close() {
	if err := p.w.Close(); err != nil {
		p.log.Error().Err(err).Msg("cerrar writer kafka")
	}
}

// NopPublisher descarta los eventos (Kafka no configurado, tests, CLI).
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ports.Event) error { return nil }

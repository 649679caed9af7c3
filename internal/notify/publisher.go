package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/segmentio/kafka-go"
)

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// ======================================================
// KAFKA
// ======================================================

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers:  brokers,
			Topic:    topic,
			Balancer: &kafka.Hash{},
		}),
	}
}

// Publish usa o id do agendamento como chave, então os eventos de um mesmo
// agendamento chegam em ordem na mesma partição.
func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(ev.AppointmentID), 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(ev.ID)},
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// ======================================================
// LOG (sem broker configurado)
// ======================================================

type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, ev Event) error {
	p.logger.Info("notification event",
		"event_id", ev.ID,
		"event_type", ev.Type,
		"appointment_id", ev.AppointmentID,
		"customer_id", ev.CustomerID,
		"start", ev.Start,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

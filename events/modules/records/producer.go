// Package records handles Kafka event production for record batch events.
package records

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

// RecordProducer handles sending record batch events to Kafka.
type RecordProducer struct {
	Writer *kafka.Writer
}

// NewRecordProducer initializes a new Kafka writer for record events.
func NewRecordProducer(brokers []string, topic string) *RecordProducer {
	return &RecordProducer{
		Writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishRecordBatchCreated sends the event to the Kafka topic. Messages
// are keyed by source so batches from one feed stay ordered.
func (p *RecordProducer) PublishRecordBatchCreated(ctx context.Context, batch model.RecordBatch) error {
	event := RecordBatchEvent{
		EventType:     EventTypeRecordBatchCreated,
		EventID:       uuid.New().String(),
		EventTime:     time.Now().UTC(),
		SchemaVersion: "v1",
		Batch:         batch,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(batch.Source),
		Value: payload,
	})
}

// Close cleans up the Kafka writer.
func (p *RecordProducer) Close() error {
	return p.Writer.Close()
}

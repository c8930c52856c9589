// Package records handles Kafka event processing for record batch events.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/vulnwatch/vulnwatch-backend/model"
)

// RecordIngester defines the interface for record batch ingestion.
type RecordIngester interface {
	IngestBatch(ctx context.Context, batch model.RecordBatch) (model.IntakeResponse, error)
}

// HandleRecordBatchCreated processes record batch events from Kafka.
// Ingestion goes through the same service as the REST intake endpoint so
// both boundaries apply identical validation and upsert semantics.
func HandleRecordBatchCreated(ctx context.Context, msg []byte, ingester RecordIngester) error {
	var event RecordBatchEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal RecordBatchEvent: %w", err)
	}

	if !event.Batch.Source.Valid() || event.Batch.Count() == 0 {
		return fmt.Errorf("invalid event: missing source or records")
	}

	log.Printf("Processing %d records from source %s (event=%s)", event.Batch.Count(), event.Batch.Source, event.EventID)

	resp, err := ingester.IngestBatch(ctx, event.Batch)
	if err != nil {
		return fmt.Errorf("internal service error: %w", err)
	}

	log.Printf("Record batch %s: %s", event.EventID, resp.Message)
	return nil
}

// Package records defines types for Kafka event processing of record batch events.
package records

import (
	"time"

	"github.com/vulnwatch/vulnwatch-backend/model"
)

// RecordBatchEvent is the event contract published by ingestion workers
// when a batch of records has been fetched from an upstream feed.
type RecordBatchEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	Batch model.RecordBatch `json:"batch"`
}

// EventTypeRecordBatchCreated is the type tag carried by RecordBatchEvent.
const EventTypeRecordBatchCreated = "records.batch.created"

// Package services provides internal service implementations for the vulnwatch backend.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/vulnwatch/vulnwatch-backend/database"
	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

// RecordService upserts pushed record batches into the per-source
// collections. The REST intake endpoint and the Kafka event handler both
// delegate here so a batch is processed identically regardless of which
// boundary delivered it.
type RecordService struct {
	DB database.DBConnection
}

// upsertResult reports whether the written document replaced an existing one.
type upsertResult struct {
	Updated bool `json:"updated"`
}

// upsertByKey performs a single-document UPSERT matched on keyField.
func (s *RecordService) upsertByKey(ctx context.Context, collection, keyField, keyValue string, doc interface{}) (bool, error) {
	query := fmt.Sprintf(`
		UPSERT { %s: @key_value }
			INSERT @doc
			UPDATE MERGE(@doc, { created_at: OLD.created_at }) IN %s
			RETURN { updated: OLD != null }
	`, keyField, collection)

	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"key_value": keyValue,
			"doc":       doc,
		},
	})
	if err != nil {
		return false, apperr.Store(err, "upsert into "+collection+" failed")
	}
	defer cursor.Close()

	var res upsertResult
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &res); err != nil {
			return false, apperr.Store(err, "failed to read upsert result")
		}
	}
	return res.Updated, nil
}

// IngestBatch validates and upserts every record in the batch. Records
// missing their natural key are counted as skipped, not failed; a storage
// error aborts the batch.
func (s *RecordService) IngestBatch(ctx context.Context, batch model.RecordBatch) (model.IntakeResponse, error) {
	if !batch.Source.Valid() {
		return model.IntakeResponse{}, apperr.Validation("source", "unknown source: "+string(batch.Source))
	}
	if batch.Count() == 0 {
		return model.IntakeResponse{}, apperr.Validation("records", "batch contains no records")
	}

	resp := model.IntakeResponse{Success: true}
	now := time.Now().UTC()

	for _, v := range batch.Vulnerabilities {
		if v.CveID == "" {
			resp.Skipped++
			continue
		}
		if v.ObjType == "" {
			v.ObjType = "Vulnerability"
		}
		v.CreatedAt = now
		v.UpdatedAt = now
		updated, err := s.upsertByKey(ctx, "vulnerability", "cve_id", v.CveID, v)
		if err != nil {
			return model.IntakeResponse{}, err
		}
		if updated {
			resp.Updated++
		} else {
			resp.Inserted++
		}
	}

	for _, c := range batch.CVEs {
		if c.CveID == "" {
			resp.Skipped++
			continue
		}
		if c.ObjType == "" {
			c.ObjType = "CVERecord"
		}
		c.CreatedAt = now
		c.UpdatedAt = now
		updated, err := s.upsertByKey(ctx, "cve", "cve_id", c.CveID, c)
		if err != nil {
			return model.IntakeResponse{}, err
		}
		if updated {
			resp.Updated++
		} else {
			resp.Inserted++
		}
	}

	for _, tq := range batch.Techniques {
		if tq.TechniqueID == "" {
			resp.Skipped++
			continue
		}
		if tq.ObjType == "" {
			tq.ObjType = "Technique"
		}
		tq.CreatedAt = now
		tq.UpdatedAt = now
		updated, err := s.upsertByKey(ctx, "technique", "technique_id", tq.TechniqueID, tq)
		if err != nil {
			return model.IntakeResponse{}, err
		}
		if updated {
			resp.Updated++
		} else {
			resp.Inserted++
		}
	}

	resp.Message = fmt.Sprintf("processed %d records: %d inserted, %d updated, %d skipped",
		batch.Count(), resp.Inserted, resp.Updated, resp.Skipped)
	return resp, nil
}

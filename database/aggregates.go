package database

import (
	"context"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
	"github.com/vulnwatch/vulnwatch-backend/internal/metrics"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

// recordCollections maps a source to its collection and the timestamp
// column metrics aggregate over.
var recordCollections = map[model.Source]struct {
	collection string
	dateField  string
}{
	model.SourceCISA:  {collection: "vulnerability", dateField: "date_added"},
	model.SourceNVD:   {collection: "cve", dateField: "published"},
	model.SourceMITRE: {collection: "technique", dateField: "modified"},
}

// Aggregator runs the per-source aggregate queries the metric handlers
// reshape into envelopes. Each call is one parameterized query; there is
// no cross-request caching.
type Aggregator struct {
	db DBConnection
}

// NewAggregator builds an aggregator over the given connection.
func NewAggregator(db DBConnection) *Aggregator {
	return &Aggregator{db: db}
}

func (a *Aggregator) readInt(ctx context.Context, query string, bind map[string]interface{}) (int, error) {
	cursor, err := a.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bind})
	if err != nil {
		return 0, apperr.Store(err, "aggregate query failed")
	}
	defer cursor.Close()

	total := 0
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &total); err != nil {
			return 0, apperr.Store(err, "failed to read aggregate count")
		}
	}
	return total, nil
}

// CountInRange counts a source's records whose timestamp column falls in
// the window.
func (a *Aggregator) CountInRange(ctx context.Context, source model.Source, rng metrics.TimeRange) (int, error) {
	rc, ok := recordCollections[source]
	if !ok {
		return 0, apperr.Validation("source", "unknown source: "+string(source))
	}
	query := `
		FOR v IN ` + rc.collection + `
			FILTER v.` + rc.dateField + ` >= @from AND v.` + rc.dateField + ` <= @to
			COLLECT WITH COUNT INTO total
			RETURN total
	`
	return a.readInt(ctx, query, map[string]interface{}{"from": rng.From, "to": rng.To})
}

// CountAll counts every record a source holds.
func (a *Aggregator) CountAll(ctx context.Context, source model.Source) (int, error) {
	rc, ok := recordCollections[source]
	if !ok {
		return 0, apperr.Validation("source", "unknown source: "+string(source))
	}
	query := `
		FOR v IN ` + rc.collection + `
			COLLECT WITH COUNT INTO total
			RETURN total
	`
	return a.readInt(ctx, query, nil)
}

func (a *Aggregator) readDistribution(ctx context.Context, query string, bind map[string]interface{}) ([]model.DistributionRow, error) {
	cursor, err := a.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bind})
	if err != nil {
		return nil, apperr.Store(err, "distribution query failed")
	}
	defer cursor.Close()

	rows := []model.DistributionRow{}
	for cursor.HasMore() {
		var row struct {
			Label string  `json:"label"`
			Value float64 `json:"value"`
		}
		if _, err := cursor.ReadDocument(ctx, &row); err != nil {
			return nil, apperr.Store(err, "failed to read distribution row")
		}
		if row.Label == "" {
			row.Label = "Unknown"
		}
		rows = append(rows, model.DistributionRow{Label: row.Label, Value: row.Value})
	}
	return rows, nil
}

// VendorDistribution groups KEV entries added in the window by vendor.
// Rows come back unranked; the envelope builder owns the ordering.
func (a *Aggregator) VendorDistribution(ctx context.Context, rng metrics.TimeRange, limit int) ([]model.DistributionRow, error) {
	query := `
		FOR v IN vulnerability
			FILTER v.date_added >= @from AND v.date_added <= @to
			COLLECT vendor = v.vendor_project WITH COUNT INTO cnt
			SORT cnt DESC
			LIMIT @limit
			RETURN { label: vendor, value: cnt }
	`
	return a.readDistribution(ctx, query, map[string]interface{}{
		"from": rng.From, "to": rng.To, "limit": limit,
	})
}

// SeverityDistribution groups CVE records published in the window by
// severity rating.
func (a *Aggregator) SeverityDistribution(ctx context.Context, rng metrics.TimeRange) ([]model.DistributionRow, error) {
	query := `
		FOR c IN cve
			FILTER c.published >= @from AND c.published <= @to
			COLLECT severity = c.severity WITH COUNT INTO cnt
			RETURN { label: severity, value: cnt }
	`
	return a.readDistribution(ctx, query, map[string]interface{}{"from": rng.From, "to": rng.To})
}

// TacticDistribution groups ATT&CK techniques by tactic across the whole
// collection; techniques have no meaningful ingest window.
func (a *Aggregator) TacticDistribution(ctx context.Context) ([]model.DistributionRow, error) {
	query := `
		FOR t IN technique
			COLLECT tactic = t.tactic WITH COUNT INTO cnt
			RETURN { label: tactic, value: cnt }
	`
	return a.readDistribution(ctx, query, nil)
}

// bucketUnit maps a bucket duration onto the DATE_TRUNC unit.
func bucketUnit(bucket time.Duration) string {
	if bucket <= time.Hour {
		return "hour"
	}
	return "day"
}

// TrendCounter returns the per-bucket count capability for a source,
// shaped for the adaptive bucketer. Buckets with no records are absent
// from the result, which is exactly what the bucketer's emptiness check
// needs.
func (a *Aggregator) TrendCounter(source model.Source) metrics.BucketCounter {
	rc := recordCollections[source]
	return func(ctx context.Context, window metrics.TimeRange, bucket time.Duration) ([]model.TrendPoint, error) {
		query := `
			FOR v IN ` + rc.collection + `
				FILTER v.` + rc.dateField + ` >= @from AND v.` + rc.dateField + ` <= @to
				COLLECT b = DATE_TRUNC(v.` + rc.dateField + `, @unit) WITH COUNT INTO cnt
				SORT b ASC
				RETURN { timestamp: b, count: cnt }
		`
		cursor, err := a.db.Database.Query(ctx, query, &arangodb.QueryOptions{
			BindVars: map[string]interface{}{
				"from": window.From,
				"to":   window.To,
				"unit": bucketUnit(bucket),
			},
		})
		if err != nil {
			return nil, err
		}
		defer cursor.Close()

		points := []model.TrendPoint{}
		for cursor.HasMore() {
			var p model.TrendPoint
			if _, err := cursor.ReadDocument(ctx, &p); err != nil {
				return nil, err
			}
			points = append(points, p)
		}
		return points, nil
	}
}

// RecentVulnerabilities returns the newest KEV entries in the window,
// newest first.
func (a *Aggregator) RecentVulnerabilities(ctx context.Context, rng metrics.TimeRange, limit int) ([]model.VulnerabilitySummary, error) {
	query := `
		FOR v IN vulnerability
			FILTER v.date_added >= @from AND v.date_added <= @to
			SORT v.date_added DESC
			LIMIT @limit
			RETURN {
				cve_id: v.cve_id,
				vendor_project: v.vendor_project,
				product: v.product,
				vulnerability_name: v.vulnerability_name,
				date_added: v.date_added,
				due_date: v.due_date
			}
	`
	cursor, err := a.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"from": rng.From, "to": rng.To, "limit": limit},
	})
	if err != nil {
		return nil, apperr.Store(err, "recent vulnerabilities query failed")
	}
	defer cursor.Close()

	rows := []model.VulnerabilitySummary{}
	for cursor.HasMore() {
		var row model.VulnerabilitySummary
		if _, err := cursor.ReadDocument(ctx, &row); err != nil {
			return nil, apperr.Store(err, "failed to read vulnerability row")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Package model - API types for combining records in API requests/responses
package model

// RecordBatch is the intake shape pushed by the ingestion workers, either
// over POST /records or through the record-events topic. Each batch
// carries records for exactly one source.
type RecordBatch struct {
	Source          Source          `json:"source"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities,omitempty"`
	CVEs            []CVERecord     `json:"cves,omitempty"`
	Techniques      []Technique     `json:"techniques,omitempty"`
}

// Count returns the number of records in the batch.
func (b RecordBatch) Count() int {
	return len(b.Vulnerabilities) + len(b.CVEs) + len(b.Techniques)
}

// IntakeResponse reports the result of an intake operation.
type IntakeResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Skipped  int    `json:"skipped"`
}

// MigrationResult reports a widget-type migration pass.
type MigrationResult struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	DashboardsChanged int    `json:"dashboards_changed"`
	WidgetsChanged    int    `json:"widgets_changed"`
}

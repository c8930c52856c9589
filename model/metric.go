package model

import "time"

// MetricKind discriminates the payload shapes a metric envelope can carry.
type MetricKind string

// Supported metric payload kinds.
const (
	KindCounter      MetricKind = "counter"
	KindGauge        MetricKind = "gauge"
	KindDistribution MetricKind = "distribution"
	KindTimeSeries   MetricKind = "timeseries"
	KindList         MetricKind = "list"
)

// MetricValue is the uniform summary every payload carries regardless of kind.
// Change is always current minus previous; ChangePercent is 0 when the
// previous value is 0 so sparse feeds never produce Inf or NaN.
type MetricValue struct {
	Label         string  `json:"label"`
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// DistributionRow is one labeled slice of a distribution payload.
type DistributionRow struct {
	Label      string                 `json:"label"`
	Value      float64                `json:"value"`
	Percentage float64                `json:"percentage"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// TrendPoint is one time bucket in a time-series payload.
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Count     float64   `json:"count"`
}

// MetricPayload is the envelope returned for any metric. Exactly one of
// Distribution, Series or Items is populated, matching Kind.
type MetricPayload struct {
	ID           string                 `json:"id"`
	Kind         MetricKind             `json:"kind"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	Source       Source                 `json:"source"`
	LastUpdated  time.Time              `json:"last_updated"`
	Value        MetricValue            `json:"value"`
	Distribution []DistributionRow      `json:"distribution,omitempty"`
	Series       []TrendPoint           `json:"series,omitempty"`
	Items        []VulnerabilitySummary `json:"items,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// BucketResolution reports which window and bucket size the adaptive
// bucketer actually used, alongside the points it found. When every rung
// of the ladder is empty, WindowLabel is NoDataWindowLabel and Points is
// empty.
type BucketResolution struct {
	WindowLabel   string       `json:"window_label"`
	IntervalLabel string       `json:"interval_label"`
	Points        []TrendPoint `json:"points"`
}

// NoDataWindowLabel marks a resolution whose ladder was exhausted.
const NoDataWindowLabel = "No data available"

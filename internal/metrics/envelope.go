package metrics

import (
	"math"
	"sort"

	"github.com/vulnwatch/vulnwatch-backend/model"
)

// EnvelopeBuilder assembles computed aggregates into typed metric
// payloads with uniform change semantics. Every kind tolerates empty
// input and returns a valid zeroed payload; "no data" is never an error.
type EnvelopeBuilder struct {
	clock Clock
}

// NewEnvelopeBuilder builds an envelope builder on the given clock. The
// clock stamps LastUpdated with the computation time, not the data time.
func NewEnvelopeBuilder(clock Clock) *EnvelopeBuilder {
	return &EnvelopeBuilder{clock: clock}
}

// Meta names the metric being built.
type Meta struct {
	ID          string
	Title       string
	Description string
	Source      model.Source
}

// changeOf computes current minus previous and the percent change.
// Percent is 0 when previous is 0; a zero baseline yields no meaningful
// ratio and the UI treats 0 as "no comparison".
func changeOf(current, previous float64) (change, percent float64) {
	change = current - previous
	if previous != 0 {
		percent = math.Round(change / previous * 100)
	}
	return change, percent
}

func (b *EnvelopeBuilder) base(meta Meta, kind model.MetricKind) model.MetricPayload {
	return model.MetricPayload{
		ID:          meta.ID,
		Kind:        kind,
		Title:       meta.Title,
		Description: meta.Description,
		Source:      meta.Source,
		LastUpdated: b.clock.Now(),
	}
}

// Counter builds a counter payload. previous may be 0 when no baseline
// query was run, which reports change 0.
func (b *EnvelopeBuilder) Counter(meta Meta, label string, current, previous float64) model.MetricPayload {
	p := b.base(meta, model.KindCounter)
	change, percent := changeOf(current, previous)
	p.Value = model.MetricValue{Label: label, Value: current, Change: change, ChangePercent: percent}
	return p
}

// Gauge builds a gauge payload. Identical value semantics to Counter; the
// kind tells renderers the value is a level, not a running total.
func (b *EnvelopeBuilder) Gauge(meta Meta, label string, current, previous float64) model.MetricPayload {
	p := b.base(meta, model.KindGauge)
	change, percent := changeOf(current, previous)
	p.Value = model.MetricValue{Label: label, Value: current, Change: change, ChangePercent: percent}
	return p
}

// Distribution builds a distribution payload. Rows are sorted by value
// descending with ascending label as the deterministic tie-break, each
// row's percentage is its share of the total (0 when the total is 0), and
// the envelope's top-level value mirrors the highest-ranked row.
func (b *EnvelopeBuilder) Distribution(meta Meta, rows []model.DistributionRow) model.MetricPayload {
	p := b.base(meta, model.KindDistribution)

	sorted := make([]model.DistributionRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Value != sorted[j].Value {
			return sorted[i].Value > sorted[j].Value
		}
		return sorted[i].Label < sorted[j].Label
	})

	var sum float64
	for _, r := range sorted {
		sum += r.Value
	}
	for i := range sorted {
		if sum > 0 {
			sorted[i].Percentage = math.Round(sorted[i].Value / sum * 100)
		} else {
			sorted[i].Percentage = 0
		}
	}

	p.Distribution = sorted
	if len(sorted) > 0 {
		p.Value = model.MetricValue{Label: sorted[0].Label, Value: sorted[0].Value}
	}
	return p
}

// TimeSeries builds a timeseries payload from points already ordered by
// timestamp ascending. The top-level value is the most recent bucket's
// count, with change measured against the immediately preceding bucket.
// The resolution's labels travel in the payload metadata so the caller
// can see which window was actually used.
func (b *EnvelopeBuilder) TimeSeries(meta Meta, res model.BucketResolution) model.MetricPayload {
	p := b.base(meta, model.KindTimeSeries)
	p.Series = res.Points
	p.Metadata = map[string]interface{}{
		"window":   res.WindowLabel,
		"interval": res.IntervalLabel,
	}

	n := len(res.Points)
	if n == 0 {
		p.Value = model.MetricValue{Label: res.WindowLabel}
		return p
	}

	current := res.Points[n-1].Count
	var previous float64
	if n > 1 {
		previous = res.Points[n-2].Count
	}
	change, percent := changeOf(current, previous)
	p.Value = model.MetricValue{
		Label:         res.WindowLabel,
		Value:         current,
		Change:        change,
		ChangePercent: percent,
	}
	return p
}

// List builds a list payload carrying record summaries. The value is a
// plain count of the items.
func (b *EnvelopeBuilder) List(meta Meta, label string, items []model.VulnerabilitySummary) model.MetricPayload {
	p := b.base(meta, model.KindList)
	if items == nil {
		items = []model.VulnerabilitySummary{}
	}
	p.Items = items
	p.Value = model.MetricValue{Label: label, Value: float64(len(items))}
	return p
}

package metrics_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/vulnwatch/vulnwatch-backend/internal/metrics"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

func newBuilder() *metrics.EnvelopeBuilder {
	return metrics.NewEnvelopeBuilder(metrics.FixedClock{At: testNow})
}

var testMeta = metrics.Meta{
	ID:     "kev-total",
	Title:  "Total KEV Entries",
	Source: model.SourceCISA,
}

func TestCounterChange(t *testing.T) {
	b := newBuilder()

	p := b.Counter(testMeta, "Total", 42, 30)
	gt.Equal(t, p.Kind, model.KindCounter)
	gt.Equal(t, p.Value.Value, 42.0)
	gt.Equal(t, p.Value.Change, 12.0)
	gt.Equal(t, p.Value.ChangePercent, 40.0)
	gt.Equal(t, p.LastUpdated, testNow)
}

func TestCounterZeroBaseline(t *testing.T) {
	b := newBuilder()

	// previous == 0 must report percent 0, never Inf or NaN.
	p := b.Counter(testMeta, "Total", 10, 0)
	gt.Equal(t, p.Value.Change, 10.0)
	gt.Equal(t, p.Value.ChangePercent, 0.0)
}

func TestGaugeKind(t *testing.T) {
	b := newBuilder()

	p := b.Gauge(testMeta, "Open", 7, 7)
	gt.Equal(t, p.Kind, model.KindGauge)
	gt.Equal(t, p.Value.Change, 0.0)
}

func TestDistributionSortAndPercentages(t *testing.T) {
	b := newBuilder()

	rows := []model.DistributionRow{
		{Label: "C", Value: 3},
		{Label: "B", Value: 5},
		{Label: "A", Value: 5},
	}

	p := b.Distribution(testMeta, rows)
	gt.Equal(t, p.Kind, model.KindDistribution)
	gt.Equal(t, len(p.Distribution), 3)

	// Ties broken by ascending label.
	gt.Equal(t, p.Distribution[0].Label, "A")
	gt.Equal(t, p.Distribution[1].Label, "B")
	gt.Equal(t, p.Distribution[2].Label, "C")

	gt.Equal(t, p.Distribution[0].Percentage, 38.0)
	gt.Equal(t, p.Distribution[1].Percentage, 38.0)
	gt.Equal(t, p.Distribution[2].Percentage, 23.0)

	// Top-level value mirrors the highest-ranked row.
	gt.Equal(t, p.Value.Label, "A")
	gt.Equal(t, p.Value.Value, 5.0)
}

func TestDistributionEmpty(t *testing.T) {
	b := newBuilder()

	p := b.Distribution(testMeta, nil)
	gt.Equal(t, len(p.Distribution), 0)
	gt.Equal(t, p.Value.Value, 0.0)
}

func TestDistributionZeroTotal(t *testing.T) {
	b := newBuilder()

	p := b.Distribution(testMeta, []model.DistributionRow{{Label: "A", Value: 0}})
	gt.Equal(t, p.Distribution[0].Percentage, 0.0)
}

func TestTimeSeriesValueFromLastBucket(t *testing.T) {
	b := newBuilder()

	res := model.BucketResolution{
		WindowLabel:   "Last 7 days",
		IntervalLabel: "day",
		Points: []model.TrendPoint{
			{Timestamp: testNow.Add(-48 * time.Hour), Count: 2},
			{Timestamp: testNow.Add(-24 * time.Hour), Count: 4},
			{Timestamp: testNow, Count: 3},
		},
	}

	p := b.TimeSeries(testMeta, res)
	gt.Equal(t, p.Kind, model.KindTimeSeries)
	gt.Equal(t, len(p.Series), 3)
	gt.Equal(t, p.Value.Value, 3.0)
	gt.Equal(t, p.Value.Change, -1.0)
	gt.Equal(t, p.Value.ChangePercent, -25.0)
	gt.Equal(t, p.Metadata["window"], interface{}("Last 7 days"))
}

func TestTimeSeriesEmpty(t *testing.T) {
	b := newBuilder()

	res := model.BucketResolution{WindowLabel: model.NoDataWindowLabel, Points: []model.TrendPoint{}}
	p := b.TimeSeries(testMeta, res)
	gt.Equal(t, p.Value.Value, 0.0)
	gt.Equal(t, p.Value.Label, model.NoDataWindowLabel)
	gt.Equal(t, len(p.Series), 0)
}

func TestTimeSeriesSinglePoint(t *testing.T) {
	b := newBuilder()

	res := model.BucketResolution{
		WindowLabel:   "Last 24 hours",
		IntervalLabel: "hour",
		Points:        []model.TrendPoint{{Timestamp: testNow, Count: 9}},
	}
	p := b.TimeSeries(testMeta, res)
	gt.Equal(t, p.Value.Value, 9.0)
	gt.Equal(t, p.Value.Change, 9.0)
	gt.Equal(t, p.Value.ChangePercent, 0.0)
}

func TestListCount(t *testing.T) {
	b := newBuilder()

	items := []model.VulnerabilitySummary{
		{CveID: "CVE-2025-0001"},
		{CveID: "CVE-2025-0002"},
	}
	p := b.List(testMeta, "Recent", items)
	gt.Equal(t, p.Kind, model.KindList)
	gt.Equal(t, p.Value.Value, 2.0)
	gt.Equal(t, len(p.Items), 2)
}

func TestListEmpty(t *testing.T) {
	b := newBuilder()

	p := b.List(testMeta, "Recent", nil)
	gt.Equal(t, p.Value.Value, 0.0)
	gt.Equal(t, len(p.Items), 0)
}

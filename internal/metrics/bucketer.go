package metrics

import (
	"context"
	"time"

	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

// BucketCounter runs one per-bucket count query over [window.From,
// window.To] with the given bucket size and returns the non-empty buckets
// ordered by timestamp ascending. The database implementation lives in
// the database package; tests supply fakes.
type BucketCounter func(ctx context.Context, window TimeRange, bucket time.Duration) ([]model.TrendPoint, error)

// Rung is one step of a granularity ladder: a window width and the bucket
// size to aggregate it with.
type Rung struct {
	Window        time.Duration
	Bucket        time.Duration
	WindowLabel   string
	IntervalLabel string
}

// DefaultLadder is the cascade used by the trend metrics: last 24 hours
// by hour, then last 7 days by day, then last 30 days by day.
func DefaultLadder() []Rung {
	return []Rung{
		{Window: 24 * time.Hour, Bucket: time.Hour, WindowLabel: "Last 24 hours", IntervalLabel: "hour"},
		{Window: 7 * 24 * time.Hour, Bucket: 24 * time.Hour, WindowLabel: "Last 7 days", IntervalLabel: "day"},
		{Window: 30 * 24 * time.Hour, Bucket: 24 * time.Hour, WindowLabel: "Last 30 days", IntervalLabel: "day"},
	}
}

// AdaptiveBucketer widens a requested window until it finds data. The
// returned resolution names the window actually used, which can be
// coarser than what the caller asked for; that divergence is intentional
// UX behavior (some signal beats an empty chart) and is surfaced only
// through the labels.
type AdaptiveBucketer struct {
	clock Clock
}

// NewAdaptiveBucketer builds a bucketer on the given clock.
func NewAdaptiveBucketer(clock Clock) *AdaptiveBucketer {
	return &AdaptiveBucketer{clock: clock}
}

// Bucket walks the ladder from finest to coarsest, evaluating each rung's
// count query, and stops at the first rung that yields at least one
// point. An exhausted ladder returns the explicit no-data resolution
// rather than an error: empty feeds are a normal operating condition.
func (b *AdaptiveBucketer) Bucket(ctx context.Context, ladder []Rung, counter BucketCounter) (model.BucketResolution, error) {
	if len(ladder) == 0 {
		return model.BucketResolution{}, apperr.Validation("ladder", "granularity ladder is empty")
	}

	now := b.clock.Now()
	for _, rung := range ladder {
		window := TimeRange{From: now.Add(-rung.Window), To: now}
		points, err := counter(ctx, window, rung.Bucket)
		if err != nil {
			return model.BucketResolution{}, apperr.Store(err, "bucket count query failed")
		}
		if len(points) == 0 {
			continue
		}
		return model.BucketResolution{
			WindowLabel:   rung.WindowLabel,
			IntervalLabel: rung.IntervalLabel,
			Points:        points,
		}, nil
	}

	return model.BucketResolution{
		WindowLabel:   model.NoDataWindowLabel,
		IntervalLabel: "",
		Points:        []model.TrendPoint{},
	}, nil
}

// InferInterval derives the bucket size of already-fetched points from
// their spacing instead of re-querying. The smallest gap between
// consecutive points is taken as the bucket width; fewer than two points
// cannot be classified and report "day".
func InferInterval(points []model.TrendPoint) string {
	if len(points) < 2 {
		return "day"
	}
	min := time.Duration(0)
	for i := 1; i < len(points); i++ {
		gap := points[i].Timestamp.Sub(points[i-1].Timestamp)
		if gap <= 0 {
			continue
		}
		if min == 0 || gap < min {
			min = gap
		}
	}
	switch {
	case min == 0:
		return "day"
	case min <= time.Hour:
		return "hour"
	case min <= 24*time.Hour:
		return "day"
	case min <= 7*24*time.Hour:
		return "week"
	default:
		return "month"
	}
}

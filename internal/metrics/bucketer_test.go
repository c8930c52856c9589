package metrics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
	"github.com/vulnwatch/vulnwatch-backend/internal/metrics"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

// countsByWindow fakes the store: it returns points keyed by the
// requested window width.
func countsByWindow(points map[time.Duration][]model.TrendPoint) metrics.BucketCounter {
	return func(_ context.Context, window metrics.TimeRange, _ time.Duration) ([]model.TrendPoint, error) {
		return points[window.Duration()], nil
	}
}

func TestBucketFallsBackToFirstNonEmptyRung(t *testing.T) {
	b := metrics.NewAdaptiveBucketer(metrics.FixedClock{At: testNow})

	day := 24 * time.Hour
	data := map[time.Duration][]model.TrendPoint{
		24 * time.Hour: {}, // nothing in the last 24h
		7 * day: {
			{Timestamp: testNow.Add(-3 * day), Count: 1},
			{Timestamp: testNow.Add(-2 * day), Count: 1},
			{Timestamp: testNow.Add(-1 * day), Count: 1},
		},
	}

	res, err := b.Bucket(context.Background(), metrics.DefaultLadder(), countsByWindow(data))
	gt.NoError(t, err)
	gt.Equal(t, res.WindowLabel, "Last 7 days")
	gt.Equal(t, res.IntervalLabel, "day")
	gt.Equal(t, len(res.Points), 3)
}

func TestBucketUsesFinestRungWithData(t *testing.T) {
	b := metrics.NewAdaptiveBucketer(metrics.FixedClock{At: testNow})

	data := map[time.Duration][]model.TrendPoint{
		24 * time.Hour: {{Timestamp: testNow.Add(-2 * time.Hour), Count: 5}},
	}

	res, err := b.Bucket(context.Background(), metrics.DefaultLadder(), countsByWindow(data))
	gt.NoError(t, err)
	gt.Equal(t, res.WindowLabel, "Last 24 hours")
	gt.Equal(t, res.IntervalLabel, "hour")
	gt.Equal(t, len(res.Points), 1)
}

func TestBucketExhaustedLadder(t *testing.T) {
	b := metrics.NewAdaptiveBucketer(metrics.FixedClock{At: testNow})

	res, err := b.Bucket(context.Background(), metrics.DefaultLadder(), countsByWindow(nil))
	gt.NoError(t, err)
	gt.Equal(t, res.WindowLabel, model.NoDataWindowLabel)
	gt.Equal(t, len(res.Points), 0)
}

func TestBucketEmptyLadder(t *testing.T) {
	b := metrics.NewAdaptiveBucketer(metrics.FixedClock{At: testNow})

	_, err := b.Bucket(context.Background(), nil, countsByWindow(nil))
	gt.Error(t, err)
	gt.True(t, apperr.IsValidation(err))
}

func TestBucketPropagatesStoreError(t *testing.T) {
	b := metrics.NewAdaptiveBucketer(metrics.FixedClock{At: testNow})

	boom := errors.New("cursor failed")
	counter := func(context.Context, metrics.TimeRange, time.Duration) ([]model.TrendPoint, error) {
		return nil, boom
	}

	_, err := b.Bucket(context.Background(), metrics.DefaultLadder(), counter)
	gt.Error(t, err)
	gt.True(t, apperr.IsStore(err))
}

func TestInferInterval(t *testing.T) {
	day := 24 * time.Hour
	hourly := []model.TrendPoint{
		{Timestamp: testNow},
		{Timestamp: testNow.Add(time.Hour)},
		{Timestamp: testNow.Add(2 * time.Hour)},
	}
	daily := []model.TrendPoint{
		{Timestamp: testNow},
		{Timestamp: testNow.Add(day)},
	}
	weekly := []model.TrendPoint{
		{Timestamp: testNow},
		{Timestamp: testNow.Add(7 * day)},
	}

	gt.Equal(t, metrics.InferInterval(hourly), "hour")
	gt.Equal(t, metrics.InferInterval(daily), "day")
	gt.Equal(t, metrics.InferInterval(weekly), "week")
	gt.Equal(t, metrics.InferInterval(nil), "day")
	gt.Equal(t, metrics.InferInterval(daily[:1]), "day")
}

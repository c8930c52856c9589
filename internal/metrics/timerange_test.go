package metrics_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
	"github.com/vulnwatch/vulnwatch-backend/internal/metrics"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newResolver() *metrics.TimeRangeResolver {
	return metrics.NewTimeRangeResolver(metrics.FixedClock{At: testNow})
}

func TestResolveExplicitBounds(t *testing.T) {
	r := newResolver()

	from := testNow.Add(-48 * time.Hour)
	to := testNow.Add(-24 * time.Hour)

	rng, err := r.Resolve(&from, &to, "7d", 30*24*time.Hour)
	gt.NoError(t, err)
	gt.Equal(t, rng.From, from)
	gt.Equal(t, rng.To, to)
}

func TestResolveExplicitBoundsReversedPassThrough(t *testing.T) {
	r := newResolver()

	// from > to is a caller error that propagates downstream as empty
	// results, not a rejection at this layer.
	from := testNow
	to := testNow.Add(-time.Hour)

	rng, err := r.Resolve(&from, &to, "", time.Hour)
	gt.NoError(t, err)
	gt.Equal(t, rng.From, from)
	gt.Equal(t, rng.To, to)
}

func TestResolvePresets(t *testing.T) {
	r := newResolver()

	cases := map[string]time.Duration{
		"24h": 24 * time.Hour,
		"7d":  7 * 24 * time.Hour,
		"30d": 30 * 24 * time.Hour,
		"90d": 90 * 24 * time.Hour,
	}

	for preset, want := range cases {
		t.Run(preset, func(t *testing.T) {
			rng, err := r.Resolve(nil, nil, preset, time.Hour)
			gt.NoError(t, err)
			gt.Equal(t, rng.To, testNow)
			gt.Equal(t, rng.Duration(), want)
		})
	}
}

func TestResolveUnknownPreset(t *testing.T) {
	r := newResolver()

	_, err := r.Resolve(nil, nil, "14d", time.Hour)
	gt.Error(t, err)
	gt.True(t, apperr.IsValidation(err))
}

func TestResolveFallbackDuration(t *testing.T) {
	r := newResolver()

	rng, err := r.Resolve(nil, nil, "", 30*24*time.Hour)
	gt.NoError(t, err)
	gt.Equal(t, rng.To, testNow)
	gt.Equal(t, rng.Duration(), 30*24*time.Hour)
}

func TestResolveSingleExplicitBoundOverridesFallbackEdge(t *testing.T) {
	r := newResolver()

	from := testNow.Add(-3 * 24 * time.Hour)
	rng, err := r.Resolve(&from, nil, "", 30*24*time.Hour)
	gt.NoError(t, err)
	gt.Equal(t, rng.From, from)
	gt.Equal(t, rng.To, testNow)
}

func TestResolveNonPositiveFallback(t *testing.T) {
	r := newResolver()

	_, err := r.Resolve(nil, nil, "", 0)
	gt.Error(t, err)
	gt.True(t, apperr.IsValidation(err))
}

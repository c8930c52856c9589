// Package metrics holds the computation core behind every dashboard
// metric: date-range resolution, adaptive time bucketing, and the uniform
// metric envelope.
package metrics

import (
	"time"

	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
)

// Clock supplies the current instant. Handlers pass SystemClock; tests
// pass a fixed instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns At.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.At }

// TimeRange is a concrete [From, To] interval. Never persisted.
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Duration returns To minus From.
func (r TimeRange) Duration() time.Duration { return r.To.Sub(r.From) }

// Preset windows, each a fixed duration ending at "now".
var presetDurations = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
}

// TimeRangeResolver turns optional explicit bounds or a named preset into
// a concrete interval. Pure function of its inputs and the injected clock.
type TimeRangeResolver struct {
	clock Clock
}

// NewTimeRangeResolver builds a resolver on the given clock.
func NewTimeRangeResolver(clock Clock) *TimeRangeResolver {
	return &TimeRangeResolver{clock: clock}
}

// Resolve resolves the range. Both explicit bounds are used verbatim when
// supplied; from > to is not rejected here, it simply matches nothing
// downstream. Otherwise a known preset wins, and with neither the
// caller's fallback duration is measured back from now. Call sites have
// different defaults (last 30 days vs last month are not interchangeable)
// so the fallback is a parameter, never hardcoded.
func (r *TimeRangeResolver) Resolve(from, to *time.Time, preset string, fallback time.Duration) (TimeRange, error) {
	if from != nil && to != nil {
		return TimeRange{From: *from, To: *to}, nil
	}

	now := r.clock.Now()

	if preset != "" {
		d, ok := presetDurations[preset]
		if !ok {
			return TimeRange{}, apperr.Validation("preset", "unknown preset: "+preset)
		}
		return TimeRange{From: now.Add(-d), To: now}, nil
	}

	if fallback <= 0 {
		return TimeRange{}, apperr.Validation("fallback", "fallback duration must be positive")
	}
	rng := TimeRange{From: now.Add(-fallback), To: now}
	// A single explicit bound overrides the matching edge of the fallback
	// window.
	if from != nil {
		rng.From = *from
	}
	if to != nil {
		rng.To = *to
	}
	return rng, nil
}

// Presets returns the recognized preset names.
func Presets() []string {
	return []string{"24h", "7d", "30d", "90d"}
}

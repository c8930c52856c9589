// Package metrics implements the resolvers for the dashboard metrics.
package metrics

import (
	"context"
	"time"

	"github.com/vulnwatch/vulnwatch-backend/database"
	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
	metricsvc "github.com/vulnwatch/vulnwatch-backend/internal/metrics"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

// ResolveOverview returns the total record counts per source.
func ResolveOverview(db database.DBConnection) (interface{}, error) {
	ctx := context.Background()
	agg := database.NewAggregator(db)

	kev, err := agg.CountAll(ctx, model.SourceCISA)
	if err != nil {
		return nil, err
	}
	cves, err := agg.CountAll(ctx, model.SourceNVD)
	if err != nil {
		return nil, err
	}
	techniques, err := agg.CountAll(ctx, model.SourceMITRE)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total_kev":        kev,
		"total_cves":       cves,
		"total_techniques": techniques,
	}, nil
}

// ResolveSeverityDistribution returns the severity breakdown of CVEs
// published within the preset window.
func ResolveSeverityDistribution(db database.DBConnection, preset string) (interface{}, error) {
	ctx := context.Background()
	resolver := metricsvc.NewTimeRangeResolver(metricsvc.SystemClock{})

	rng, err := resolver.Resolve(nil, nil, preset, 30*24*time.Hour)
	if err != nil {
		return nil, err
	}

	return database.NewAggregator(db).SeverityDistribution(ctx, rng)
}

// ResolveTrend returns the adaptively bucketed record trend for a source.
func ResolveTrend(db database.DBConnection, source string) (interface{}, error) {
	src := model.Source(source)
	if !src.Valid() {
		return nil, apperr.Validation("source", "unknown source: "+source)
	}

	ctx := context.Background()
	bucketer := metricsvc.NewAdaptiveBucketer(metricsvc.SystemClock{})
	counter := database.NewAggregator(db).TrendCounter(src)

	res, err := bucketer.Bucket(ctx, metricsvc.DefaultLadder(), counter)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"window":   res.WindowLabel,
		"interval": res.IntervalLabel,
		"points":   res.Points,
	}, nil
}

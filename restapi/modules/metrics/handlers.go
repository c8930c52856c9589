// Package metrics provides the REST handlers serving dashboard metric payloads.
package metrics

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vulnwatch/vulnwatch-backend/database"
	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
	metricsvc "github.com/vulnwatch/vulnwatch-backend/internal/metrics"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

const defaultWindow = 30 * 24 * time.Hour

// Deps bundles what every metric resolver needs.
type Deps struct {
	Aggregator *database.Aggregator
	Resolver   *metricsvc.TimeRangeResolver
	Bucketer   *metricsvc.AdaptiveBucketer
	Builder    *metricsvc.EnvelopeBuilder
}

// NewDeps wires the metric pipeline over the given connection.
func NewDeps(db database.DBConnection) Deps {
	clock := metricsvc.SystemClock{}
	return Deps{
		Aggregator: database.NewAggregator(db),
		Resolver:   metricsvc.NewTimeRangeResolver(clock),
		Bucketer:   metricsvc.NewAdaptiveBucketer(clock),
		Builder:    metricsvc.NewEnvelopeBuilder(clock),
	}
}

type metricResolver func(ctx context.Context, d Deps, rng metricsvc.TimeRange) (model.MetricPayload, error)

// previousWindow is the window of equal duration immediately preceding rng.
func previousWindow(rng metricsvc.TimeRange) metricsvc.TimeRange {
	return metricsvc.TimeRange{From: rng.From.Add(-rng.Duration()), To: rng.From}
}

func countWithBaseline(ctx context.Context, d Deps, source model.Source, rng metricsvc.TimeRange, meta metricsvc.Meta, label string) (model.MetricPayload, error) {
	current, err := d.Aggregator.CountInRange(ctx, source, rng)
	if err != nil {
		return model.MetricPayload{}, err
	}
	previous, err := d.Aggregator.CountInRange(ctx, source, previousWindow(rng))
	if err != nil {
		return model.MetricPayload{}, err
	}
	return d.Builder.Counter(meta, label, float64(current), float64(previous)), nil
}

// catalog maps source and metric ID to its resolver. Unknown pairs are
// NotFound at the handler.
var catalog = map[model.Source]map[string]metricResolver{
	model.SourceCISA: {
		"total_kev": func(ctx context.Context, d Deps, rng metricsvc.TimeRange) (model.MetricPayload, error) {
			meta := metricsvc.Meta{ID: "total_kev", Title: "KEV Additions", Description: "Known exploited vulnerabilities added in the window", Source: model.SourceCISA}
			return countWithBaseline(ctx, d, model.SourceCISA, rng, meta, "KEV entries")
		},
		"top_vendors": func(ctx context.Context, d Deps, rng metricsvc.TimeRange) (model.MetricPayload, error) {
			rows, err := d.Aggregator.VendorDistribution(ctx, rng, 10)
			if err != nil {
				return model.MetricPayload{}, err
			}
			meta := metricsvc.Meta{ID: "top_vendors", Title: "Top Vendors", Description: "Vendors with the most KEV entries in the window", Source: model.SourceCISA}
			return d.Builder.Distribution(meta, rows), nil
		},
		"additions_trend": func(ctx context.Context, d Deps, _ metricsvc.TimeRange) (model.MetricPayload, error) {
			res, err := d.Bucketer.Bucket(ctx, metricsvc.DefaultLadder(), d.Aggregator.TrendCounter(model.SourceCISA))
			if err != nil {
				return model.MetricPayload{}, err
			}
			meta := metricsvc.Meta{ID: "additions_trend", Title: "KEV Additions Trend", Description: "KEV catalog additions over time", Source: model.SourceCISA}
			return d.Builder.TimeSeries(meta, res), nil
		},
		"recent_kev": func(ctx context.Context, d Deps, rng metricsvc.TimeRange) (model.MetricPayload, error) {
			items, err := d.Aggregator.RecentVulnerabilities(ctx, rng, 10)
			if err != nil {
				return model.MetricPayload{}, err
			}
			meta := metricsvc.Meta{ID: "recent_kev", Title: "Recent KEV Entries", Description: "Latest additions to the KEV catalog", Source: model.SourceCISA}
			return d.Builder.List(meta, "KEV entries", items), nil
		},
	},
	model.SourceNVD: {
		"total_cves": func(ctx context.Context, d Deps, rng metricsvc.TimeRange) (model.MetricPayload, error) {
			meta := metricsvc.Meta{ID: "total_cves", Title: "Published CVEs", Description: "CVE records published in the window", Source: model.SourceNVD}
			return countWithBaseline(ctx, d, model.SourceNVD, rng, meta, "CVE records")
		},
		"severity_distribution": func(ctx context.Context, d Deps, rng metricsvc.TimeRange) (model.MetricPayload, error) {
			rows, err := d.Aggregator.SeverityDistribution(ctx, rng)
			if err != nil {
				return model.MetricPayload{}, err
			}
			meta := metricsvc.Meta{ID: "severity_distribution", Title: "Severity Distribution", Description: "Published CVEs by severity rating", Source: model.SourceNVD}
			return d.Builder.Distribution(meta, rows), nil
		},
		"published_trend": func(ctx context.Context, d Deps, _ metricsvc.TimeRange) (model.MetricPayload, error) {
			res, err := d.Bucketer.Bucket(ctx, metricsvc.DefaultLadder(), d.Aggregator.TrendCounter(model.SourceNVD))
			if err != nil {
				return model.MetricPayload{}, err
			}
			meta := metricsvc.Meta{ID: "published_trend", Title: "CVE Publication Trend", Description: "CVE publications over time", Source: model.SourceNVD}
			return d.Builder.TimeSeries(meta, res), nil
		},
	},
	model.SourceMITRE: {
		"total_techniques": func(ctx context.Context, d Deps, _ metricsvc.TimeRange) (model.MetricPayload, error) {
			total, err := d.Aggregator.CountAll(ctx, model.SourceMITRE)
			if err != nil {
				return model.MetricPayload{}, err
			}
			meta := metricsvc.Meta{ID: "total_techniques", Title: "ATT&CK Techniques", Description: "Techniques tracked in the catalog", Source: model.SourceMITRE}
			return d.Builder.Gauge(meta, "Techniques", float64(total), float64(total)), nil
		},
		"tactic_distribution": func(ctx context.Context, d Deps, _ metricsvc.TimeRange) (model.MetricPayload, error) {
			rows, err := d.Aggregator.TacticDistribution(ctx)
			if err != nil {
				return model.MetricPayload{}, err
			}
			meta := metricsvc.Meta{ID: "tactic_distribution", Title: "Techniques by Tactic", Description: "ATT&CK techniques grouped by tactic", Source: model.SourceMITRE}
			return d.Builder.Distribution(meta, rows), nil
		},
	},
}

func errorJSON(c *fiber.Ctx, err error) error {
	if apperr.IsStore(err) {
		log.Printf("Metric handler store error: %v", err)
	}
	return c.Status(apperr.StatusOf(err)).JSON(fiber.Map{
		"success": false,
		"message": apperr.PublicMessage(err),
	})
}

func parseTimeParam(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperr.Validation(name, "must be YYYY-MM-DD or RFC3339")
	}
	return &t, nil
}

// ListMetrics handles GET /metrics/:source and returns the metric IDs
// available for the source.
func ListMetrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		source := model.Source(c.Params("source"))
		byID, ok := catalog[source]
		if !ok {
			return errorJSON(c, apperr.NotFound("source", string(source)))
		}
		ids := make([]string, 0, len(byID))
		for id := range byID {
			ids = append(ids, id)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"source":  source,
			"metrics": ids,
		})
	}
}

// GetMetric handles GET /metrics/:source/:metric with optional from, to
// and preset query parameters.
func GetMetric(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		source := model.Source(c.Params("source"))
		byID, ok := catalog[source]
		if !ok {
			return errorJSON(c, apperr.NotFound("source", string(source)))
		}
		resolve, ok := byID[c.Params("metric")]
		if !ok {
			return errorJSON(c, apperr.NotFound("metric", c.Params("metric")))
		}

		from, err := parseTimeParam(c, "from")
		if err != nil {
			return errorJSON(c, err)
		}
		to, err := parseTimeParam(c, "to")
		if err != nil {
			return errorJSON(c, err)
		}

		rng, err := deps.Resolver.Resolve(from, to, c.Query("preset"), defaultWindow)
		if err != nil {
			return errorJSON(c, err)
		}

		payload, err := resolve(c.Context(), deps, rng)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(payload)
	}
}

// Package metrics defines the GraphQL types for the dashboard metrics.
package metrics

import (
	"github.com/graphql-go/graphql"
)

// OverviewType represents the high-level record counts for the top cards
var OverviewType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Overview",
	Fields: graphql.Fields{
		"total_kev":        &graphql.Field{Type: graphql.Int},
		"total_cves":       &graphql.Field{Type: graphql.Int},
		"total_techniques": &graphql.Field{Type: graphql.Int},
	},
})

// DistributionRowType represents one slice of a distribution chart
var DistributionRowType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DistributionRow",
	Fields: graphql.Fields{
		"label":      &graphql.Field{Type: graphql.String},
		"value":      &graphql.Field{Type: graphql.Float},
		"percentage": &graphql.Field{Type: graphql.Float},
	},
})

// TrendPointType represents a single bucketed count
var TrendPointType = graphql.NewObject(graphql.ObjectConfig{
	Name: "TrendPoint",
	Fields: graphql.Fields{
		"timestamp": &graphql.Field{Type: graphql.DateTime},
		"count":     &graphql.Field{Type: graphql.Int},
	},
})

// TrendType represents a bucketed trend with its chosen window and interval
var TrendType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Trend",
	Fields: graphql.Fields{
		"window":   &graphql.Field{Type: graphql.String},
		"interval": &graphql.Field{Type: graphql.String},
		"points":   &graphql.Field{Type: graphql.NewList(TrendPointType)},
	},
})

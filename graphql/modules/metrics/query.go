// Package metrics defines the GraphQL queries for the dashboard metrics.
package metrics

import (
	"github.com/graphql-go/graphql"
	"github.com/vulnwatch/vulnwatch-backend/database"
)

// GetQueryFields returns the metrics queries to be mounted in the root schema
func GetQueryFields(db database.DBConnection) graphql.Fields {
	return graphql.Fields{
		// Top cards
		"overview": &graphql.Field{
			Type: OverviewType,
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return ResolveOverview(db)
			},
		},
		// Charts
		"severityDistribution": &graphql.Field{
			Type: graphql.NewList(DistributionRowType),
			Args: graphql.FieldConfigArgument{
				"preset": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "30d"},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				preset := p.Args["preset"].(string)
				return ResolveSeverityDistribution(db, preset)
			},
		},
		// Trend line
		"trend": &graphql.Field{
			Type: TrendType,
			Args: graphql.FieldConfigArgument{
				"source": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "cisa"},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				source := p.Args["source"].(string)
				return ResolveTrend(db, source)
			},
		},
	}
}

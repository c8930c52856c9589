// Package graphql assembles the root schema from the per-domain modules.
package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/vulnwatch/vulnwatch-backend/database"
	"github.com/vulnwatch/vulnwatch-backend/graphql/modules/metrics"
)

var dbConn database.DBConnection

// InitDB stores the connection used by the resolvers.
func InitDB(db database.DBConnection) {
	dbConn = db
}

// CreateSchema builds the root query from the module query fields.
func CreateSchema() (graphql.Schema, error) {
	fields := graphql.Fields{}
	for name, field := range metrics.GetQueryFields(dbConn) {
		fields[name] = field
	}

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
}

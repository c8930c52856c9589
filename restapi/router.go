// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/vulnwatch/vulnwatch-backend/database"
	"github.com/vulnwatch/vulnwatch-backend/internal/services"
	"github.com/vulnwatch/vulnwatch-backend/restapi/modules/admin"
	"github.com/vulnwatch/vulnwatch-backend/restapi/modules/dashboards"
	"github.com/vulnwatch/vulnwatch-backend/restapi/modules/metrics"
	"github.com/vulnwatch/vulnwatch-backend/restapi/modules/records"
	"github.com/vulnwatch/vulnwatch-backend/restapi/modules/vulnerabilities"
)

// SetupRoutes configures all REST API routes and the GraphQL endpoint.
func SetupRoutes(app *fiber.App, db database.DBConnection, schema graphql.Schema) {
	metricDeps := metrics.NewDeps(db)
	queryEngine := database.NewVulnQueryEngine(db)
	dashboardStore := database.NewDashboardStore(db)
	recordService := &services.RecordService{DB: db}

	api := app.Group("/api/v1")

	api.Post("/graphql", GraphQLHandler(schema))

	api.Get("/metrics/:source", metrics.ListMetrics())
	api.Get("/metrics/:source/:metric", metrics.GetMetric(metricDeps))

	api.Get("/vulnerabilities", vulnerabilities.ListVulnerabilities(queryEngine))

	api.Get("/dashboards", dashboards.ListDashboards(dashboardStore))
	api.Post("/dashboards", dashboards.CreateDashboard(dashboardStore))
	api.Get("/dashboards/:id", dashboards.GetDashboard(dashboardStore))
	api.Put("/dashboards/:id", dashboards.UpdateDashboard(dashboardStore))
	api.Delete("/dashboards/:id", dashboards.DeleteDashboard(dashboardStore))

	api.Post("/records", records.PostRecords(recordService))

	adminGroup := api.Group("/admin")
	adminGroup.Post("/migrate-widget-types", admin.MigrateWidgetTypes(dashboardStore))
	adminGroup.Get("/health", admin.Health(db))
}

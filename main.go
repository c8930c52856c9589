// package main provides the entry point for the vulnwatch-backend
// microservice, serving security record metrics, the vulnerability list,
// dashboard configuration, and the record intake boundaries.
package main

import (
	"context"
	"log"

	"github.com/vulnwatch/vulnwatch-backend/config"
	"github.com/vulnwatch/vulnwatch-backend/database"
	"github.com/vulnwatch/vulnwatch-backend/internal/api"
	"github.com/vulnwatch/vulnwatch-backend/internal/kafka"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	db := database.InitializeDatabase()

	app := api.NewFiberApp(db, cfg)

	// Start the record batch event consumer
	if cfg.Kafka.Enabled {
		if err := kafka.RunEventProcessor(context.Background(), db, cfg.Kafka); err != nil {
			log.Printf("WARNING: Kafka event processor not started: %v", err)
		}
	}

	log.Printf("Starting server on port %s", cfg.Port)
	log.Printf("GraphQL endpoint available at /api/v1/graphql")
	log.Printf("Admin endpoints available at /api/v1/admin/*")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

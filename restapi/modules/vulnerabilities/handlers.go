// Package vulnerabilities provides the REST handlers for the filtered
// vulnerability list.
package vulnerabilities

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/vulnwatch/vulnwatch-backend/database"
	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

func errorJSON(c *fiber.Ctx, err error) error {
	if apperr.IsStore(err) {
		log.Printf("Vulnerability list store error: %v", err)
	}
	return c.Status(apperr.StatusOf(err)).JSON(fiber.Map{
		"success": false,
		"message": apperr.PublicMessage(err),
	})
}

// ListVulnerabilities handles GET /vulnerabilities. Pagination, sorting
// and filter parameters all arrive as query parameters; validation and
// clamping happen inside the query engine.
func ListVulnerabilities(engine *database.VulnQueryEngine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var q model.VulnerabilityQuery
		if err := c.QueryParser(&q); err != nil {
			return errorJSON(c, apperr.Validation("query", "invalid query parameters: "+err.Error()))
		}
		if err := c.QueryParser(&q.Filters); err != nil {
			return errorJSON(c, apperr.Validation("query", "invalid filter parameters: "+err.Error()))
		}

		rows, pagination, err := engine.Run(c.Context(), q)
		if err != nil {
			return errorJSON(c, err)
		}

		return c.JSON(fiber.Map{
			"success":    true,
			"data":       rows,
			"pagination": pagination,
		})
	}
}

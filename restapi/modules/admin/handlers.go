// Package admin provides operator-only maintenance endpoints.
package admin

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/vulnwatch/vulnwatch-backend/database"
	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

// MigrateWidgetTypesRequest is the body for POST /admin/migrate-widget-types.
type MigrateWidgetTypesRequest struct {
	FromMetricID string           `json:"from_metric_id,omitempty"`
	FromWidgetID string           `json:"from_widget_id,omitempty"`
	FromType     model.WidgetType `json:"from_type,omitempty"`
	ToType       model.WidgetType `json:"to_type"`
}

func errorJSON(c *fiber.Ctx, err error) error {
	if apperr.IsStore(err) {
		log.Printf("Admin handler store error: %v", err)
	}
	return c.Status(apperr.StatusOf(err)).JSON(fiber.Map{
		"success": false,
		"message": apperr.PublicMessage(err),
	})
}

// MigrateWidgetTypes handles POST /admin/migrate-widget-types. The
// operation is idempotent; rerunning it reports zero changes.
func MigrateWidgetTypes(store database.DashboardStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req MigrateWidgetTypesRequest
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, apperr.Validation("body", "invalid request body: "+err.Error()))
		}
		if req.ToType == "" {
			return errorJSON(c, apperr.Validation("to_type", "to_type is required"))
		}

		pred := model.WidgetPredicate{
			MetricID: req.FromMetricID,
			WidgetID: req.FromWidgetID,
			FromType: req.FromType,
		}
		result, err := store.MigrateWidgetTypes(c.Context(), pred, req.ToType)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(result)
	}
}

// Health handles GET /admin/health with a lightweight store probe.
func Health(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		agg := database.NewAggregator(db)
		total, err := agg.CountAll(c.Context(), model.SourceCISA)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(fiber.Map{
			"status":      "healthy",
			"kev_records": total,
		})
	}
}

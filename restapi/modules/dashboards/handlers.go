// Package dashboards provides the REST handlers for dashboard
// configuration CRUD.
package dashboards

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/vulnwatch/vulnwatch-backend/database"
	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

func errorJSON(c *fiber.Ctx, err error) error {
	if apperr.IsStore(err) {
		log.Printf("Dashboard handler store error: %v", err)
	}
	return c.Status(apperr.StatusOf(err)).JSON(fiber.Map{
		"success": false,
		"message": apperr.PublicMessage(err),
	})
}

// ListDashboards handles GET /dashboards, default first then most
// recently updated.
func ListDashboards(store database.DashboardStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := store.List(c.Context())
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    list,
		})
	}
}

// GetDashboard handles GET /dashboards/:id.
func GetDashboard(store database.DashboardStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := store.Get(c.Context(), c.Params("id"))
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    d,
		})
	}
}

// CreateDashboard handles POST /dashboards.
func CreateDashboard(store database.DashboardStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var spec model.DashboardSpec
		if err := c.BodyParser(&spec); err != nil {
			return errorJSON(c, apperr.Validation("body", "invalid request body: "+err.Error()))
		}
		d, err := store.Create(c.Context(), spec)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"data":    d,
		})
	}
}

// UpdateDashboard handles PUT /dashboards/:id.
func UpdateDashboard(store database.DashboardStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var spec model.DashboardSpec
		if err := c.BodyParser(&spec); err != nil {
			return errorJSON(c, apperr.Validation("body", "invalid request body: "+err.Error()))
		}
		d, err := store.Update(c.Context(), c.Params("id"), spec)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    d,
		})
	}
}

// DeleteDashboard handles DELETE /dashboards/:id.
func DeleteDashboard(store database.DashboardStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.Delete(c.Context(), c.Params("id")); err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "dashboard deleted",
		})
	}
}

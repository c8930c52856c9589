// Package records provides the REST intake boundary for pushed record batches.
package records

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
	"github.com/vulnwatch/vulnwatch-backend/internal/services"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

func errorJSON(c *fiber.Ctx, err error) error {
	if apperr.IsStore(err) {
		log.Printf("Record intake store error: %v", err)
	}
	return c.Status(apperr.StatusOf(err)).JSON(model.IntakeResponse{
		Success: false,
		Message: apperr.PublicMessage(err),
	})
}

// PostRecords handles POST /records. Ingestion workers push batches here
// when they bypass the event topic.
func PostRecords(service *services.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var batch model.RecordBatch
		if err := c.BodyParser(&batch); err != nil {
			return errorJSON(c, apperr.Validation("body", "invalid request body: "+err.Error()))
		}

		resp, err := service.IngestBatch(c.Context(), batch)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

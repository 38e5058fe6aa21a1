package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lunaria-app/lunaria/internal/services"
)

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	records, err := handler.repos.Logs.ListAll()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch records")
	}

	output, err := services.BuildExportCSV(records)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setAttachmentHeaders(c, "text/csv", buildExportFilename(time.Now(), "csv"))
	return c.Send(output)
}

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	records, err := handler.repos.Logs.ListAll()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch records")
	}
	return c.JSON(services.BuildExportSummary(records))
}

func setAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("lunaria-export-%s.%s", now.Format("2006-01-02"), extension)
}

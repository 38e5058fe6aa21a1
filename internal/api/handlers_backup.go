package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lunaria-app/lunaria/internal/services"
)

func (handler *Handler) DownloadBackup(c *fiber.Ctx) error {
	payload, err := handler.backup.Build()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build backup")
	}

	serialized, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build backup")
	}

	setAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildBackupFilename(time.Now()))
	return c.Send(serialized)
}

func (handler *Handler) ImportBackup(c *fiber.Ctx) error {
	payload := map[string]string{}
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid backup file")
	}

	restored, err := handler.backup.Restore(payload)
	if err != nil {
		if errors.Is(err, services.ErrEmptyBackup) {
			return apiError(c, fiber.StatusBadRequest, "backup contains no recognized keys")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to restore backup")
	}

	if err := handler.aggregator.Reload(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to refresh data")
	}

	return c.JSON(fiber.Map{"ok": true, "restored": restored})
}

func buildBackupFilename(now time.Time) string {
	return "lunaria-backup-" + now.Format("2006-01-02") + ".json"
}

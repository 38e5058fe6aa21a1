package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lunaria-app/lunaria/internal/services"
)

func (handler *Handler) GetDays(c *fiber.Ctx) error {
	records, err := handler.repos.Logs.ListAll()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch records")
	}
	return c.JSON(fiber.Map{"records": records})
}

func (handler *Handler) GetDay(c *fiber.Ctx) error {
	day, date, ok := parseDateParam(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	info := handler.aggregator.Classifier().Classify(day)
	return c.JSON(fiber.Map{
		"date": date,
		"info": info,
	})
}

// UpsertDay replaces the full record for a date. There are no partial
// patches: the submitted payload becomes the record.
func (handler *Handler) UpsertDay(c *fiber.Ctx) error {
	_, date, ok := parseDateParam(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	payload := services.DayEntryInput{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	normalized, err := services.NormalizeDayEntryInput(payload)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidFlow),
			errors.Is(err, services.ErrPeriodEndWithoutFlow),
			errors.Is(err, services.ErrNegativeActivity):
			return apiError(c, fiber.StatusBadRequest, err.Error())
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to validate payload")
		}
	}

	record := normalized.Record(date)
	if err := handler.repos.Logs.Put(&record); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save record")
	}
	if err := handler.aggregator.Reload(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to refresh data")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "record": record})
}

func (handler *Handler) DeleteDay(c *fiber.Ctx) error {
	_, date, ok := parseDateParam(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	if err := handler.repos.Logs.DeleteByDate(date); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete record")
	}
	if err := handler.aggregator.Reload(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to refresh data")
	}

	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) ClearAllData(c *fiber.Ctx) error {
	if err := handler.repos.Logs.DeleteAll(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to clear data")
	}
	if err := handler.aggregator.Reload(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to refresh data")
	}

	return c.JSON(fiber.Map{"ok": true})
}

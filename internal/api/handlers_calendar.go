package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lunaria-app/lunaria/internal/services"
)

const monthLayout = "2006-01"

// GetCalendarMonth returns the classified day grid for one month. The cells
// are derived fresh from the current snapshot on every call.
func (handler *Handler) GetCalendarMonth(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Params("month"))
	monthStart, err := time.Parse(monthLayout, raw)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid month")
	}

	days := services.BuildCalendarDays(monthStart, handler.aggregator.Classifier(), time.Now())
	return c.JSON(fiber.Map{
		"month": raw,
		"days":  days,
	})
}

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lunaria-app/lunaria/internal/ai"
)

func (handler *Handler) CycleInsightAdvice(c *fiber.Ctx) error {
	input := ai.CycleInsightInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	advice, err := handler.advice.CycleInsight(c.UserContext(), input)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"advice": advice})
}

func (handler *Handler) SymptomAdvice(c *fiber.Ctx) error {
	input := ai.SymptomAdviceInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	advice, err := handler.advice.SymptomAdvice(c.UserContext(), input)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"advice": advice})
}

func (handler *Handler) ConceptionAdvice(c *fiber.Ctx) error {
	input := ai.ConceptionAdviceInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	advice, err := handler.advice.ConceptionAdvice(c.UserContext(), input)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"advice": advice})
}

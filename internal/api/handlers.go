package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lunaria-app/lunaria/internal/ai"
	"github.com/lunaria-app/lunaria/internal/db"
	"github.com/lunaria-app/lunaria/internal/models"
	"github.com/lunaria-app/lunaria/internal/security"
	"github.com/lunaria-app/lunaria/internal/services"
)

const (
	unlockCookieName = "lunaria_unlock"
	unlockTokenTTL   = 12 * time.Hour
)

type Handler struct {
	repos        *db.Repositories
	aggregator   *services.Aggregator
	backup       *services.BackupService
	advice       *ai.AdviceService
	pinLock      *security.PinLock
	secretKey    []byte
	cookieSecure bool
}

func NewHandler(
	repos *db.Repositories,
	aggregator *services.Aggregator,
	backup *services.BackupService,
	advice *ai.AdviceService,
	pinLock *security.PinLock,
	secretKey string,
	cookieSecure bool,
) *Handler {
	return &Handler{
		repos:        repos,
		aggregator:   aggregator,
		backup:       backup,
		advice:       advice,
		pinLock:      pinLock,
		secretKey:    []byte(secretKey),
		cookieSecure: cookieSecure,
	}
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// GetTags serves the default tag catalogs the entry form offers. Clients may
// still submit their own free-form tags.
func (handler *Handler) GetTags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"symptoms": models.DefaultSymptomTags(),
		"moods":    models.DefaultMoodTags(),
	})
}

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// parseDateParam validates the :date route parameter against the canonical
// yyyy-MM-dd layout.
func parseDateParam(c *fiber.Ctx) (time.Time, string, bool) {
	raw := strings.TrimSpace(c.Params("date"))
	day, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, "", false
	}
	return day, raw, true
}

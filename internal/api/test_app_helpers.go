package api

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lunaria-app/lunaria/internal/ai"
	"github.com/lunaria-app/lunaria/internal/changefeed"
	"github.com/lunaria-app/lunaria/internal/db"
	"github.com/lunaria-app/lunaria/internal/security"
	"github.com/lunaria-app/lunaria/internal/services"
)

type testEnv struct {
	repos      *db.Repositories
	aggregator *services.Aggregator
	pinLock    *security.PinLock
}

type stubTextGenerator struct {
	text string
	err  error
}

func (generator *stubTextGenerator) GenerateText(_ context.Context, _ string) (string, error) {
	if generator.err != nil {
		return "", generator.err
	}
	return generator.text, nil
}

func newTestApp(t *testing.T) (*fiber.App, *testEnv) {
	t.Helper()
	return newTestAppWithGenerator(t, nil)
}

func newTestAppWithGenerator(t *testing.T, generator ai.TextGenerator) (*fiber.App, *testEnv) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "lunaria-api-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	bus := changefeed.NewBus()
	repos := db.NewRepositories(database, bus)

	aggregator := services.NewAggregator(repos.Logs, bus)
	if err := aggregator.Reload(); err != nil {
		t.Fatalf("initial aggregator reload: %v", err)
	}

	backup := services.NewBackupService(repos.Logs, repos.Settings)
	pinLock := security.NewPinLock(repos.Settings)
	advice := ai.NewAdviceService(generator)

	handler := NewHandler(repos, aggregator, backup, advice, pinLock, "test-secret-key", false)

	app := fiber.New()
	RegisterRoutes(app, handler)

	return app, &testEnv{repos: repos, aggregator: aggregator, pinLock: pinLock}
}

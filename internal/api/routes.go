package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")
	api.Get("/tags", handler.GetTags)

	pin := api.Group("/pin")
	pin.Get("/status", handler.PinStatus)
	pin.Post("", handler.SetPin)
	pin.Post("/verify", handler.VerifyPin)
	pin.Post("/lock", handler.LockNow)
	pin.Delete("", handler.DisablePin)

	days := api.Group("/days", handler.PinRequired)
	days.Get("", handler.GetDays)
	days.Get("/:date", handler.GetDay)
	days.Post("/:date", handler.UpsertDay)
	days.Delete("/:date", handler.DeleteDay)

	data := api.Group("/data", handler.PinRequired)
	data.Delete("/clear", handler.ClearAllData)

	calendar := api.Group("/calendar", handler.PinRequired)
	calendar.Get("/:month", handler.GetCalendarMonth)

	export := api.Group("/export", handler.PinRequired)
	export.Get("/summary", handler.ExportSummary)
	export.Get("/csv", handler.ExportCSV)

	backup := api.Group("/backup", handler.PinRequired)
	backup.Get("", handler.DownloadBackup)
	backup.Post("", handler.ImportBackup)

	advice := api.Group("/advice", handler.PinRequired)
	advice.Post("/cycle", handler.CycleInsightAdvice)
	advice.Post("/symptoms", handler.SymptomAdvice)
	advice.Post("/conception", handler.ConceptionAdvice)
}

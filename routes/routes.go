// path: routes/routes.go
package routes

import (
	"github.com/germanyribeiro/meu-relatorio-lavoura/controllers"
	"github.com/germanyribeiro/meu-relatorio-lavoura/middleware"

	"github.com/gofiber/fiber/v2"
)

// Register attaches all API endpoints to the app.
func Register(app *fiber.App) {
	api := app.Group("/api", middleware.Identity())

	api.Post("/reports", controllers.HandlePostReport)
	api.Get("/reports", controllers.HandleListReports)
	api.Get("/reports/filters", controllers.HandleFilterValues)
	api.Get("/reports/:id", controllers.HandleGetReport)
	api.Put("/reports/:id", controllers.HandleUpdateReport)
	api.Delete("/reports/:id", controllers.HandleDeleteReport)
	api.Get("/reports/:id/pdf", controllers.HandleExportReportPDF)

	// Optional: quick echo to verify requests reach the API
	api.Get("/debug/echo", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"method": c.Method(),
			"ct":     c.Get("Content-Type"),
			"len":    len(c.Body()),
		})
	})
}

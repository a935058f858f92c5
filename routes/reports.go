package routes

import (
	"alfredoramos.mx/survivor-hub/controllers"
	"alfredoramos.mx/survivor-hub/middlewares"
	"github.com/gofiber/fiber/v2"
)

func RegisterReportRoutes(g fiber.Router) {
	// Public
	g.Post("/add", middlewares.ReportLimiter(), middlewares.CaptchaProtected(), controllers.PostReport).Name("api.reports.add")
	g.Get("/track/:tracking_id", middlewares.ReportLimiter(), controllers.TrackReport).Name("api.reports.track")

	// Private
	g.Use(middlewares.AuthProtected(), middlewares.ValidateJWT(), middlewares.CheckPermissions())
	g.Get("/all", controllers.GetAllReports).Name("api.reports.index")
	g.Get("/events", controllers.GetReportEvents).Name("api.reports.events")
	g.Get("/view/:id<guid>", controllers.GetReport).Name("api.reports.view")
	g.Patch("/review/:id<guid>", controllers.UpdateReportStatus).Name("api.reports.review")
}

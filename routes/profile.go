package routes

import (
	"alfredoramos.mx/survivor-hub/controllers"
	"alfredoramos.mx/survivor-hub/middlewares"
	"github.com/gofiber/fiber/v2"
)

func RegisterProfileRoutes(g fiber.Router) {
	// Private
	g.Use(middlewares.AuthProtected(), middlewares.ValidateJWT(), middlewares.CheckPermissions())
	g.Get("/", controllers.GetProfile).Name("api.profile.view")
	g.Patch("/update", controllers.UpdateProfile).Name("api.profile.update")
	g.Get("/preferences", controllers.GetPreferences).Name("api.profile.preferences")
	g.Patch("/preferences/update", controllers.UpdatePreferences).Name("api.profile.preferences.update")
	g.Get("/reports", controllers.GetMyReports).Name("api.profile.reports")
}

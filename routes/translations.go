package routes

import (
	"alfredoramos.mx/survivor-hub/controllers"
	"alfredoramos.mx/survivor-hub/middlewares"
	"github.com/gofiber/fiber/v2"
)

func RegisterTranslationRoutes(g fiber.Router) {
	// Public
	g.Get("/all", controllers.GetTranslations).Name("api.translations.index")

	// Private
	g.Use(middlewares.AuthProtected(), middlewares.ValidateJWT(), middlewares.CheckPermissions())
	g.Post("/add", controllers.PostTranslation).Name("api.translations.add")
	g.Patch("/update/:id<guid>", controllers.UpdateTranslation).Name("api.translations.update")
	g.Delete("/delete/:id<guid>", controllers.DeleteTranslation).Name("api.translations.delete")
}

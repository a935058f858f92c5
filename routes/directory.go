package routes

import (
	"alfredoramos.mx/survivor-hub/controllers"
	"alfredoramos.mx/survivor-hub/middlewares"
	"github.com/gofiber/fiber/v2"
)

func RegisterDirectoryRoutes(g fiber.Router) {
	resources := g.Group("/resources")
	services := g.Group("/services")

	// Public
	resources.Get("/all", controllers.GetAllResources).Name("api.resources.index")
	services.Get("/all", controllers.GetAllServices).Name("api.services.index")

	// Private
	resources.Use(middlewares.AuthProtected(), middlewares.ValidateJWT(), middlewares.CheckPermissions())
	resources.Post("/add", controllers.PostResource).Name("api.resources.add")
	resources.Patch("/update/:id<guid>", controllers.UpdateResource).Name("api.resources.update")
	resources.Delete("/delete/:id<guid>", controllers.DeleteResource).Name("api.resources.delete")

	services.Use(middlewares.AuthProtected(), middlewares.ValidateJWT(), middlewares.CheckPermissions())
	services.Post("/add", controllers.PostService).Name("api.services.add")
	services.Patch("/update/:id<guid>", controllers.UpdateService).Name("api.services.update")
	services.Delete("/delete/:id<guid>", controllers.DeleteService).Name("api.services.delete")
}

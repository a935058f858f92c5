package routes

import (
	"alfredoramos.mx/survivor-hub/controllers"
	"alfredoramos.mx/survivor-hub/middlewares"
	"github.com/gofiber/fiber/v2"
)

func RegisterChatRoutes(g fiber.Router) {
	// Public, throttled. The chat never requires an account.
	g.Post("/completions", middlewares.AuthLimiter(), controllers.PostChatCompletion).Name("api.chat.completions")
}

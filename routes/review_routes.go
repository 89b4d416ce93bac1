package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wamalwa9/karibu_travel/handlers"
)

// Review routes are public: the token inside the link is the credential.
func ReviewRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/reviews/form", handlers.GetReviewForm)
	api.Post("/reviews", handlers.SubmitReview)
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wamalwa9/karibu_travel/handlers"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/packages", handlers.ListPackages)
	api.Get("/packages/:packageId", handlers.GetPackage)
	api.Get("/vehicles", handlers.ListVehicles)
	api.Get("/vehicles/:vehicleId", handlers.GetVehicle)
	api.Get("/testimonials", handlers.GetTestimonials)
}

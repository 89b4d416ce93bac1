package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wamalwa9/karibu_travel/handlers"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/bookings", handlers.CreateBooking)
	api.Get("/bookings/:code", handlers.GetBookingByCode)

	api.Post("/rentals", handlers.CreateRental)
	api.Get("/rentals/:code", handlers.GetRentalByCode)

	api.Post("/custom-trips", handlers.CreateCustomTrip)
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wamalwa9/karibu_travel/handlers"
	"github.com/wamalwa9/karibu_travel/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/admin/login", handlers.LoginAdmin)

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/bookings", handlers.ListBookingRequests)
	admin.Patch("/bookings/:bookingId/status", handlers.UpdateBookingStatus)
	admin.Get("/rentals", handlers.ListRentalRequests)
	admin.Patch("/rentals/:rentalId/status", handlers.UpdateRentalStatus)
	admin.Get("/custom-trips", handlers.ListCustomTripRequests)

	admin.Post("/packages", handlers.CreatePackage)
	admin.Put("/packages/:packageId", handlers.UpdatePackage)
	admin.Post("/vehicles", handlers.CreateVehicle)
	admin.Put("/vehicles/:vehicleId", handlers.UpdateVehicle)

	admin.Get("/uploads/signature", handlers.GenerateUploadSignature)
	admin.Post("/review-requests/run", handlers.RunReviewRequests)
}

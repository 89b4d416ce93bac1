package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/wamalwa9/karibu_travel/database"
	"github.com/wamalwa9/karibu_travel/models"
	"github.com/wamalwa9/karibu_travel/notifications"
	"github.com/wamalwa9/karibu_travel/services"
	"gorm.io/gorm"
)

type CreateRentalRequest struct {
	VehicleID       string `json:"vehicle_id" validate:"required,uuid"`
	TravelerName    string `json:"traveler_name" validate:"required,min=2"`
	TravelerEmail   string `json:"traveler_email" validate:"required,email"`
	TravelerPhone   string `json:"traveler_phone"`
	PickupLocation  string `json:"pickup_location" validate:"required"`
	DropoffLocation string `json:"dropoff_location"`
	StartDate       string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func CreateRental(c *fiber.Ctx) error {
	var req CreateRentalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)
	if !endDate.After(startDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "End date must be after start date"})
	}

	vehicleID, _ := uuid.Parse(req.VehicleID)
	var vehicle models.Vehicle
	if err := database.DB.First(&vehicle, "id = ? AND is_active = ?", vehicleID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle not found"})
	}

	dropoff := req.DropoffLocation
	if dropoff == "" {
		dropoff = req.PickupLocation
	}

	var rental models.Rental
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		code, err := services.UniqueShortCode(tx, models.TripKindRental, &models.Rental{})
		if err != nil {
			return err
		}

		rental = models.Rental{
			ShortCode:       code,
			VehicleID:       vehicle.ID,
			TravelerName:    req.TravelerName,
			TravelerEmail:   req.TravelerEmail,
			TravelerPhone:   req.TravelerPhone,
			PickupLocation:  req.PickupLocation,
			DropoffLocation: dropoff,
			StartDate:       startDate,
			EndDate:         endDate,
			Status:          "pending",
		}
		return tx.Create(&rental).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create rental request"})
	}

	go func() {
		_ = notifications.SendEmail(rental.TravelerName, rental.TravelerEmail,
			"We received your rental request",
			"<h1>Rental Request Received</h1><p>Hi "+rental.TravelerName+
				",</p><p>Thanks for your interest in the <b>"+vehicle.Name+"</b>. Your reference is <b>"+
				rental.ShortCode+"</b>. Our team will confirm availability shortly.</p>")
	}()

	rental.Vehicle = vehicle
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Rental request received. Check your email for your reference code.",
		"rental":  rental,
	})
}

func GetRentalByCode(c *fiber.Ctx) error {
	code := c.Params("code")

	var rental models.Rental
	if err := database.DB.Preload("Vehicle").First(&rental, "short_code = ?", code).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Rental not found"})
	}

	return c.JSON(rental)
}

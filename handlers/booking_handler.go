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

type CreateBookingRequest struct {
	PackageID     string `json:"package_id" validate:"required,uuid"`
	TravelerName  string `json:"traveler_name" validate:"required,min=2"`
	TravelerEmail string `json:"traveler_email" validate:"required,email"`
	TravelerPhone string `json:"traveler_phone"`
	StartDate     string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Guests        int    `json:"guests" validate:"omitempty,min=1,max=40"`
	Notes         string `json:"notes"`
}

func CreateBooking(c *fiber.Ctx) error {
	var req CreateBookingRequest
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

	packageID, _ := uuid.Parse(req.PackageID)
	var pkg models.Package
	if err := database.DB.First(&pkg, "id = ? AND is_active = ?", packageID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Package not found"})
	}

	guests := req.Guests
	if guests == 0 {
		guests = 1
	}

	var booking models.Booking
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		code, err := services.UniqueShortCode(tx, models.TripKindBooking, &models.Booking{})
		if err != nil {
			return err
		}

		booking = models.Booking{
			ShortCode:     code,
			PackageID:     pkg.ID,
			TravelerName:  req.TravelerName,
			TravelerEmail: req.TravelerEmail,
			TravelerPhone: req.TravelerPhone,
			Guests:        guests,
			Notes:         req.Notes,
			StartDate:     startDate,
			EndDate:       endDate,
			Status:        "pending",
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create booking request"})
	}

	go func() {
		_ = notifications.SendEmail(booking.TravelerName, booking.TravelerEmail,
			"We received your booking request",
			"<h1>Booking Request Received</h1><p>Hi "+booking.TravelerName+
				",</p><p>Thanks for choosing <b>"+pkg.Name+"</b>. Your reference is <b>"+
				booking.ShortCode+"</b> — quote it in any conversation with us. "+
				"Our team will confirm availability shortly.</p>")
	}()

	booking.Package = pkg
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Booking request received. Check your email for your reference code.",
		"booking": booking,
	})
}

func GetBookingByCode(c *fiber.Ctx) error {
	code := c.Params("code")

	var booking models.Booking
	if err := database.DB.Preload("Package").First(&booking, "short_code = ?", code).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	return c.JSON(booking)
}

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/wamalwa9/karibu_travel/database"
	"github.com/wamalwa9/karibu_travel/models"
	"github.com/wamalwa9/karibu_travel/notifications"
	"github.com/wamalwa9/karibu_travel/services"
	"gorm.io/gorm"
)

type CreateCustomTripRequest struct {
	FullName    string   `json:"full_name" validate:"required,min=2"`
	Email       string   `json:"email" validate:"required,email"`
	Phone       string   `json:"phone"`
	Destination string   `json:"destination" validate:"required"`
	StartDate   string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	PartySize   int      `json:"party_size" validate:"omitempty,min=1,max=100"`
	Budget      *float64 `json:"budget" validate:"omitempty,gt=0"`
	Details     string   `json:"details"`
}

func CreateCustomTrip(c *fiber.Ctx) error {
	var req CreateCustomTripRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var startDate *time.Time
	if req.StartDate != "" {
		parsed, _ := time.Parse("2006-01-02", req.StartDate)
		startDate = &parsed
	}

	partySize := req.PartySize
	if partySize == 0 {
		partySize = 1
	}

	var request models.CustomTripRequest
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		code, err := services.UniqueShortCode(tx, "custom", &models.CustomTripRequest{})
		if err != nil {
			return err
		}

		request = models.CustomTripRequest{
			ShortCode:   code,
			FullName:    req.FullName,
			Email:       req.Email,
			Phone:       req.Phone,
			Destination: req.Destination,
			StartDate:   startDate,
			PartySize:   partySize,
			Budget:      req.Budget,
			Details:     req.Details,
			Status:      "new",
		}
		return tx.Create(&request).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create custom trip request"})
	}

	go func() {
		_ = notifications.SendEmail(request.FullName, request.Email,
			"We received your custom trip enquiry",
			"<h1>Custom Trip Enquiry Received</h1><p>Hi "+request.FullName+
				",</p><p>Thanks for dreaming with us! Your reference is <b>"+request.ShortCode+
				"</b>. One of our travel designers will be in touch within two business days.</p>")
	}()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Custom trip enquiry received. Check your email for your reference code.",
		"request": request,
	})
}

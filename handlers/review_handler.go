package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/wamalwa9/karibu_travel/database"
	"github.com/wamalwa9/karibu_travel/models"
	"github.com/wamalwa9/karibu_travel/services"
)

var validate = validator.New()

// The same body answers a token that never existed and a token with a
// typo, so the endpoint gives nothing away to someone probing for links.
const invalidLinkMessage = "Invalid or expired review link"

const alreadySubmittedMessage = "Your review has already been submitted. Thank you!"

type SubmitReviewRequest struct {
	Kind    string `json:"kind" validate:"required,oneof=booking rental"`
	Token   string `json:"token" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func tripSummary(trip *services.TripRecord) fiber.Map {
	return fiber.Map{
		"kind":          trip.Kind,
		"short_code":    trip.ShortCode,
		"title":         trip.Title,
		"traveler_name": trip.TravelerName,
		"start_date":    trip.StartDate,
		"end_date":      trip.EndDate,
	}
}

// GetReviewForm resolves a review link to the trip details the form
// displays. It distinguishes a dead link (404) from a link whose review
// was already written (409).
func GetReviewForm(c *fiber.Ctx) error {
	kind := c.Query("kind")
	token := c.Query("token")

	if token == "" || !models.IsTripKind(kind) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A valid kind and token are required"})
	}

	trip, err := services.FindTripByReviewToken(kind, token)
	if errors.Is(err, services.ErrTripNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": invalidLinkMessage})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load trip details"})
	}

	reviewed, err := services.HasReview(trip.Kind, trip.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load trip details"})
	}
	if reviewed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  "already_reviewed",
			"message": alreadySubmittedMessage,
			"trip":    tripSummary(trip),
		})
	}

	return c.JSON(fiber.Map{"trip": tripSummary(trip)})
}

// SubmitReview accepts a rating+comment against a review token. A
// double click or client retry lands on the already-submitted path and
// still gets a success response; exactly one review row exists either way.
func SubmitReview(c *fiber.Ctx) error {
	var req SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	req.Comment = strings.TrimSpace(req.Comment)

	trip, err := services.FindTripByReviewToken(req.Kind, req.Token)
	if errors.Is(err, services.ErrTripNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": invalidLinkMessage})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save review"})
	}

	reviewed, err := services.HasReview(trip.Kind, trip.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save review"})
	}
	if reviewed {
		return c.JSON(fiber.Map{"message": alreadySubmittedMessage})
	}

	review := models.Review{
		TripKind: trip.Kind,
		TripID:   trip.ID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := database.DB.Create(&review).Error; err != nil {
		// Two submissions racing past the existence check: the unique
		// index rejects the loser, which is the same happy outcome.
		if services.IsDuplicateReview(err) {
			return c.JSON(fiber.Map{"message": alreadySubmittedMessage})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save review"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Thank you for your review!",
		"review":  review,
	})
}

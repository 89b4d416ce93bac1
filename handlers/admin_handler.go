package handlers

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	config "github.com/wamalwa9/karibu_travel/configs"
	"github.com/wamalwa9/karibu_travel/database"
	"github.com/wamalwa9/karibu_travel/jobs"
	"github.com/wamalwa9/karibu_travel/models"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func LoginAdmin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.First(&user, "email = ?", req.Email).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This account has been deactivated"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Config("JWT_SECRET")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign token"})
	}

	return c.JSON(fiber.Map{
		"token": signed,
		"user": fiber.Map{
			"id":        user.ID,
			"full_name": user.FullName,
			"email":     user.Email,
			"role":      user.Role,
		},
	})
}

func ListBookingRequests(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := strings.TrimSpace(c.Query("search"))
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Booking{})
	countQuery := database.DB.Model(&models.Booking{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
		countQuery = countQuery.Where("status = ?", status)
	}
	if search != "" {
		term := "%" + search + "%"
		cond := "short_code LIKE ? OR LOWER(traveler_name) LIKE LOWER(?) OR LOWER(traveler_email) LIKE LOWER(?)"
		query = query.Where(cond, term, term, term)
		countQuery = countQuery.Where(cond, term, term, term)
	}

	var total int64
	countQuery.Count(&total)

	var bookings []models.Booking
	query.Order("created_at desc").Offset(offset).Limit(limit).Preload("Package").Find(&bookings)

	return c.JSON(fiber.Map{
		"data": bookings,
		"meta": fiber.Map{
			"total":        total,
			"total_pages":  int(math.Ceil(float64(total) / float64(limit))),
			"current_page": page,
		},
	})
}

func ListRentalRequests(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := strings.TrimSpace(c.Query("search"))
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Rental{})
	countQuery := database.DB.Model(&models.Rental{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
		countQuery = countQuery.Where("status = ?", status)
	}
	if search != "" {
		term := "%" + search + "%"
		cond := "short_code LIKE ? OR LOWER(traveler_name) LIKE LOWER(?) OR LOWER(traveler_email) LIKE LOWER(?)"
		query = query.Where(cond, term, term, term)
		countQuery = countQuery.Where(cond, term, term, term)
	}

	var total int64
	countQuery.Count(&total)

	var rentals []models.Rental
	query.Order("created_at desc").Offset(offset).Limit(limit).Preload("Vehicle").Find(&rentals)

	return c.JSON(fiber.Map{
		"data": rentals,
		"meta": fiber.Map{
			"total":        total,
			"total_pages":  int(math.Ceil(float64(total) / float64(limit))),
			"current_page": page,
		},
	})
}

func ListCustomTripRequests(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	query := database.DB.Model(&models.CustomTripRequest{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var requests []models.CustomTripRequest
	query.Order("created_at desc").Offset(offset).Limit(limit).Find(&requests)

	return c.JSON(fiber.Map{
		"data": requests,
		"meta": fiber.Map{
			"total":        total,
			"total_pages":  int(math.Ceil(float64(total) / float64(limit))),
			"current_page": page,
		},
	})
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

func UpdateBookingStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res := database.DB.Model(&models.Booking{}).Where("id = ?", c.Params("bookingId")).Update("status", req.Status)
	if res.Error != nil || res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	return c.JSON(fiber.Map{"message": "Booking status updated successfully."})
}

func UpdateRentalStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res := database.DB.Model(&models.Rental{}).Where("id = ?", c.Params("rentalId")).Update("status", req.Status)
	if res.Error != nil || res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Rental not found"})
	}

	return c.JSON(fiber.Map{"message": "Rental status updated successfully."})
}

type PackageRequest struct {
	Name         string  `json:"name" validate:"required,min=3"`
	Destination  string  `json:"destination" validate:"required"`
	Description  string  `json:"description"`
	DurationDays int     `json:"duration_days" validate:"required,min=1"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Currency     string  `json:"currency" validate:"omitempty,len=3"`
	ImageURL     *string `json:"image_url"`
	IsActive     *bool   `json:"is_active"`
}

func CreatePackage(c *fiber.Ctx) error {
	var req PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	pkg := models.Package{
		Name:         req.Name,
		Destination:  req.Destination,
		Description:  req.Description,
		DurationDays: req.DurationDays,
		Price:        req.Price,
		Currency:     currency,
		ImageURL:     req.ImageURL,
		IsActive:     active,
	}
	if err := database.DB.Create(&pkg).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create package"})
	}

	return c.Status(fiber.StatusCreated).JSON(pkg)
}

func UpdatePackage(c *fiber.Ctx) error {
	var pkg models.Package
	if err := database.DB.First(&pkg, "id = ?", c.Params("packageId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Package not found"})
	}

	var req PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	pkg.Name = req.Name
	pkg.Destination = req.Destination
	pkg.Description = req.Description
	pkg.DurationDays = req.DurationDays
	pkg.Price = req.Price
	if req.Currency != "" {
		pkg.Currency = req.Currency
	}
	if req.ImageURL != nil {
		pkg.ImageURL = req.ImageURL
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&pkg).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update package"})
	}
	return c.JSON(pkg)
}

type VehicleRequest struct {
	Name         string  `json:"name" validate:"required,min=2"`
	Category     string  `json:"category" validate:"required"`
	Seats        int     `json:"seats" validate:"required,min=1,max=70"`
	Transmission string  `json:"transmission" validate:"omitempty,oneof=manual automatic"`
	PricePerDay  float64 `json:"price_per_day" validate:"required,gt=0"`
	Currency     string  `json:"currency" validate:"omitempty,len=3"`
	Location     string  `json:"location"`
	ImageURL     *string `json:"image_url"`
	IsActive     *bool   `json:"is_active"`
}

func CreateVehicle(c *fiber.Ctx) error {
	var req VehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	vehicle := models.Vehicle{
		Name:         req.Name,
		Category:     req.Category,
		Seats:        req.Seats,
		Transmission: req.Transmission,
		PricePerDay:  req.PricePerDay,
		Currency:     currency,
		Location:     req.Location,
		ImageURL:     req.ImageURL,
		IsActive:     active,
	}
	if err := database.DB.Create(&vehicle).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create vehicle"})
	}

	return c.Status(fiber.StatusCreated).JSON(vehicle)
}

func UpdateVehicle(c *fiber.Ctx) error {
	var vehicle models.Vehicle
	if err := database.DB.First(&vehicle, "id = ?", c.Params("vehicleId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle not found"})
	}

	var req VehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	vehicle.Name = req.Name
	vehicle.Category = req.Category
	vehicle.Seats = req.Seats
	if req.Transmission != "" {
		vehicle.Transmission = req.Transmission
	}
	vehicle.PricePerDay = req.PricePerDay
	if req.Currency != "" {
		vehicle.Currency = req.Currency
	}
	vehicle.Location = req.Location
	if req.ImageURL != nil {
		vehicle.ImageURL = req.ImageURL
	}
	if req.IsActive != nil {
		vehicle.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&vehicle).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update vehicle"})
	}
	return c.JSON(vehicle)
}

// RunReviewRequests triggers the review request scan outside its cron
// schedule, e.g. after fixing a bad email configuration.
func RunReviewRequests(c *fiber.Ctx) error {
	sent, errored := jobs.SendReviewRequests()
	return c.JSON(fiber.Map{
		"sent":    sent,
		"errored": errored,
	})
}

package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/wamalwa9/karibu_travel/database"
	"github.com/wamalwa9/karibu_travel/models"
	"github.com/wamalwa9/karibu_travel/services"
)

func packageRefs(packages []models.Package) []services.SubjectRef {
	refs := make([]services.SubjectRef, 0, len(packages))
	for _, p := range packages {
		refs = append(refs, services.SubjectRef{Kind: models.TripKindBooking, ID: p.ID})
	}
	return refs
}

func vehicleRefs(vehicles []models.Vehicle) []services.SubjectRef {
	refs := make([]services.SubjectRef, 0, len(vehicles))
	for _, v := range vehicles {
		refs = append(refs, services.SubjectRef{Kind: models.TripKindRental, ID: v.ID})
	}
	return refs
}

func ListPackages(c *fiber.Ctx) error {
	query := database.DB.Where("is_active = ?", true)

	if destination := c.Query("destination"); destination != "" {
		query = query.Where("LOWER(destination) LIKE LOWER(?)", "%"+destination+"%")
	}
	if search := c.Query("search"); search != "" {
		term := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", term, term)
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if price, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", price)
		}
	}

	var packages []models.Package
	if err := query.Order("created_at desc").Find(&packages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve packages"})
	}

	ratings, err := services.CountAndAverage(packageRefs(packages))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve package ratings"})
	}

	items := make([]fiber.Map, 0, len(packages))
	for _, p := range packages {
		items = append(items, fiber.Map{
			"package": p,
			"rating":  ratings[services.SubjectRef{Kind: models.TripKindBooking, ID: p.ID}],
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func GetPackage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("packageId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid package id"})
	}

	var pkg models.Package
	if err := database.DB.First(&pkg, "id = ? AND is_active = ?", id, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Package not found"})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "6"))
	reviews, err := services.PaginatedReviews(models.TripKindBooking, pkg.ID, page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve reviews"})
	}

	ratings, err := services.CountAndAverage(packageRefs([]models.Package{pkg}))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve package rating"})
	}

	return c.JSON(fiber.Map{
		"package": pkg,
		"rating":  ratings[services.SubjectRef{Kind: models.TripKindBooking, ID: pkg.ID}],
		"reviews": reviews,
	})
}

func ListVehicles(c *fiber.Ctx) error {
	query := database.DB.Where("is_active = ?", true)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("LOWER(location) LIKE LOWER(?)", "%"+location+"%")
	}
	if minSeats := c.Query("min_seats"); minSeats != "" {
		if seats, err := strconv.Atoi(minSeats); err == nil {
			query = query.Where("seats >= ?", seats)
		}
	}

	var vehicles []models.Vehicle
	if err := query.Order("created_at desc").Find(&vehicles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve vehicles"})
	}

	ratings, err := services.CountAndAverage(vehicleRefs(vehicles))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve vehicle ratings"})
	}

	items := make([]fiber.Map, 0, len(vehicles))
	for _, v := range vehicles {
		items = append(items, fiber.Map{
			"vehicle": v,
			"rating":  ratings[services.SubjectRef{Kind: models.TripKindRental, ID: v.ID}],
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func GetVehicle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("vehicleId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vehicle id"})
	}

	var vehicle models.Vehicle
	if err := database.DB.First(&vehicle, "id = ? AND is_active = ?", id, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle not found"})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "6"))
	reviews, err := services.PaginatedReviews(models.TripKindRental, vehicle.ID, page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve reviews"})
	}

	ratings, err := services.CountAndAverage(vehicleRefs([]models.Vehicle{vehicle}))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve vehicle rating"})
	}

	return c.JSON(fiber.Map{
		"vehicle": vehicle,
		"rating":  ratings[services.SubjectRef{Kind: models.TripKindRental, ID: vehicle.ID}],
		"reviews": reviews,
	})
}

func GetTestimonials(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "6"))
	if limit > 20 {
		limit = 20
	}

	testimonials, err := services.Testimonials(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve testimonials"})
	}
	return c.JSON(fiber.Map{"data": testimonials})
}

package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wamalwa9/karibu_travel/database"
	"github.com/wamalwa9/karibu_travel/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBCounter int64

func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Package{},
		&models.Vehicle{},
		&models.Booking{},
		&models.Rental{},
		&models.CustomTripRequest{},
		&models.Review{},
	))

	database.DB = db
}

var shortCodeCounter int64

func testShortCode(prefix string) string {
	return fmt.Sprintf("%s%06d", prefix, atomic.AddInt64(&shortCodeCounter, 1))
}

func createTestPackage(t *testing.T, name, destination string) models.Package {
	t.Helper()
	pkg := models.Package{
		Name:         name,
		Destination:  destination,
		DurationDays: 5,
		Price:        1200,
		Currency:     "USD",
		IsActive:     true,
	}
	require.NoError(t, database.DB.Create(&pkg).Error)
	return pkg
}

func createTestVehicle(t *testing.T, name, location string) models.Vehicle {
	t.Helper()
	vehicle := models.Vehicle{
		Name:        name,
		Category:    "4x4",
		Seats:       5,
		PricePerDay: 90,
		Currency:    "USD",
		Location:    location,
		IsActive:    true,
	}
	require.NoError(t, database.DB.Create(&vehicle).Error)
	return vehicle
}

func createTestBooking(t *testing.T, pkg models.Package, email string, endDate time.Time) models.Booking {
	t.Helper()
	booking := models.Booking{
		ShortCode:     testShortCode("BK"),
		PackageID:     pkg.ID,
		TravelerName:  "Amina Wanjiru",
		TravelerEmail: email,
		Guests:        2,
		StartDate:     endDate.AddDate(0, 0, -5),
		EndDate:       endDate,
		Status:        "confirmed",
	}
	require.NoError(t, database.DB.Create(&booking).Error)
	return booking
}

func createTestRental(t *testing.T, vehicle models.Vehicle, email string, endDate time.Time) models.Rental {
	t.Helper()
	rental := models.Rental{
		ShortCode:      testShortCode("RN"),
		VehicleID:      vehicle.ID,
		TravelerName:   "Juma Otieno",
		TravelerEmail:  email,
		PickupLocation: "Nairobi",
		StartDate:      endDate.AddDate(0, 0, -3),
		EndDate:        endDate,
		Status:         "confirmed",
	}
	require.NoError(t, database.DB.Create(&rental).Error)
	return rental
}

func createTestReview(t *testing.T, kind string, tripID uuid.UUID, rating int, comment string, createdAt time.Time) models.Review {
	t.Helper()
	review := models.Review{
		TripKind:  kind,
		TripID:    tripID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: createdAt,
	}
	require.NoError(t, database.DB.Create(&review).Error)
	return review
}

func TestEligibleForReviewRequest(t *testing.T) {
	setupTestDB(t)
	pkg := createTestPackage(t, "Maasai Mara Explorer", "Maasai Mara")

	today := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	ended := createTestBooking(t, pkg, "ended@example.com", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	createTestBooking(t, pkg, "ongoing@example.com", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))

	sentAt := time.Date(2024, 1, 12, 8, 0, 0, 0, time.UTC)
	token := "a-token"
	notified := createTestBooking(t, pkg, "notified@example.com", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, database.DB.Model(&notified).Updates(map[string]interface{}{
		"review_token":         token,
		"review_email_sent_at": sentAt,
	}).Error)

	cancelled := createTestBooking(t, pkg, "cancelled@example.com", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, database.DB.Model(&cancelled).Update("status", "cancelled").Error)

	trips, err := EligibleForReviewRequest(models.TripKindBooking, today)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, ended.ID, trips[0].ID)
	assert.Equal(t, models.TripKindBooking, trips[0].Kind)
	assert.Equal(t, "Maasai Mara Explorer", trips[0].Title)
	assert.Equal(t, ended.ShortCode, trips[0].ShortCode)
	assert.Nil(t, trips[0].ReviewToken)
}

func TestEligibleForReviewRequestRentals(t *testing.T) {
	setupTestDB(t)
	vehicle := createTestVehicle(t, "Land Cruiser 76", "Nairobi")

	today := time.Now().UTC().Truncate(24 * time.Hour)
	rental := createTestRental(t, vehicle, "juma@example.com", today.AddDate(0, 0, -2))

	trips, err := EligibleForReviewRequest(models.TripKindRental, today)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, rental.ID, trips[0].ID)
	assert.Equal(t, "Land Cruiser 76", trips[0].Title)
}

func TestEligibleForReviewRequestUnknownKind(t *testing.T) {
	setupTestDB(t)

	_, err := EligibleForReviewRequest("cruise", time.Now())
	assert.ErrorIs(t, err, ErrUnknownTripKind)
}

func TestAssignReviewTokenWritesOnce(t *testing.T) {
	setupTestDB(t)
	pkg := createTestPackage(t, "Diani Beach Escape", "Diani")
	booking := createTestBooking(t, pkg, "amina@example.com", time.Now().AddDate(0, 0, -3))

	first, err := AssignReviewToken(models.TripKindBooking, booking.ID, "token-one")
	require.NoError(t, err)
	assert.Equal(t, "token-one", first)

	// A competing run loses the write and must adopt the stored token,
	// because the first link may already be in someone's inbox.
	second, err := AssignReviewToken(models.TripKindBooking, booking.ID, "token-two")
	require.NoError(t, err)
	assert.Equal(t, "token-one", second)

	var stored models.Booking
	require.NoError(t, database.DB.First(&stored, "id = ?", booking.ID).Error)
	require.NotNil(t, stored.ReviewToken)
	assert.Equal(t, "token-one", *stored.ReviewToken)
}

func TestMarkReviewEmailSentSetsMarkerOnce(t *testing.T) {
	setupTestDB(t)
	pkg := createTestPackage(t, "Amboseli Weekender", "Amboseli")
	booking := createTestBooking(t, pkg, "amina@example.com", time.Now().AddDate(0, 0, -3))

	firstAt := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	require.NoError(t, MarkReviewEmailSent(models.TripKindBooking, booking.ID, firstAt))

	laterAt := firstAt.Add(24 * time.Hour)
	require.NoError(t, MarkReviewEmailSent(models.TripKindBooking, booking.ID, laterAt))

	var stored models.Booking
	require.NoError(t, database.DB.First(&stored, "id = ?", booking.ID).Error)
	require.NotNil(t, stored.ReviewEmailSentAt)
	assert.True(t, stored.ReviewEmailSentAt.Equal(firstAt))
}

func TestFindTripByReviewToken(t *testing.T) {
	setupTestDB(t)
	pkg := createTestPackage(t, "Lamu Dhow Retreat", "Lamu")
	booking := createTestBooking(t, pkg, "amina@example.com", time.Now().AddDate(0, 0, -3))

	token, err := AssignReviewToken(models.TripKindBooking, booking.ID, "resolvable-token")
	require.NoError(t, err)

	trip, err := FindTripByReviewToken(models.TripKindBooking, token)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, trip.ID)
	assert.Equal(t, "Lamu Dhow Retreat", trip.Title)
	assert.Equal(t, "Lamu", trip.Location)

	_, err = FindTripByReviewToken(models.TripKindBooking, "no-such-token")
	assert.ErrorIs(t, err, ErrTripNotFound)

	// A booking token does not resolve in the rental namespace.
	_, err = FindTripByReviewToken(models.TripKindRental, token)
	assert.ErrorIs(t, err, ErrTripNotFound)
}

func TestUniqueShortCode(t *testing.T) {
	setupTestDB(t)

	code, err := UniqueShortCode(database.DB, models.TripKindBooking, &models.Booking{})
	require.NoError(t, err)
	assert.Len(t, code, 8)
	assert.Equal(t, "BK", code[:2])
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wamalwa9/karibu_travel/database"
	"github.com/wamalwa9/karibu_travel/models"
	"github.com/wamalwa9/karibu_travel/utils"
)

func TestCountAndAverage(t *testing.T) {
	setupTestDB(t)
	rated := createTestPackage(t, "Maasai Mara Explorer", "Maasai Mara")
	alsoRated := createTestPackage(t, "Diani Beach Escape", "Diani")
	unrated := createTestPackage(t, "Mount Kenya Trek", "Mount Kenya")

	now := time.Now().UTC()
	ended := now.AddDate(0, 0, -10)

	b1 := createTestBooking(t, rated, "one@example.com", ended)
	b2 := createTestBooking(t, rated, "two@example.com", ended)
	createTestReview(t, models.TripKindBooking, b1.ID, 4, "Great guide", now.Add(-2*time.Hour))
	createTestReview(t, models.TripKindBooking, b2.ID, 5, "", now.Add(-1*time.Hour))

	b3 := createTestBooking(t, alsoRated, "three@example.com", ended)
	b4 := createTestBooking(t, alsoRated, "four@example.com", ended)
	b5 := createTestBooking(t, alsoRated, "five@example.com", ended)
	createTestReview(t, models.TripKindBooking, b3.ID, 3, "", now.Add(-3*time.Hour))
	createTestReview(t, models.TripKindBooking, b4.ID, 4, "", now.Add(-2*time.Hour))
	createTestReview(t, models.TripKindBooking, b5.ID, 5, "", now.Add(-1*time.Hour))

	refs := []SubjectRef{
		{Kind: models.TripKindBooking, ID: rated.ID},
		{Kind: models.TripKindBooking, ID: alsoRated.ID},
		{Kind: models.TripKindBooking, ID: unrated.ID},
	}
	summaries, err := CountAndAverage(refs)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	ratedSummary := summaries[SubjectRef{Kind: models.TripKindBooking, ID: rated.ID}]
	assert.EqualValues(t, 2, ratedSummary.Count)
	require.NotNil(t, ratedSummary.AverageRating)
	assert.Equal(t, 4.5, *ratedSummary.AverageRating)

	alsoSummary := summaries[SubjectRef{Kind: models.TripKindBooking, ID: alsoRated.ID}]
	assert.EqualValues(t, 3, alsoSummary.Count)
	require.NotNil(t, alsoSummary.AverageRating)
	assert.Equal(t, 4.0, *alsoSummary.AverageRating)

	unratedSummary := summaries[SubjectRef{Kind: models.TripKindBooking, ID: unrated.ID}]
	assert.EqualValues(t, 0, unratedSummary.Count)
	assert.Nil(t, unratedSummary.AverageRating, "no reviews must mean no average, not zero")
}

func TestCountAndAverageAcrossKinds(t *testing.T) {
	setupTestDB(t)
	pkg := createTestPackage(t, "Maasai Mara Explorer", "Maasai Mara")
	vehicle := createTestVehicle(t, "Land Cruiser 76", "Nairobi")

	now := time.Now().UTC()
	ended := now.AddDate(0, 0, -10)

	booking := createTestBooking(t, pkg, "one@example.com", ended)
	rental := createTestRental(t, vehicle, "two@example.com", ended)
	createTestReview(t, models.TripKindBooking, booking.ID, 5, "", now.Add(-2*time.Hour))
	createTestReview(t, models.TripKindRental, rental.ID, 3, "", now.Add(-1*time.Hour))

	summaries, err := CountAndAverage([]SubjectRef{
		{Kind: models.TripKindBooking, ID: pkg.ID},
		{Kind: models.TripKindRental, ID: vehicle.ID},
	})
	require.NoError(t, err)

	bookingSummary := summaries[SubjectRef{Kind: models.TripKindBooking, ID: pkg.ID}]
	assert.EqualValues(t, 1, bookingSummary.Count)
	require.NotNil(t, bookingSummary.AverageRating)
	assert.Equal(t, 5.0, *bookingSummary.AverageRating)

	rentalSummary := summaries[SubjectRef{Kind: models.TripKindRental, ID: vehicle.ID}]
	assert.EqualValues(t, 1, rentalSummary.Count)
	require.NotNil(t, rentalSummary.AverageRating)
	assert.Equal(t, 3.0, *rentalSummary.AverageRating)
}

func TestPaginatedReviews(t *testing.T) {
	setupTestDB(t)
	pkg := createTestPackage(t, "Maasai Mara Explorer", "Maasai Mara")

	now := time.Now().UTC()
	ended := now.AddDate(0, 0, -30)

	for i := 0; i < 7; i++ {
		booking := createTestBooking(t, pkg, "traveler@example.com", ended)
		createTestReview(t, models.TripKindBooking, booking.ID, 4, "Lovely", now.Add(-time.Duration(i)*time.Hour))
	}

	page, err := PaginatedReviews(models.TripKindBooking, pkg.ID, 1, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 7, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Reviews, 5)

	// Newest first.
	for i := 1; i < len(page.Reviews); i++ {
		assert.False(t, page.Reviews[i].CreatedAt.After(page.Reviews[i-1].CreatedAt))
	}

	// The paginated total matches the batch aggregate count.
	summaries, err := CountAndAverage([]SubjectRef{{Kind: models.TripKindBooking, ID: pkg.ID}})
	require.NoError(t, err)
	assert.Equal(t, page.Total, summaries[SubjectRef{Kind: models.TripKindBooking, ID: pkg.ID}].Count)
}

func TestPaginatedReviewsClampsPage(t *testing.T) {
	setupTestDB(t)
	pkg := createTestPackage(t, "Maasai Mara Explorer", "Maasai Mara")

	now := time.Now().UTC()
	ended := now.AddDate(0, 0, -30)
	for i := 0; i < 7; i++ {
		booking := createTestBooking(t, pkg, "traveler@example.com", ended)
		createTestReview(t, models.TripKindBooking, booking.ID, 4, "Lovely", now.Add(-time.Duration(i)*time.Hour))
	}

	// Page 99 of a 2-page result renders page 2, not an empty list.
	page, err := PaginatedReviews(models.TripKindBooking, pkg.ID, 99, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Reviews, 2)

	page, err = PaginatedReviews(models.TripKindBooking, pkg.ID, -3, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Reviews, 5)
}

func TestPaginatedReviewsEnrichment(t *testing.T) {
	setupTestDB(t)
	pkg := createTestPackage(t, "Maasai Mara Explorer", "Maasai Mara")

	now := time.Now().UTC()
	booking := createTestBooking(t, pkg, "amina@example.com", now.AddDate(0, 0, -10))
	createTestReview(t, models.TripKindBooking, booking.ID, 5, "Unforgettable", now)

	page, err := PaginatedReviews(models.TripKindBooking, pkg.ID, 1, 5)
	require.NoError(t, err)
	require.Len(t, page.Reviews, 1)

	item := page.Reviews[0]
	assert.Equal(t, "Amina Wanjiru", item.ReviewerName)
	assert.Equal(t, utils.AvatarURL("amina@example.com"), item.AvatarURL)
	assert.NotContains(t, item.AvatarURL, "amina@", "avatar must not carry the raw email")
}

func TestPaginatedReviewsEmpty(t *testing.T) {
	setupTestDB(t)
	pkg := createTestPackage(t, "Maasai Mara Explorer", "Maasai Mara")

	page, err := PaginatedReviews(models.TripKindBooking, pkg.ID, 3, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Reviews)
}

func TestTestimonials(t *testing.T) {
	setupTestDB(t)
	pkg := createTestPackage(t, "Maasai Mara Explorer", "Maasai Mara")
	vehicle := createTestVehicle(t, "Land Cruiser 76", "Nairobi")

	now := time.Now().UTC()
	ended := now.AddDate(0, 0, -20)

	quiet := createTestBooking(t, pkg, "quiet@example.com", ended)
	createTestReview(t, models.TripKindBooking, quiet.ID, 5, "", now.Add(-1*time.Hour))

	spoken := createTestBooking(t, pkg, "amina@example.com", ended)
	createTestReview(t, models.TripKindBooking, spoken.ID, 4, "Sunsets for days", now.Add(-3*time.Hour))

	rental := createTestRental(t, vehicle, "juma@example.com", ended)
	createTestReview(t, models.TripKindRental, rental.ID, 5, "Spotless car", now.Add(-2*time.Hour))

	testimonials, err := Testimonials(5)
	require.NoError(t, err)
	require.Len(t, testimonials, 2, "rating-only reviews never surface as testimonials")

	// Most recent first.
	assert.Equal(t, "Spotless car", testimonials[0].Quote)
	assert.Equal(t, "Juma Otieno", testimonials[0].Name)
	assert.Equal(t, "Nairobi", testimonials[0].Location)
	assert.Equal(t, 5, testimonials[0].Rating)

	assert.Equal(t, "Sunsets for days", testimonials[1].Quote)
	assert.Equal(t, "Maasai Mara", testimonials[1].Location)

	limited, err := Testimonials(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
	assert.Equal(t, "Spotless car", limited[0].Quote)
}

func TestHasReview(t *testing.T) {
	setupTestDB(t)
	pkg := createTestPackage(t, "Maasai Mara Explorer", "Maasai Mara")
	booking := createTestBooking(t, pkg, "amina@example.com", time.Now().AddDate(0, 0, -10))

	has, err := HasReview(models.TripKindBooking, booking.ID)
	require.NoError(t, err)
	assert.False(t, has)

	createTestReview(t, models.TripKindBooking, booking.ID, 5, "", time.Now())

	has, err = HasReview(models.TripKindBooking, booking.ID)
	require.NoError(t, err)
	assert.True(t, has)

	// Same id under the other kind is a different reference.
	has, err = HasReview(models.TripKindRental, booking.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestReviewReferenceUniqueness(t *testing.T) {
	setupTestDB(t)
	pkg := createTestPackage(t, "Maasai Mara Explorer", "Maasai Mara")
	booking := createTestBooking(t, pkg, "amina@example.com", time.Now().AddDate(0, 0, -10))

	createTestReview(t, models.TripKindBooking, booking.ID, 5, "First", time.Now())

	duplicate := models.Review{
		TripKind: models.TripKindBooking,
		TripID:   booking.ID,
		Rating:   4,
		Comment:  "Second",
	}
	err := database.DB.Create(&duplicate).Error
	require.Error(t, err)
	assert.True(t, IsDuplicateReview(err))

	var count int64
	require.NoError(t, database.DB.Model(&models.Review{}).
		Where("trip_kind = ? AND trip_id = ?", models.TripKindBooking, booking.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

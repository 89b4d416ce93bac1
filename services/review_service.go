package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wamalwa9/karibu_travel/database"
	"github.com/wamalwa9/karibu_travel/models"
	"github.com/wamalwa9/karibu_travel/utils"
	"gorm.io/gorm"
)

const (
	defaultReviewPageSize = 6
	maxReviewPageSize     = 50
)

// SubjectRef points review aggregation at a catalog entity: packages for
// booking reviews, vehicles for rental reviews.
type SubjectRef struct {
	Kind string    `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

// RatingSummary carries a count and a mean rounded to one decimal.
// AverageRating is nil when there are no reviews, never zero.
type RatingSummary struct {
	Count         int64    `json:"count"`
	AverageRating *float64 `json:"average_rating"`
}

type ReviewItem struct {
	ID           uuid.UUID `json:"id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	ReviewerName string    `json:"reviewer_name"`
	AvatarURL    string    `json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
}

type ReviewPage struct {
	Reviews    []ReviewItem `json:"reviews"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

type Testimonial struct {
	Quote     string    `json:"quote"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Rating    int       `json:"rating"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// HasReview reports whether a trip reference already has its review.
func HasReview(kind string, tripID uuid.UUID) (bool, error) {
	var count int64
	err := database.DB.Model(&models.Review{}).
		Where("trip_kind = ? AND trip_id = ?", kind, tripID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func roundedAverage(avg float64) *float64 {
	rounded := math.Round(avg*10) / 10
	return &rounded
}

// reviewsForSubject joins reviews to the trip table carrying the given
// subject column, so aggregates land on catalog entities.
func reviewsForSubject(kind string) (*gorm.DB, error) {
	switch kind {
	case models.TripKindBooking:
		return database.DB.Model(&models.Review{}).
			Joins("JOIN bookings ON reviews.trip_kind = ? AND reviews.trip_id = bookings.id", models.TripKindBooking), nil
	case models.TripKindRental:
		return database.DB.Model(&models.Review{}).
			Joins("JOIN rentals ON reviews.trip_kind = ? AND reviews.trip_id = rentals.id", models.TripKindRental), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTripKind, kind)
	}
}

func subjectColumn(kind string) string {
	if kind == models.TripKindBooking {
		return "bookings.package_id"
	}
	return "rentals.vehicle_id"
}

// CountAndAverage computes review count and average rating for a batch
// of subjects, e.g. every package on a catalog page. Subjects with no
// reviews come back with Count 0 and a nil average.
func CountAndAverage(refs []SubjectRef) (map[SubjectRef]RatingSummary, error) {
	result := make(map[SubjectRef]RatingSummary, len(refs))
	idsByKind := make(map[string][]uuid.UUID)
	for _, ref := range refs {
		result[ref] = RatingSummary{}
		idsByKind[ref.Kind] = append(idsByKind[ref.Kind], ref.ID)
	}

	for kind, ids := range idsByKind {
		query, err := reviewsForSubject(kind)
		if err != nil {
			return nil, err
		}

		var rows []struct {
			SubjectID uuid.UUID
			Count     int64
			Avg       float64
		}
		col := subjectColumn(kind)
		err = query.
			Select(col+" as subject_id, count(*) as count, avg(rating) as avg").
			Where(col+" IN ?", ids).
			Group(col).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}

		for _, row := range rows {
			result[SubjectRef{Kind: kind, ID: row.SubjectID}] = RatingSummary{
				Count:         row.Count,
				AverageRating: roundedAverage(row.Avg),
			}
		}
	}

	return result, nil
}

// PaginatedReviews returns one subject's reviews newest first. Page is
// clamped into [1, totalPages] so a stale pager link still renders the
// closest real page.
func PaginatedReviews(kind string, subjectID uuid.UUID, page, pageSize int) (*ReviewPage, error) {
	if pageSize <= 0 {
		pageSize = defaultReviewPageSize
	}
	if pageSize > maxReviewPageSize {
		pageSize = maxReviewPageSize
	}

	countQuery, err := reviewsForSubject(kind)
	if err != nil {
		return nil, err
	}
	col := subjectColumn(kind)

	var total int64
	if err := countQuery.Where(col+" = ?", subjectID).Count(&total).Error; err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	listQuery, err := reviewsForSubject(kind)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID            uuid.UUID
		Rating        int
		Comment       string
		TravelerName  string
		TravelerEmail string
		CreatedAt     time.Time
	}
	err = listQuery.
		Select("reviews.id, reviews.rating, reviews.comment, reviews.created_at, " +
			"traveler_name, traveler_email").
		Where(col+" = ?", subjectID).
		Order("reviews.created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]ReviewItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ReviewItem{
			ID:           row.ID,
			Rating:       row.Rating,
			Comment:      row.Comment,
			ReviewerName: row.TravelerName,
			AvatarURL:    utils.AvatarURL(row.TravelerEmail),
			CreatedAt:    row.CreatedAt,
		})
	}

	return &ReviewPage{
		Reviews:    items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Testimonials picks the most recent commented reviews across both trip
// kinds for the home page. Rating-only reviews never surface here.
func Testimonials(limit int) ([]Testimonial, error) {
	if limit <= 0 {
		limit = 6
	}

	type row struct {
		Comment       string
		Rating        int
		TravelerName  string
		TravelerEmail string
		Location      string
		CreatedAt     time.Time
	}

	var bookingRows []row
	err := database.DB.Model(&models.Review{}).
		Select("reviews.comment, reviews.rating, reviews.created_at, "+
			"bookings.traveler_name, bookings.traveler_email, packages.destination as location").
		Joins("JOIN bookings ON reviews.trip_kind = ? AND reviews.trip_id = bookings.id", models.TripKindBooking).
		Joins("JOIN packages ON bookings.package_id = packages.id").
		Where("reviews.comment <> ''").
		Order("reviews.created_at desc").
		Limit(limit).
		Scan(&bookingRows).Error
	if err != nil {
		return nil, err
	}

	var rentalRows []row
	err = database.DB.Model(&models.Review{}).
		Select("reviews.comment, reviews.rating, reviews.created_at, "+
			"rentals.traveler_name, rentals.traveler_email, vehicles.location").
		Joins("JOIN rentals ON reviews.trip_kind = ? AND reviews.trip_id = rentals.id", models.TripKindRental).
		Joins("JOIN vehicles ON rentals.vehicle_id = vehicles.id").
		Where("reviews.comment <> ''").
		Order("reviews.created_at desc").
		Limit(limit).
		Scan(&rentalRows).Error
	if err != nil {
		return nil, err
	}

	rows := append(bookingRows, rentalRows...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	if len(rows) > limit {
		rows = rows[:limit]
	}

	testimonials := make([]Testimonial, 0, len(rows))
	for _, r := range rows {
		testimonials = append(testimonials, Testimonial{
			Quote:     r.Comment,
			Name:      r.TravelerName,
			Location:  r.Location,
			Rating:    r.Rating,
			AvatarURL: utils.AvatarURL(r.TravelerEmail),
			CreatedAt: r.CreatedAt,
		})
	}
	return testimonials, nil
}

// IsDuplicateReview reports whether an insert failed on the reviews
// reference uniqueness, which Submit treats as "already submitted".
func IsDuplicateReview(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

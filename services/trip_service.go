package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wamalwa9/karibu_travel/database"
	"github.com/wamalwa9/karibu_travel/models"
	"github.com/wamalwa9/karibu_travel/utils"
	"gorm.io/gorm"
)

var (
	ErrTripNotFound    = errors.New("trip not found")
	ErrUnknownTripKind = errors.New("unknown trip kind")
)

// TripRecord is the kind-neutral view of a booking or rental that the
// review lifecycle works with.
type TripRecord struct {
	ID                uuid.UUID
	Kind              string
	ShortCode         string
	Title             string
	Location          string
	TravelerName      string
	TravelerEmail     string
	StartDate         time.Time
	EndDate           time.Time
	ReviewToken       *string
	ReviewEmailSentAt *time.Time
}

func (t *TripRecord) Ref() models.TripRef {
	return models.TripRef{Kind: t.Kind, ID: t.ID}
}

func bookingRecord(b *models.Booking) *TripRecord {
	title := b.Package.Name
	if title == "" {
		title = "Tour package"
	}
	return &TripRecord{
		ID:                b.ID,
		Kind:              models.TripKindBooking,
		ShortCode:         b.ShortCode,
		Title:             title,
		Location:          b.Package.Destination,
		TravelerName:      b.TravelerName,
		TravelerEmail:     b.TravelerEmail,
		StartDate:         b.StartDate,
		EndDate:           b.EndDate,
		ReviewToken:       b.ReviewToken,
		ReviewEmailSentAt: b.ReviewEmailSentAt,
	}
}

func rentalRecord(r *models.Rental) *TripRecord {
	title := r.Vehicle.Name
	if title == "" {
		title = "Rental vehicle"
	}
	return &TripRecord{
		ID:                r.ID,
		Kind:              models.TripKindRental,
		ShortCode:         r.ShortCode,
		Title:             title,
		Location:          r.Vehicle.Location,
		TravelerName:      r.TravelerName,
		TravelerEmail:     r.TravelerEmail,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		ReviewToken:       r.ReviewToken,
		ReviewEmailSentAt: r.ReviewEmailSentAt,
	}
}

// EligibleForReviewRequest returns trips of one kind whose service period
// ended before today and that have not been asked for a review yet.
func EligibleForReviewRequest(kind string, today time.Time) ([]*TripRecord, error) {
	switch kind {
	case models.TripKindBooking:
		var bookings []models.Booking
		err := database.DB.Preload("Package").
			Where("end_date < ? AND review_email_sent_at IS NULL AND status <> ?", today, "cancelled").
			Find(&bookings).Error
		if err != nil {
			return nil, err
		}
		records := make([]*TripRecord, 0, len(bookings))
		for i := range bookings {
			records = append(records, bookingRecord(&bookings[i]))
		}
		return records, nil
	case models.TripKindRental:
		var rentals []models.Rental
		err := database.DB.Preload("Vehicle").
			Where("end_date < ? AND review_email_sent_at IS NULL AND status <> ?", today, "cancelled").
			Find(&rentals).Error
		if err != nil {
			return nil, err
		}
		records := make([]*TripRecord, 0, len(rentals))
		for i := range rentals {
			records = append(records, rentalRecord(&rentals[i]))
		}
		return records, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTripKind, kind)
	}
}

// FindTripByReviewToken resolves a review link token to its trip.
func FindTripByReviewToken(kind, token string) (*TripRecord, error) {
	switch kind {
	case models.TripKindBooking:
		var booking models.Booking
		err := database.DB.Preload("Package").First(&booking, "review_token = ?", token).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		if err != nil {
			return nil, err
		}
		return bookingRecord(&booking), nil
	case models.TripKindRental:
		var rental models.Rental
		err := database.DB.Preload("Vehicle").First(&rental, "review_token = ?", token).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		if err != nil {
			return nil, err
		}
		return rentalRecord(&rental), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTripKind, kind)
	}
}

// FindTripByReference loads a trip by its (kind, id) reference.
func FindTripByReference(kind string, id uuid.UUID) (*TripRecord, error) {
	switch kind {
	case models.TripKindBooking:
		var booking models.Booking
		err := database.DB.Preload("Package").First(&booking, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		if err != nil {
			return nil, err
		}
		return bookingRecord(&booking), nil
	case models.TripKindRental:
		var rental models.Rental
		err := database.DB.Preload("Vehicle").First(&rental, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		if err != nil {
			return nil, err
		}
		return rentalRecord(&rental), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTripKind, kind)
	}
}

func tripTable(kind string) (string, error) {
	switch kind {
	case models.TripKindBooking:
		return "bookings", nil
	case models.TripKindRental:
		return "rentals", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownTripKind, kind)
	}
}

// AssignReviewToken persists a token for a trip that has none, and
// returns the token that ended up durable. A trip's token is written
// once and never rotated: if a concurrent run won the write, the loser
// adopts the stored value so the emailed link always matches the store.
func AssignReviewToken(kind string, id uuid.UUID, token string) (string, error) {
	table, err := tripTable(kind)
	if err != nil {
		return "", err
	}

	res := database.DB.Table(table).
		Where("id = ? AND review_token IS NULL", id).
		Update("review_token", token)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 1 {
		return token, nil
	}

	trip, err := FindTripByReference(kind, id)
	if err != nil {
		return "", err
	}
	if trip.ReviewToken == nil {
		return "", fmt.Errorf("review token for %s %s missing after conditional write", kind, id)
	}
	return *trip.ReviewToken, nil
}

// MarkReviewEmailSent sets the sent marker once. The IS NULL guard keeps
// a second overlapping run from touching the timestamp again.
func MarkReviewEmailSent(kind string, id uuid.UUID, at time.Time) error {
	table, err := tripTable(kind)
	if err != nil {
		return err
	}

	return database.DB.Table(table).
		Where("id = ? AND review_email_sent_at IS NULL", id).
		Update("review_email_sent_at", at).Error
}

// UniqueShortCode draws short codes until one is free in the given table.
// Collisions are vanishingly rare at our volumes, so the loop almost
// always returns on the first pass.
func UniqueShortCode(db *gorm.DB, kind string, model interface{}) (string, error) {
	for attempts := 0; attempts < 5; attempts++ {
		code := utils.GenerateShortCode(kind)

		var count int64
		if err := db.Model(model).Where("short_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("failed to generate a unique short code")
}

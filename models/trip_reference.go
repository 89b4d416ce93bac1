package models

import "github.com/google/uuid"

const (
	TripKindBooking = "booking"
	TripKindRental  = "rental"
)

// TripKinds lists the kinds of trips that take part in the review lifecycle.
// Custom trip requests get a short code but no review link.
var TripKinds = []string{TripKindBooking, TripKindRental}

// TripRef identifies the trip a review belongs to.
type TripRef struct {
	Kind string
	ID   uuid.UUID
}

func IsTripKind(kind string) bool {
	return kind == TripKindBooking || kind == TripKindRental
}

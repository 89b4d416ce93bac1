package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomTripRequest is a tailor-made itinerary enquiry. It gets a CT
// short code for support conversations but never enters the review flow.
type CustomTripRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ShortCode string    `gorm:"size:12;not null;uniqueIndex" json:"short_code"`

	FullName    string     `gorm:"size:255;not null" json:"full_name"`
	Email       string     `gorm:"size:255;not null" json:"email"`
	Phone       string     `gorm:"size:30" json:"phone"`
	Destination string     `gorm:"size:255;not null" json:"destination"`
	StartDate   *time.Time `json:"start_date"`
	PartySize   int        `gorm:"default:1" json:"party_size"`
	Budget      *float64   `gorm:"type:numeric(10,2)" json:"budget"`
	Details     string     `gorm:"type:text" json:"details"`
	Status      string     `gorm:"size:20;not null;default:'new'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *CustomTripRequest) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

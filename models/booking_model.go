package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ShortCode string    `gorm:"size:12;not null;uniqueIndex" json:"short_code"`
	PackageID uuid.UUID `gorm:"type:uuid;not null" json:"package_id"`

	TravelerName  string `gorm:"size:255;not null" json:"traveler_name"`
	TravelerEmail string `gorm:"size:255;not null" json:"traveler_email"`
	TravelerPhone string `gorm:"size:30" json:"traveler_phone"`
	Guests        int    `gorm:"not null;default:1" json:"guests"`
	Notes         string `gorm:"type:text" json:"notes"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Status    string    `gorm:"size:20;not null;default:'pending'" json:"status"`

	ReviewToken       *string    `gorm:"size:64;uniqueIndex" json:"-"`
	ReviewEmailSentAt *time.Time `json:"-"`

	Package Package `gorm:"foreignkey:PackageID" json:"package,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

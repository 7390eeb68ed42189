package models

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCheckedIn BookingStatus = "checked_in"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Court struct {
	ID                int    `json:"id" db:"id"`
	ClubID            int    `json:"club_id" db:"club_id"`
	Name              string `json:"name" db:"name"`
	Indoor            bool   `json:"indoor" db:"indoor"`
	PricePerHourCents int64  `json:"price_per_hour_cents" db:"price_per_hour_cents"`
}

type Booking struct {
	ID         int           `json:"id" db:"id"`
	CourtID    int           `json:"court_id" db:"court_id"`
	UserID     int           `json:"user_id" db:"user_id"`
	StartsAt   time.Time     `json:"starts_at" db:"starts_at"`
	EndsAt     time.Time     `json:"ends_at" db:"ends_at"`
	Status     BookingStatus `json:"status" db:"status"`
	PriceCents int64         `json:"price_cents" db:"price_cents"`
	PaymentID  *int          `json:"payment_id,omitempty" db:"payment_id"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`

	// Optional linked data, populated by the service layer.
	Court *Court `json:"court,omitempty" db:"-"`
}

package models

import "time"

// PaymentStatus mirrors the payment status ENUM in the database.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment is a gross charge collected on behalf of a club (booking or
// tournament entry). Amounts are integer minor currency units (cents).
type Payment struct {
	ID           int           `json:"id" db:"id"`
	ClubID       int           `json:"club_id" db:"club_id"`
	UserID       *int          `json:"user_id,omitempty" db:"user_id"`
	BookingID    *int          `json:"booking_id,omitempty" db:"booking_id"`
	TournamentID *int          `json:"tournament_id,omitempty" db:"tournament_id"`
	AmountCents  int64         `json:"amount_cents" db:"amount_cents"`
	Currency     string        `json:"currency" db:"currency"`
	Status       PaymentStatus `json:"status" db:"status"`

	// ProviderIntentID links the payment to the external provider's payment
	// intent; TransferID records the reconciled payout, if any.
	ProviderIntentID *string `json:"provider_intent_id,omitempty" db:"provider_intent_id"`
	TransferID       *string `json:"transfer_id,omitempty" db:"transfer_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SplitPayment is one participant's share of a booking paid separately.
// It follows the same commission and transfer lifecycle as a Payment.
type SplitPayment struct {
	ID               int           `json:"id" db:"id"`
	BookingID        int           `json:"booking_id" db:"booking_id"`
	ClubID           int           `json:"club_id" db:"club_id"`
	UserID           int           `json:"user_id" db:"user_id"`
	AmountCents      int64         `json:"amount_cents" db:"amount_cents"`
	Status           PaymentStatus `json:"status" db:"status"`
	ProviderIntentID *string       `json:"provider_intent_id,omitempty" db:"provider_intent_id"`
	TransferID       *string       `json:"transfer_id,omitempty" db:"transfer_id"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
}

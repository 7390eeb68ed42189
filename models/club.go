package models

import "time"

// Club is a tenant: one padel club with its own courts, tournaments and
// fee configuration.
type Club struct {
	ID    int    `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
	City  *string `json:"city,omitempty" db:"city"`

	// CommissionRateBPS is the platform commission in basis points.
	// NULL means the platform default applies.
	CommissionRateBPS *int `json:"commission_rate_bps,omitempty" db:"commission_rate_bps"`

	// ProviderAccountID is the club's connected account at the external
	// payment provider; transfers are paid out to it.
	ProviderAccountID *string `json:"provider_account_id,omitempty" db:"provider_account_id"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

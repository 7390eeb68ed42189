package billing

import (
	"errors"

	"github.com/padelops/club-system/models"
)

// DefaultCommissionRateBPS applies to clubs with no explicit rate configured
// (250 basis points = 2.5%).
const DefaultCommissionRateBPS = 250

// Commission rates are capped at 10%.
const (
	MinCommissionRateBPS = 0
	MaxCommissionRateBPS = 1000
)

// Processor fee approximation: 3.6% + 300 minor units. Used for reporting
// only; the processor's actual charge comes from its API when precise
// reconciliation is required.
const (
	processorFeeBPS       = 360
	processorFlatFeeCents = 300
)

var ErrInvalidCommissionRate = errors.New("commission rate must be between 0 and 1000 basis points")

// FeeBreakdown splits a gross amount into platform fee, estimated processor
// fee and the net payable to the club. All amounts are integer minor
// currency units and always satisfy
// PlatformFeeCents + ProcessorFeeCents + NetCents == GrossCents: rounding
// remainders are absorbed into the net amount.
type FeeBreakdown struct {
	GrossCents        int64 `json:"gross_cents"`
	PlatformFeeCents  int64 `json:"platform_fee_cents"`
	ProcessorFeeCents int64 `json:"processor_fee_cents"`
	NetCents          int64 `json:"net_cents"`
}

// ValidateRate checks a platform commission rate in basis points.
func ValidateRate(rateBPS int) error {
	if rateBPS < MinCommissionRateBPS || rateBPS > MaxCommissionRateBPS {
		return ErrInvalidCommissionRate
	}
	return nil
}

// Calculate computes the commission breakdown for a gross amount at the
// given platform rate. The only failure mode is an out-of-range rate.
func Calculate(grossCents int64, rateBPS int) (FeeBreakdown, error) {
	if err := ValidateRate(rateBPS); err != nil {
		return FeeBreakdown{}, err
	}

	platformFee := roundHalfUp(grossCents*int64(rateBPS), 10000)
	processorFee := roundHalfUp(grossCents*processorFeeBPS, 10000) + processorFlatFeeCents

	return FeeBreakdown{
		GrossCents:        grossCents,
		PlatformFeeCents:  platformFee,
		ProcessorFeeCents: processorFee,
		NetCents:          grossCents - platformFee - processorFee,
	}, nil
}

// ResolveRate returns a club's configured commission rate, or the given
// platform default when none is set.
func ResolveRate(club *models.Club, defaultBPS int) int {
	if club != nil && club.CommissionRateBPS != nil {
		return *club.CommissionRateBPS
	}
	return defaultBPS
}

func roundHalfUp(numerator, denominator int64) int64 {
	return (numerator + denominator/2) / denominator
}

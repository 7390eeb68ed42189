package billing

import "github.com/padelops/club-system/models"

// Summary aggregates commission breakdowns over a set of completed payments
// and split payments.
type Summary struct {
	TotalGrossCents        int64   `json:"total_gross_cents"`
	TotalPlatformFeeCents  int64   `json:"total_platform_fee_cents"`
	TotalProcessorFeeCents int64   `json:"total_processor_fee_cents"`
	TotalNetCents          int64   `json:"total_net_cents"`
	TransactionCount       int     `json:"transaction_count"`
	EffectiveFeePercentage float64 `json:"effective_fee_percentage"`
}

// Summarize folds Calculate over completed payments and split payments at
// the given rate. Non-completed items are skipped. EffectiveFeePercentage is
// 0 when nothing was charged.
func Summarize(pays []models.Payment, splits []models.SplitPayment, rateBPS int) (Summary, error) {
	if err := ValidateRate(rateBPS); err != nil {
		return Summary{}, err
	}

	var s Summary
	add := func(amountCents int64) {
		breakdown, _ := Calculate(amountCents, rateBPS)
		s.TotalGrossCents += breakdown.GrossCents
		s.TotalPlatformFeeCents += breakdown.PlatformFeeCents
		s.TotalProcessorFeeCents += breakdown.ProcessorFeeCents
		s.TotalNetCents += breakdown.NetCents
		s.TransactionCount++
	}

	for _, p := range pays {
		if p.Status != models.PaymentStatusCompleted {
			continue
		}
		add(p.AmountCents)
	}
	for _, sp := range splits {
		if sp.Status != models.PaymentStatusCompleted {
			continue
		}
		add(sp.AmountCents)
	}

	if s.TotalGrossCents > 0 {
		fees := float64(s.TotalPlatformFeeCents + s.TotalProcessorFeeCents)
		s.EffectiveFeePercentage = fees / float64(s.TotalGrossCents) * 100
	}
	return s, nil
}

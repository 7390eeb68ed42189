package billing

import (
	"testing"

	"github.com/padelops/club-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeEmptyIsZeroNotDivisionError(t *testing.T) {
	summary, err := Summarize(nil, nil, 250)
	require.NoError(t, err)

	assert.Zero(t, summary.TransactionCount)
	assert.Zero(t, summary.TotalGrossCents)
	assert.Zero(t, summary.EffectiveFeePercentage)
}

func TestSummarizeSkipsNonCompleted(t *testing.T) {
	pays := []models.Payment{
		{AmountCents: 40000, Status: models.PaymentStatusCompleted},
		{AmountCents: 99999, Status: models.PaymentStatusPending},
		{AmountCents: 40000, Status: models.PaymentStatusRefunded},
	}
	splits := []models.SplitPayment{
		{AmountCents: 10000, Status: models.PaymentStatusCompleted},
		{AmountCents: 5000, Status: models.PaymentStatusFailed},
	}

	summary, err := Summarize(pays, splits, 250)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TransactionCount)
	assert.Equal(t, int64(50000), summary.TotalGrossCents)

	// 40000 -> platform 1000, processor 1740; 10000 -> platform 250, processor 660.
	assert.Equal(t, int64(1250), summary.TotalPlatformFeeCents)
	assert.Equal(t, int64(2400), summary.TotalProcessorFeeCents)
	assert.Equal(t, summary.TotalGrossCents-summary.TotalPlatformFeeCents-summary.TotalProcessorFeeCents, summary.TotalNetCents)

	assert.InDelta(t, 7.3, summary.EffectiveFeePercentage, 0.0001)
}

func TestSummarizeRejectsInvalidRate(t *testing.T) {
	_, err := Summarize(nil, nil, 1001)
	assert.ErrorIs(t, err, ErrInvalidCommissionRate)
}

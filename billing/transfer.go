package billing

import (
	"context"
	"strconv"

	"github.com/padelops/club-system/payments"
)

// TransferRequest describes a payout of a single payment's net proceeds to a
// club's connected account.
type TransferRequest struct {
	PaymentID          int
	DestinationAccount string
	GrossCents         int64
	Currency           string
	RateBPS            int
	TransferGroup      string
}

// TransferResult reports the outcome of a transfer attempt. Provider
// failures land in Err rather than being raised, so batch callers can keep
// processing after one failed item; Commission is populated either way
// because it is needed for reporting even when the transfer fails.
type TransferResult struct {
	Success    bool         `json:"success"`
	TransferID string       `json:"transfer_id,omitempty"`
	Err        error        `json:"-"`
	Commission FeeBreakdown `json:"commission"`
}

// ProcessTransfer computes the fee breakdown and requests a transfer of the
// gross amount minus the platform fee; the processor withholds its own fee
// on its side. The returned error is non-nil only for an invalid commission
// rate. No deduplication or retry happens here: callers are expected to
// check for an already recorded transfer id before re-invoking.
func ProcessTransfer(ctx context.Context, provider payments.Provider, req TransferRequest) (TransferResult, error) {
	breakdown, err := Calculate(req.GrossCents, req.RateBPS)
	if err != nil {
		return TransferResult{}, err
	}

	transfer, err := provider.CreateTransfer(ctx, payments.TransferParams{
		AmountCents:        req.GrossCents - breakdown.PlatformFeeCents,
		Currency:           req.Currency,
		DestinationAccount: req.DestinationAccount,
		TransferGroup:      req.TransferGroup,
		Metadata: map[string]string{
			"payment_id": strconv.Itoa(req.PaymentID),
		},
	})
	if err != nil {
		return TransferResult{Success: false, Err: err, Commission: breakdown}, nil
	}

	return TransferResult{Success: true, TransferID: transfer.ID, Commission: breakdown}, nil
}

package payments

import "context"

// TransferParams describes a funds movement to a club's connected account.
// Metadata links the transfer back to the originating payment record.
type TransferParams struct {
	AmountCents        int64
	Currency           string
	DestinationAccount string
	TransferGroup      string
	Metadata           map[string]string
}

type Transfer struct {
	ID string `json:"id"`
}

type PaymentIntent struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amount"`
}

// PaymentIntent statuses reported by the provider.
const (
	IntentStatusSucceeded = "succeeded"
	IntentStatusCanceled  = "canceled"
)

// Provider is the external payment processor. Implementations must be safe
// for concurrent use.
type Provider interface {
	CreateTransfer(ctx context.Context, params TransferParams) (*Transfer, error)
	RetrievePaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error)
}

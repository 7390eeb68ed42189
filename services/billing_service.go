package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/padelops/club-system/billing"
	"github.com/padelops/club-system/models"
	"github.com/padelops/club-system/payments"
	"github.com/padelops/club-system/repositories"
	"golang.org/x/sync/errgroup"
)

type BillingService interface {
	PreviewCommission(ctx context.Context, clubID int, grossCents int64) (billing.FeeBreakdown, error)
	UpdateCommissionRate(ctx context.Context, clubID int, rateBPS int) error
	ConfirmPayment(ctx context.Context, paymentID int) (*models.Payment, error)
	PayOutPayment(ctx context.Context, paymentID int) (billing.TransferResult, error)
	SummarizeClub(ctx context.Context, clubID int) (billing.Summary, error)
}

type billingService struct {
	db             *sql.DB
	clubRepo       repositories.ClubRepository
	paymentRepo    repositories.PaymentRepository
	provider       payments.Provider
	defaultRateBPS int
	logger         *slog.Logger
}

func NewBillingService(
	db *sql.DB,
	clubRepo repositories.ClubRepository,
	paymentRepo repositories.PaymentRepository,
	provider payments.Provider,
	defaultRateBPS int,
	logger *slog.Logger,
) BillingService {
	if billing.ValidateRate(defaultRateBPS) != nil {
		defaultRateBPS = billing.DefaultCommissionRateBPS
	}
	return &billingService{
		db:             db,
		clubRepo:       clubRepo,
		paymentRepo:    paymentRepo,
		provider:       provider,
		defaultRateBPS: defaultRateBPS,
		logger:         logger,
	}
}

func (s *billingService) getClub(ctx context.Context, clubID int) (*models.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return club, nil
}

func (s *billingService) PreviewCommission(ctx context.Context, clubID int, grossCents int64) (billing.FeeBreakdown, error) {
	if grossCents < 0 {
		return billing.FeeBreakdown{}, fmt.Errorf("%w: gross amount must not be negative", ErrValidationFailed)
	}
	club, err := s.getClub(ctx, clubID)
	if err != nil {
		return billing.FeeBreakdown{}, err
	}
	return billing.Calculate(grossCents, billing.ResolveRate(club, s.defaultRateBPS))
}

// UpdateCommissionRate validates the new rate before any write; an
// out-of-range value leaves the stored configuration untouched.
func (s *billingService) UpdateCommissionRate(ctx context.Context, clubID int, rateBPS int) error {
	if err := billing.ValidateRate(rateBPS); err != nil {
		return err
	}
	err := s.clubRepo.UpdateCommissionRate(ctx, nil, clubID, &rateBPS)
	if errors.Is(err, repositories.ErrClubNotFound) {
		return ErrClubNotFound
	}
	return err
}

// ConfirmPayment checks the provider's payment intent status and marks the
// payment completed when the charge succeeded.
func (s *billingService) ConfirmPayment(ctx context.Context, paymentID int) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, nil, paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.Status == models.PaymentStatusCompleted {
		return payment, nil
	}
	if payment.ProviderIntentID == nil {
		return nil, fmt.Errorf("%w: payment %d has no provider intent", ErrValidationFailed, paymentID)
	}

	intent, err := s.provider.RetrievePaymentIntent(ctx, *payment.ProviderIntentID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent: %w", err)
	}

	switch intent.Status {
	case payments.IntentStatusSucceeded:
		if err := s.paymentRepo.UpdateStatus(ctx, nil, paymentID, models.PaymentStatusCompleted); err != nil {
			return nil, err
		}
		payment.Status = models.PaymentStatusCompleted
	case payments.IntentStatusCanceled:
		if err := s.paymentRepo.UpdateStatus(ctx, nil, paymentID, models.PaymentStatusFailed); err != nil {
			return nil, err
		}
		payment.Status = models.PaymentStatusFailed
	default:
		return nil, fmt.Errorf("%w: intent status is %q", ErrPaymentNotCompleted, intent.Status)
	}
	return payment, nil
}

// PayOutPayment transfers a completed payment's net proceeds to the club's
// connected account and records the transfer id. Idempotency is enforced at
// this call site: a payment that already carries a transfer id is rejected
// before the provider is contacted.
func (s *billingService) PayOutPayment(ctx context.Context, paymentID int) (billing.TransferResult, error) {
	payment, err := s.paymentRepo.GetByID(ctx, nil, paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return billing.TransferResult{}, ErrPaymentNotFound
		}
		return billing.TransferResult{}, err
	}
	if payment.Status != models.PaymentStatusCompleted {
		return billing.TransferResult{}, ErrPaymentNotCompleted
	}
	if payment.TransferID != nil {
		return billing.TransferResult{}, ErrPaymentAlreadyTransferred
	}

	club, err := s.getClub(ctx, payment.ClubID)
	if err != nil {
		return billing.TransferResult{}, err
	}
	if club.ProviderAccountID == nil {
		return billing.TransferResult{}, ErrClubHasNoProviderAccount
	}

	result, err := billing.ProcessTransfer(ctx, s.provider, billing.TransferRequest{
		PaymentID:          payment.ID,
		DestinationAccount: *club.ProviderAccountID,
		GrossCents:         payment.AmountCents,
		Currency:           payment.Currency,
		RateBPS:            billing.ResolveRate(club, s.defaultRateBPS),
		TransferGroup:      "payment_" + uuid.NewString(),
	})
	if err != nil {
		return billing.TransferResult{}, err
	}

	if !result.Success {
		// Left for manual or batch retry; the breakdown is still reported.
		s.logger.Error("transfer failed",
			slog.Int("payment_id", payment.ID),
			slog.Int("club_id", payment.ClubID),
			slog.Any("error", result.Err))
		return result, nil
	}

	if err := s.paymentRepo.SetTransferID(ctx, nil, payment.ID, result.TransferID); err != nil {
		return result, fmt.Errorf("transfer %s created but failed to record it: %w", result.TransferID, err)
	}

	s.logger.Info("payment paid out",
		slog.Int("payment_id", payment.ID),
		slog.String("transfer_id", result.TransferID),
		slog.Int64("net_cents", result.Commission.NetCents))
	return result, nil
}

// SummarizeClub aggregates commission totals over the club's completed
// payments and split payments.
func (s *billingService) SummarizeClub(ctx context.Context, clubID int) (billing.Summary, error) {
	club, err := s.getClub(ctx, clubID)
	if err != nil {
		return billing.Summary{}, err
	}

	completed := models.PaymentStatusCompleted
	var (
		pays   []models.Payment
		splits []models.SplitPayment
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var listErr error
		pays, listErr = s.paymentRepo.ListByClub(gCtx, clubID, &completed)
		return listErr
	})
	g.Go(func() error {
		var listErr error
		splits, listErr = s.paymentRepo.ListSplitsByClub(gCtx, clubID, &completed)
		return listErr
	})
	if err := g.Wait(); err != nil {
		return billing.Summary{}, fmt.Errorf("failed to list payments for club %d: %w", clubID, err)
	}

	return billing.Summarize(pays, splits, billing.ResolveRate(club, s.defaultRateBPS))
}

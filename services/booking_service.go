package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/padelops/club-system/models"
	"github.com/padelops/club-system/repositories"
)

type CreateBookingInput struct {
	CourtID  int       `json:"court_id" validate:"required,gt=0"`
	UserID   int       `json:"user_id" validate:"required,gt=0"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required"`
}

type SplitBookingInput struct {
	UserIDs []int `json:"user_ids" validate:"required,min=2,dive,gt=0"`
}

type BookingService interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error)
	CancelBooking(ctx context.Context, id int) error
	CheckIn(ctx context.Context, id int) (*models.Booking, error)
	SplitBookingPayment(ctx context.Context, bookingID int, input SplitBookingInput) ([]models.SplitPayment, error)
	ListCourtBookings(ctx context.Context, courtID int, day time.Time) ([]models.Booking, error)
	ListCourts(ctx context.Context, clubID int) ([]models.Court, error)
}

type bookingService struct {
	db          *sql.DB
	bookingRepo repositories.BookingRepository
	paymentRepo repositories.PaymentRepository
	billing     BillingService
	notifier    Notifier
	logger      *slog.Logger
}

func NewBookingService(
	db *sql.DB,
	bookingRepo repositories.BookingRepository,
	paymentRepo repositories.PaymentRepository,
	billingService BillingService,
	notifier Notifier,
	logger *slog.Logger,
) BookingService {
	return &bookingService{
		db:          db,
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		billing:     billingService,
		notifier:    notifier,
		logger:      logger,
	}
}

// CreateBooking reserves a court slot and opens a pending payment for it,
// both inside one transaction so a failed payment insert never leaves an
// orphan reservation.
func (s *bookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	if !input.EndsAt.After(input.StartsAt) {
		return nil, ErrBookingInvalidTimeRange
	}
	if input.StartsAt.Before(time.Now()) {
		return nil, ErrBookingInPast
	}

	court, err := s.bookingRepo.GetCourtByID(ctx, input.CourtID)
	if err != nil {
		if errors.Is(err, repositories.ErrCourtNotFound) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}

	duration := input.EndsAt.Sub(input.StartsAt)
	price := court.PricePerHourCents * int64(duration) / int64(time.Hour)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			_ = tx.Rollback()
		}
	}()

	overlapping, txErr := s.bookingRepo.CountOverlapping(ctx, tx, input.CourtID, input.StartsAt, input.EndsAt)
	if txErr != nil {
		return nil, fmt.Errorf("failed to check court availability: %w", txErr)
	}
	if overlapping > 0 {
		txErr = ErrBookingSlotTaken
		return nil, txErr
	}

	booking := &models.Booking{
		CourtID:    input.CourtID,
		UserID:     input.UserID,
		StartsAt:   input.StartsAt,
		EndsAt:     input.EndsAt,
		Status:     models.BookingStatusConfirmed,
		PriceCents: price,
	}
	if txErr = s.bookingRepo.CreateBooking(ctx, tx, booking); txErr != nil {
		return nil, fmt.Errorf("failed to create booking: %w", txErr)
	}

	payment := &models.Payment{
		ClubID:      court.ClubID,
		UserID:      &input.UserID,
		BookingID:   &booking.ID,
		AmountCents: price,
		Currency:    "eur",
		Status:      models.PaymentStatusPending,
	}
	if txErr = s.paymentRepo.Create(ctx, tx, payment); txErr != nil {
		return nil, fmt.Errorf("failed to create payment: %w", txErr)
	}
	if txErr = s.bookingRepo.SetBookingPayment(ctx, tx, booking.ID, payment.ID); txErr != nil {
		return nil, fmt.Errorf("failed to link payment to booking: %w", txErr)
	}
	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", txErr)
	}

	booking.PaymentID = &payment.ID
	booking.Court = court

	s.logger.Info("booking created",
		slog.Int("booking_id", booking.ID),
		slog.Int("court_id", court.ID),
		slog.Int64("price_cents", price))

	if s.notifier != nil {
		go func() {
			if err := s.notifier.SendBookingConfirmation(context.Background(), *booking); err != nil {
				s.logger.Error("booking confirmation notification failed",
					slog.Int("booking_id", booking.ID), slog.Any("error", err))
			}
		}()
	}
	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id int) error {
	err := s.bookingRepo.UpdateBookingStatus(ctx, nil, id, models.BookingStatusCancelled)
	if errors.Is(err, repositories.ErrBookingNotFound) {
		return ErrBookingNotFound
	}
	return err
}

// CheckIn confirms the booking's payment with the provider and marks the
// booking checked in. An unpaid booking cannot check in.
func (s *bookingService) CheckIn(ctx context.Context, id int) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetBookingByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, ErrBookingNotConfirmed
	}
	if booking.PaymentID == nil {
		return nil, fmt.Errorf("%w: booking %d has no payment", ErrPaymentNotFound, id)
	}

	if _, err := s.billing.ConfirmPayment(ctx, *booking.PaymentID); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.UpdateBookingStatus(ctx, nil, id, models.BookingStatusCheckedIn); err != nil {
		return nil, err
	}
	booking.Status = models.BookingStatusCheckedIn
	return booking, nil
}

// SplitBookingPayment divides the booking price between the listed
// players. Shares are rounded down and the first player absorbs the
// remainder, so the shares always sum to the exact price.
func (s *bookingService) SplitBookingPayment(ctx context.Context, bookingID int, input SplitBookingInput) ([]models.SplitPayment, error) {
	if len(input.UserIDs) < 2 {
		return nil, fmt.Errorf("%w: a split needs at least 2 players", ErrValidationFailed)
	}

	booking, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil, fmt.Errorf("%w: cannot split a cancelled booking", ErrValidationFailed)
	}

	court, err := s.bookingRepo.GetCourtByID(ctx, booking.CourtID)
	if err != nil {
		return nil, err
	}

	n := int64(len(input.UserIDs))
	share := booking.PriceCents / n
	remainder := booking.PriceCents - share*n

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			_ = tx.Rollback()
		}
	}()

	splits := make([]models.SplitPayment, 0, len(input.UserIDs))
	for i, userID := range input.UserIDs {
		amount := share
		if i == 0 {
			amount += remainder
		}
		split := models.SplitPayment{
			BookingID:   bookingID,
			ClubID:      court.ClubID,
			UserID:      userID,
			AmountCents: amount,
			Status:      models.PaymentStatusPending,
		}
		if txErr = s.paymentRepo.CreateSplit(ctx, tx, &split); txErr != nil {
			return nil, fmt.Errorf("failed to create split for user %d: %w", userID, txErr)
		}
		splits = append(splits, split)
	}
	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit split: %w", txErr)
	}

	s.logger.Info("booking payment split",
		slog.Int("booking_id", bookingID),
		slog.Int("players", len(splits)),
		slog.Int64("price_cents", booking.PriceCents))
	return splits, nil
}

func (s *bookingService) ListCourtBookings(ctx context.Context, courtID int, day time.Time) ([]models.Booking, error) {
	return s.bookingRepo.ListByCourtAndDay(ctx, courtID, day)
}

func (s *bookingService) ListCourts(ctx context.Context, clubID int) ([]models.Court, error) {
	return s.bookingRepo.ListCourtsByClub(ctx, clubID)
}

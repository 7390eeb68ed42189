package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/padelops/club-system/billing"
	"github.com/padelops/club-system/models"
	"github.com/padelops/club-system/payments"
	"github.com/padelops/club-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingRepo struct {
	booking      *models.Booking
	court        *models.Court
	overlapping  int
	created      []models.Booking
	statusSet    []models.BookingStatus
	paymentLinks []int
}

func (f *fakeBookingRepo) CreateBooking(_ context.Context, _ repositories.SQLExecutor, b *models.Booking) error {
	b.ID = len(f.created) + 1
	f.created = append(f.created, *b)
	return nil
}

func (f *fakeBookingRepo) GetBookingByID(_ context.Context, id int) (*models.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, repositories.ErrBookingNotFound
	}
	clone := *f.booking
	return &clone, nil
}

func (f *fakeBookingRepo) UpdateBookingStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.BookingStatus) error {
	if f.booking == nil || f.booking.ID != id {
		return repositories.ErrBookingNotFound
	}
	f.booking.Status = status
	f.statusSet = append(f.statusSet, status)
	return nil
}

func (f *fakeBookingRepo) SetBookingPayment(_ context.Context, _ repositories.SQLExecutor, id, paymentID int) error {
	f.paymentLinks = append(f.paymentLinks, paymentID)
	return nil
}

func (f *fakeBookingRepo) CountOverlapping(_ context.Context, _ repositories.SQLExecutor, _ int, _, _ time.Time) (int, error) {
	return f.overlapping, nil
}

func (f *fakeBookingRepo) ListByCourtAndDay(_ context.Context, _ int, _ time.Time) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) GetCourtByID(_ context.Context, id int) (*models.Court, error) {
	if f.court == nil || f.court.ID != id {
		return nil, repositories.ErrCourtNotFound
	}
	clone := *f.court
	return &clone, nil
}

func (f *fakeBookingRepo) ListCourtsByClub(_ context.Context, _ int) ([]models.Court, error) {
	if f.court == nil {
		return nil, nil
	}
	return []models.Court{*f.court}, nil
}

func testCourt() *models.Court {
	return &models.Court{ID: 3, ClubID: 1, Name: "Pista 1", PricePerHourCents: 2400}
}

func TestCreateBookingChargesByDuration(t *testing.T) {
	repo := &fakeBookingRepo{court: testCourt()}
	paymentRepo := &fakePaymentRepo{}
	svc, mock := newBookingServiceUnderTest(t, repo, paymentRepo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		CourtID:  3,
		UserID:   9,
		StartsAt: start,
		EndsAt:   start.Add(90 * time.Minute),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3600), booking.PriceCents, "1.5h at 24 EUR/h")
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	require.NotNil(t, booking.PaymentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	repo := &fakeBookingRepo{court: testCourt(), overlapping: 1}
	svc, mock := newBookingServiceUnderTest(t, repo, &fakePaymentRepo{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	start := time.Now().Add(24 * time.Hour)
	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		CourtID: 3, UserID: 9, StartsAt: start, EndsAt: start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrBookingSlotTaken)
	assert.Empty(t, repo.created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingValidatesTimes(t *testing.T) {
	svc, _ := newBookingServiceUnderTest(t, &fakeBookingRepo{court: testCourt()}, &fakePaymentRepo{})

	start := time.Now().Add(24 * time.Hour)
	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		CourtID: 3, UserID: 9, StartsAt: start, EndsAt: start,
	})
	assert.ErrorIs(t, err, ErrBookingInvalidTimeRange)

	past := time.Now().Add(-time.Hour)
	_, err = svc.CreateBooking(context.Background(), CreateBookingInput{
		CourtID: 3, UserID: 9, StartsAt: past, EndsAt: past.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrBookingInPast)
}

func TestSplitBookingPaymentFirstPlayerAbsorbsRemainder(t *testing.T) {
	repo := &fakeBookingRepo{
		booking: &models.Booking{ID: 5, CourtID: 3, Status: models.BookingStatusConfirmed, PriceCents: 1000},
		court:   testCourt(),
	}
	paymentRepo := &fakePaymentRepo{}
	svc, mock := newBookingServiceUnderTest(t, repo, paymentRepo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	splits, err := svc.SplitBookingPayment(context.Background(), 5, SplitBookingInput{
		UserIDs: []int{11, 12, 13},
	})
	require.NoError(t, err)

	require.Len(t, splits, 3)
	assert.Equal(t, int64(334), splits[0].AmountCents)
	assert.Equal(t, int64(333), splits[1].AmountCents)
	assert.Equal(t, int64(333), splits[2].AmountCents)

	var total int64
	for _, s := range splits {
		total += s.AmountCents
		assert.Equal(t, models.PaymentStatusPending, s.Status)
		assert.Equal(t, 1, s.ClubID)
	}
	assert.Equal(t, int64(1000), total, "shares must sum to the exact price")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSplitBookingPaymentRejectsCancelledBooking(t *testing.T) {
	repo := &fakeBookingRepo{
		booking: &models.Booking{ID: 5, CourtID: 3, Status: models.BookingStatusCancelled, PriceCents: 1000},
		court:   testCourt(),
	}
	svc, _ := newBookingServiceUnderTest(t, repo, &fakePaymentRepo{})

	_, err := svc.SplitBookingPayment(context.Background(), 5, SplitBookingInput{UserIDs: []int{1, 2}})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCheckInRequiresConfirmedBooking(t *testing.T) {
	repo := &fakeBookingRepo{
		booking: &models.Booking{ID: 5, CourtID: 3, Status: models.BookingStatusCheckedIn},
	}
	svc, _ := newBookingServiceUnderTest(t, repo, &fakePaymentRepo{})

	_, err := svc.CheckIn(context.Background(), 5)
	assert.ErrorIs(t, err, ErrBookingNotConfirmed)
}

func TestCheckInConfirmsPaymentFirst(t *testing.T) {
	paymentID := 7
	repo := &fakeBookingRepo{
		booking: &models.Booking{ID: 5, CourtID: 3, Status: models.BookingStatusConfirmed, PaymentID: &paymentID},
	}
	intent := "pi_123"
	paymentRepo := &fakePaymentRepo{payment: &models.Payment{
		ID: 7, ClubID: 1, AmountCents: 2400, Status: models.PaymentStatusPending, ProviderIntentID: &intent,
	}}
	svc, _ := newBookingServiceUnderTest(t, repo, paymentRepo)

	booking, err := svc.CheckIn(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusCheckedIn, booking.Status)
	assert.Equal(t, models.PaymentStatusCompleted, paymentRepo.payment.Status)
}

func newBookingServiceUnderTest(t *testing.T, repo *fakeBookingRepo, paymentRepo *fakePaymentRepo) (BookingService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	billingSvc := NewBillingService(nil, &fakeClubRepo{}, paymentRepo, &fakeBillingProvider{intentStatus: payments.IntentStatusSucceeded}, billing.DefaultCommissionRateBPS, testLogger())
	svc := NewBookingService(db, repo, paymentRepo, billingSvc, nil, testLogger())
	return svc, mock
}

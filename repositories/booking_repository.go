package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/padelops/club-system/models"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrCourtNotFound   = errors.New("court not found")
)

type BookingRepository interface {
	CreateBooking(ctx context.Context, exec SQLExecutor, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id int) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, exec SQLExecutor, id int, status models.BookingStatus) error
	SetBookingPayment(ctx context.Context, exec SQLExecutor, id int, paymentID int) error
	CountOverlapping(ctx context.Context, exec SQLExecutor, courtID int, startsAt, endsAt time.Time) (int, error)
	ListByCourtAndDay(ctx context.Context, courtID int, day time.Time) ([]models.Booking, error)

	GetCourtByID(ctx context.Context, id int) (*models.Court, error)
	ListCourtsByClub(ctx context.Context, clubID int) ([]models.Court, error)
}

type postgresBookingRepository struct {
	db *sql.DB
}

func NewPostgresBookingRepository(db *sql.DB) BookingRepository {
	return &postgresBookingRepository{db: db}
}

func (r *postgresBookingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const bookingColumns = `id, court_id, user_id, starts_at, ends_at, status, price_cents, payment_id, created_at`

func (r *postgresBookingRepository) scanBooking(row interface{ Scan(...interface{}) error }) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.CourtID, &b.UserID, &b.StartsAt, &b.EndsAt, &b.Status, &b.PriceCents, &b.PaymentID, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *postgresBookingRepository) CreateBooking(ctx context.Context, exec SQLExecutor, b *models.Booking) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO bookings (court_id, user_id, starts_at, ends_at, status, price_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query,
		b.CourtID, b.UserID, b.StartsAt, b.EndsAt, b.Status, b.PriceCents,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *postgresBookingRepository) GetBookingByID(ctx context.Context, id int) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanBooking(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresBookingRepository) UpdateBookingStatus(ctx context.Context, exec SQLExecutor, id int, status models.BookingStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBookingNotFound)
}

func (r *postgresBookingRepository) SetBookingPayment(ctx context.Context, exec SQLExecutor, id int, paymentID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE bookings SET payment_id = $1 WHERE id = $2`, paymentID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBookingNotFound)
}

// CountOverlapping counts non-cancelled bookings on a court intersecting the
// half-open interval [startsAt, endsAt).
func (r *postgresBookingRepository) CountOverlapping(ctx context.Context, exec SQLExecutor, courtID int, startsAt, endsAt time.Time) (int, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE court_id = $1
		  AND status != 'cancelled'
		  AND starts_at < $3
		  AND ends_at > $2`
	var count int
	err := executor.QueryRowContext(ctx, query, courtID, startsAt, endsAt).Scan(&count)
	return count, err
}

func (r *postgresBookingRepository) ListByCourtAndDay(ctx context.Context, courtID int, day time.Time) ([]models.Booking, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE court_id = $1 AND starts_at >= $2 AND starts_at < $3
		ORDER BY starts_at`
	rows, err := r.db.QueryContext(ctx, query, courtID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		b, scanErr := r.scanBooking(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *postgresBookingRepository) GetCourtByID(ctx context.Context, id int) (*models.Court, error) {
	query := `SELECT id, club_id, name, indoor, price_per_hour_cents FROM courts WHERE id = $1`
	var c models.Court
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.ClubID, &c.Name, &c.Indoor, &c.PricePerHourCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresBookingRepository) ListCourtsByClub(ctx context.Context, clubID int) ([]models.Court, error) {
	query := `SELECT id, club_id, name, indoor, price_per_hour_cents FROM courts WHERE club_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courts := make([]models.Court, 0)
	for rows.Next() {
		var c models.Court
		if scanErr := rows.Scan(&c.ID, &c.ClubID, &c.Name, &c.Indoor, &c.PricePerHourCents); scanErr != nil {
			return nil, scanErr
		}
		courts = append(courts, c)
	}
	return courts, rows.Err()
}

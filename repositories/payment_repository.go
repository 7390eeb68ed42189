package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/padelops/club-system/models"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, payment *models.Payment) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Payment, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.PaymentStatus) error
	SetTransferID(ctx context.Context, exec SQLExecutor, id int, transferID string) error
	ListByClub(ctx context.Context, clubID int, status *models.PaymentStatus) ([]models.Payment, error)

	CreateSplit(ctx context.Context, exec SQLExecutor, split *models.SplitPayment) error
	ListSplitsByClub(ctx context.Context, clubID int, status *models.PaymentStatus) ([]models.SplitPayment, error)
}

type postgresPaymentRepository struct {
	db *sql.DB
}

func NewPostgresPaymentRepository(db *sql.DB) PaymentRepository {
	return &postgresPaymentRepository{db: db}
}

func (r *postgresPaymentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const paymentColumns = `id, club_id, user_id, booking_id, tournament_id, amount_cents, currency,
	status, provider_intent_id, transfer_id, created_at`

func (r *postgresPaymentRepository) scanPayment(row interface{ Scan(...interface{}) error }) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.ClubID, &p.UserID, &p.BookingID, &p.TournamentID, &p.AmountCents,
		&p.Currency, &p.Status, &p.ProviderIntentID, &p.TransferID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPaymentRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Payment) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO payments (club_id, user_id, booking_id, tournament_id, amount_cents, currency, status, provider_intent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query,
		p.ClubID, p.UserID, p.BookingID, p.TournamentID, p.AmountCents, p.Currency, p.Status, p.ProviderIntentID,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *postgresPaymentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Payment, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return r.scanPayment(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresPaymentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.PaymentStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE payments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPaymentNotFound)
}

func (r *postgresPaymentRepository) SetTransferID(ctx context.Context, exec SQLExecutor, id int, transferID string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE payments SET transfer_id = $1 WHERE id = $2`, transferID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPaymentNotFound)
}

func (r *postgresPaymentRepository) ListByClub(ctx context.Context, clubID int, status *models.PaymentStatus) ([]models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE club_id = $1`
	args := []interface{}{clubID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]models.Payment, 0)
	for rows.Next() {
		p, scanErr := r.scanPayment(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (r *postgresPaymentRepository) CreateSplit(ctx context.Context, exec SQLExecutor, s *models.SplitPayment) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO split_payments (booking_id, club_id, user_id, amount_cents, status, provider_intent_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query,
		s.BookingID, s.ClubID, s.UserID, s.AmountCents, s.Status, s.ProviderIntentID,
	).Scan(&s.ID, &s.CreatedAt)
}

func (r *postgresPaymentRepository) ListSplitsByClub(ctx context.Context, clubID int, status *models.PaymentStatus) ([]models.SplitPayment, error) {
	query := `
		SELECT id, booking_id, club_id, user_id, amount_cents, status, provider_intent_id, transfer_id, created_at
		FROM split_payments WHERE club_id = $1`
	args := []interface{}{clubID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	splits := make([]models.SplitPayment, 0)
	for rows.Next() {
		var s models.SplitPayment
		if scanErr := rows.Scan(&s.ID, &s.BookingID, &s.ClubID, &s.UserID, &s.AmountCents,
			&s.Status, &s.ProviderIntentID, &s.TransferID, &s.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		splits = append(splits, s)
	}
	return splits, rows.Err()
}

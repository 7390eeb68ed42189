package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/padelops/club-system/models"
	"github.com/lib/pq"
)

var (
	ErrClubNotFound     = errors.New("club not found")
	ErrClubNameConflict = errors.New("club name is already in use")
)

type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	GetByID(ctx context.Context, id int) (*models.Club, error)
	List(ctx context.Context, limit, offset int) ([]models.Club, error)
	UpdateCommissionRate(ctx context.Context, exec SQLExecutor, clubID int, rateBPS *int) error
	UpdateLogoKey(ctx context.Context, clubID int, logoKey *string) error
}

type postgresClubRepository struct {
	db *sql.DB
}

func NewPostgresClubRepository(db *sql.DB) ClubRepository {
	return &postgresClubRepository{db: db}
}

func (r *postgresClubRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const clubColumns = `id, name, email, city, commission_rate_bps, provider_account_id, logo_key, created_at`

func (r *postgresClubRepository) scanClub(row interface{ Scan(...interface{}) error }) (*models.Club, error) {
	var c models.Club
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.City, &c.CommissionRateBPS, &c.ProviderAccountID, &c.LogoKey, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresClubRepository) Create(ctx context.Context, club *models.Club) error {
	query := `
		INSERT INTO clubs (name, email, city, commission_rate_bps, provider_account_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		club.Name, club.Email, club.City, club.CommissionRateBPS, club.ProviderAccountID,
	).Scan(&club.ID, &club.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return ErrClubNameConflict
	}
	return err
}

func (r *postgresClubRepository) GetByID(ctx context.Context, id int) (*models.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE id = $1`
	return r.scanClub(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresClubRepository) List(ctx context.Context, limit, offset int) ([]models.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clubs := make([]models.Club, 0)
	for rows.Next() {
		c, scanErr := r.scanClub(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		clubs = append(clubs, *c)
	}
	return clubs, rows.Err()
}

func (r *postgresClubRepository) UpdateCommissionRate(ctx context.Context, exec SQLExecutor, clubID int, rateBPS *int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE clubs SET commission_rate_bps = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, rateBPS, clubID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrClubNotFound)
}

func (r *postgresClubRepository) UpdateLogoKey(ctx context.Context, clubID int, logoKey *string) error {
	query := `UPDATE clubs SET logo_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logoKey, clubID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrClubNotFound)
}

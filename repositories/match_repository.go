package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/padelops/club-system/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// ListByTournament returns matches ordered by id, i.e. creation order.
	// The ranking engine depends on this ordering for its tie-breaks.
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error)
	RecordResult(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, winner models.MatchWinner, resultsConfirmed bool) error
	SetConflictResolved(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, tournament_id, round, match_number,
	team1_name, team1_player1, team1_player2, team2_name, team2_player1, team2_player2,
	status, winner, conflict_resolved, results_confirmed, scheduled_at, created_at`

func (r *postgresMatchRepository) scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID, &m.TournamentID, &m.Round, &m.MatchNumber,
		&m.Team1Name, &m.Team1Player1, &m.Team1Player2, &m.Team2Name, &m.Team2Player1, &m.Team2Player2,
		&m.Status, &m.Winner, &m.ConflictResolved, &m.ResultsConfirmed, &m.ScheduledAt, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (
			tournament_id, round, match_number,
			team1_name, team1_player1, team1_player2, team2_name, team2_player1, team2_player2,
			status, winner, scheduled_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query,
		m.TournamentID, m.Round, m.MatchNumber,
		m.Team1Name, m.Team1Player1, m.Team1Player2, m.Team2Name, m.Team2Player1, m.Team2Player2,
		m.Status, m.Winner, m.ScheduledAt,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 ORDER BY id`
	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) RecordResult(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, winner models.MatchWinner, resultsConfirmed bool) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET status = $1, winner = $2, results_confirmed = $3 WHERE id = $4`
	result, err := executor.ExecContext(ctx, query, status, winner, resultsConfirmed, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetConflictResolved(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE matches SET conflict_resolved = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

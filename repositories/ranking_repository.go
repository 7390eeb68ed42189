package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/padelops/club-system/models"
)

var ErrRankingNotFound = errors.New("ranking entry not found")

type RankingRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, entries []models.RankingEntry) error
	ListByTournament(ctx context.Context, tournamentID int) ([]models.RankingEntry, error)
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresRankingRepository struct {
	db *sql.DB
}

func NewPostgresRankingRepository(db *sql.DB) RankingRepository {
	return &postgresRankingRepository{db: db}
}

func (r *postgresRankingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRankingRepository) BatchCreate(ctx context.Context, exec SQLExecutor, entries []models.RankingEntry) error {
	if len(entries) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_rankings (tournament_id, category, team_name, wins, losses, final_round, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, e := range entries {
		if _, err := executor.ExecContext(ctx, query,
			e.TournamentID, e.Category, e.TeamName, e.Wins, e.Losses, e.FinalRound, e.Position,
		); err != nil {
			return fmt.Errorf("failed to insert ranking for team %q in %q: %w", e.TeamName, e.Category, err)
		}
	}
	return nil
}

func (r *postgresRankingRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.RankingEntry, error) {
	query := `
		SELECT id, tournament_id, category, team_name, wins, losses, final_round, position, created_at
		FROM tournament_rankings
		WHERE tournament_id = $1
		ORDER BY category, position`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.RankingEntry, 0)
	for rows.Next() {
		var e models.RankingEntry
		if scanErr := rows.Scan(&e.ID, &e.TournamentID, &e.Category, &e.TeamName,
			&e.Wins, &e.Losses, &e.FinalRound, &e.Position, &e.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresRankingRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM tournament_rankings WHERE tournament_id = $1`, tournamentID)
	return err
}

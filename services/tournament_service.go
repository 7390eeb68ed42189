package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/padelops/club-system/draws"
	"github.com/padelops/club-system/live"
	"github.com/padelops/club-system/models"
	"github.com/padelops/club-system/rankings"
	"github.com/padelops/club-system/repositories"
)

// FinalizationBlocker identifies one match preventing tournament
// finalization, with enough context for an operator to resolve it.
type FinalizationBlocker struct {
	MatchID     int    `json:"match_id"`
	Round       string `json:"round"`
	MatchNumber int    `json:"match_number"`
	Team1       string `json:"team1"`
	Team2       string `json:"team2"`
	Reason      string `json:"reason"`
}

// FinalizationError reports every match blocking an ACTIVE -> COMPLETED
// transition, rather than failing on the first one.
type FinalizationError struct {
	Blockers []FinalizationBlocker
}

func (e *FinalizationError) Error() string {
	return fmt.Sprintf("tournament cannot be finalized: %d match(es) blocking", len(e.Blockers))
}

type CreateTournamentInput struct {
	ClubID      int       `json:"club_id" validate:"required,gt=0"`
	Name        string    `json:"name" validate:"required"`
	Description *string   `json:"description"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	MaxTeams    int       `json:"max_teams" validate:"gte=0"`
	EntryFee    int64     `json:"entry_fee_cents" validate:"gte=0"`
}

type DrawTeamInput struct {
	Name    string `json:"name" validate:"required"`
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

type GenerateDrawInput struct {
	Format string          `json:"format" validate:"required,oneof=knockout americana"`
	Teams  []DrawTeamInput `json:"teams" validate:"required,min=2,dive"`
}

type RecordMatchResultInput struct {
	Winner           models.MatchWinner `json:"winner" validate:"required,oneof=team1 team2 none"`
	ResultsConfirmed bool               `json:"results_confirmed"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	UpdateTournamentStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error)
	AddMatch(ctx context.Context, tournamentID int, match *models.Match) error
	GenerateDraw(ctx context.Context, tournamentID int, input GenerateDrawInput) ([]models.Match, error)
	RecordMatchResult(ctx context.Context, matchID int, input RecordMatchResultInput) (*models.Match, error)
	ResolveMatchConflict(ctx context.Context, matchID int) error
	FinalizeTournament(ctx context.Context, id int) ([]models.RankingEntry, error)
	AutoUpdateTournamentStatusesByDates(ctx context.Context) error
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	rankingRepo    repositories.RankingRepository
	hub            *live.Hub
	notifier       Notifier
	logger         *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	rankingRepo repositories.RankingRepository,
	hub *live.Hub,
	notifier Notifier,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		rankingRepo:    rankingRepo,
		hub:            hub,
		notifier:       notifier,
		logger:         logger,
	}
}

// validStatusTransitions encodes the tournament lifecycle. CANCELLED is
// reachable from any non-terminal state.
var validStatusTransitions = map[models.TournamentStatus][]models.TournamentStatus{
	models.StatusDraft:              {models.StatusRegistrationOpen, models.StatusCancelled},
	models.StatusRegistrationOpen:   {models.StatusRegistrationClosed, models.StatusCancelled},
	models.StatusRegistrationClosed: {models.StatusActive, models.StatusCancelled},
	models.StatusActive:             {models.StatusCompleted, models.StatusCancelled},
}

func isValidTransition(from, to models.TournamentStatus) bool {
	for _, allowed := range validStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, ErrTournamentInvalidDateRange
	}

	tournament := &models.Tournament{
		ClubID:      input.ClubID,
		Name:        input.Name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      models.StatusDraft,
		MaxTeams:    input.MaxTeams,
		EntryFee:    input.EntryFee,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	categories, err := s.tournamentRepo.ListCategories(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories for tournament %d: %w", id, err)
	}
	tournament.Categories = categories

	matches, err := s.matchRepo.ListByTournament(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for tournament %d: %w", id, err)
	}
	tournament.Matches = matches

	if tournament.Status == models.StatusCompleted {
		entries, err := s.rankingRepo.ListByTournament(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load rankings for tournament %d: %w", id, err)
		}
		tournament.Rankings = entries
	}
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.tournamentRepo.List(ctx, filter)
}

func (s *tournamentService) UpdateTournamentStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	// Completion runs through FinalizeTournament so rankings are computed
	// and persisted atomically with the status change.
	if status == models.StatusCompleted {
		return nil, fmt.Errorf("%w: use finalize to complete a tournament", ErrTournamentInvalidStatusTransition)
	}
	if !isValidTransition(tournament.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrTournamentInvalidStatusTransition, tournament.Status, status)
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, nil, id, status); err != nil {
		return nil, err
	}
	tournament.Status = status
	return tournament, nil
}

func (s *tournamentService) AddMatch(ctx context.Context, tournamentID int, match *models.Match) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	if tournament.Status != models.StatusActive && tournament.Status != models.StatusRegistrationClosed {
		return fmt.Errorf("%w: matches can only be added to an active tournament", ErrTournamentNotActive)
	}

	match.TournamentID = tournamentID
	if match.Status == "" {
		match.Status = models.MatchStatusScheduled
	}
	if match.Winner == "" {
		match.Winner = models.WinnerNone
	}
	return s.matchRepo.Create(ctx, nil, match)
}

// GenerateDraw builds the opening matches for the tournament from the
// registered teams and stores them in one transaction.
func (s *tournamentService) GenerateDraw(ctx context.Context, tournamentID int, input GenerateDrawInput) ([]models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.Status != models.StatusActive && tournament.Status != models.StatusRegistrationClosed {
		return nil, fmt.Errorf("%w: draws require a closed or active tournament", ErrTournamentNotActive)
	}

	var generator draws.Generator
	switch input.Format {
	case "knockout":
		generator = draws.NewKnockoutGenerator()
	case "americana":
		generator = draws.NewAmericanaGenerator()
	default:
		return nil, fmt.Errorf("%w: unknown draw format %q", ErrValidationFailed, input.Format)
	}

	teams := make([]draws.Team, 0, len(input.Teams))
	for _, t := range input.Teams {
		teams = append(teams, draws.Team{Name: t.Name, Player1: t.Player1, Player2: t.Player2})
	}

	matches, err := generator.GenerateDraw(draws.GenerateDrawParams{
		TournamentID: tournamentID,
		Teams:        teams,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

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

	for i := range matches {
		if txErr = s.matchRepo.Create(ctx, tx, &matches[i]); txErr != nil {
			return nil, fmt.Errorf("failed to persist draw match %d: %w", i+1, txErr)
		}
	}
	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit draw: %w", txErr)
	}

	s.logger.Info("draw generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("format", generator.Name()),
		slog.Int("matches", len(matches)))
	return matches, nil
}

func (s *tournamentService) RecordMatchResult(ctx context.Context, matchID int, input RecordMatchResultInput) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if match.Status == models.MatchStatusCancelled {
		return nil, fmt.Errorf("%w: cannot record a result on a cancelled match", ErrValidationFailed)
	}

	if err := s.matchRepo.RecordResult(ctx, nil, matchID, models.MatchStatusCompleted, input.Winner, input.ResultsConfirmed); err != nil {
		return nil, err
	}
	match.Status = models.MatchStatusCompleted
	match.Winner = input.Winner
	match.ResultsConfirmed = input.ResultsConfirmed
	return match, nil
}

func (s *tournamentService) ResolveMatchConflict(ctx context.Context, matchID int) error {
	err := s.matchRepo.SetConflictResolved(ctx, nil, matchID)
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return ErrMatchNotFound
	}
	return err
}

// AutoUpdateTournamentStatusesByDates moves tournaments along the
// lifecycle based on their dates: registration closes and play starts
// once the start date passes. Completion never happens here; it always
// goes through FinalizeTournament.
func (s *tournamentService) AutoUpdateTournamentStatusesByDates(ctx context.Context) error {
	now := time.Now()

	transitions := []struct {
		from models.TournamentStatus
		to   models.TournamentStatus
	}{
		{models.StatusRegistrationOpen, models.StatusRegistrationClosed},
		{models.StatusRegistrationClosed, models.StatusActive},
	}

	for _, t := range transitions {
		from := t.from
		list, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{Status: &from, Limit: 100})
		if err != nil {
			return fmt.Errorf("failed to list %s tournaments: %w", from, err)
		}
		for _, tournament := range list {
			if tournament.StartDate.After(now) {
				continue
			}
			if err := s.tournamentRepo.UpdateStatus(ctx, nil, tournament.ID, t.to); err != nil {
				s.logger.Error("scheduler status update failed",
					slog.Int("tournament_id", tournament.ID),
					slog.String("to", string(t.to)),
					slog.Any("error", err))
				continue
			}
			s.logger.Info("tournament status advanced by scheduler",
				slog.Int("tournament_id", tournament.ID),
				slog.String("from", string(t.from)),
				slog.String("to", string(t.to)))
		}
	}
	return nil
}

// collectFinalizationBlockers applies the finalization preconditions: every
// match must be completed or cancelled, and every completed match must have
// its result either confirmed or conflict-resolved.
func collectFinalizationBlockers(matches []models.Match) []FinalizationBlocker {
	var blockers []FinalizationBlocker
	for _, m := range matches {
		var reason string
		switch m.Status {
		case models.MatchStatusCompleted:
			if !m.ConflictResolved && !m.ResultsConfirmed {
				reason = "result not confirmed"
			}
		case models.MatchStatusCancelled:
			// fine
		default:
			reason = "match not finished"
		}
		if reason != "" {
			blockers = append(blockers, FinalizationBlocker{
				MatchID:     m.ID,
				Round:       m.Round,
				MatchNumber: m.MatchNumber,
				Team1:       m.Team1Name,
				Team2:       m.Team2Name,
				Reason:      reason,
			})
		}
	}
	return blockers
}

// FinalizeTournament checks the finalization preconditions, computes the
// final standings per category and persists them together with the
// ACTIVE -> COMPLETED status change in a single transaction.
func (s *tournamentService) FinalizeTournament(ctx context.Context, id int) ([]models.RankingEntry, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.Status != models.StatusActive {
		return nil, fmt.Errorf("%w: status is %s", ErrTournamentNotActive, tournament.Status)
	}

	matches, err := s.matchRepo.ListByTournament(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", id, err)
	}
	if len(matches) == 0 {
		return nil, ErrTournamentHasNoMatches
	}
	if blockers := collectFinalizationBlockers(matches); len(blockers) > 0 {
		return nil, &FinalizationError{Blockers: blockers}
	}

	categories, err := s.tournamentRepo.ListCategories(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories for tournament %d: %w", id, err)
	}

	standings := rankings.ComputeFinalRankings(matches, categories)

	entries := make([]models.RankingEntry, 0)
	for _, categoryEntries := range standings {
		entries = append(entries, categoryEntries...)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Category != entries[j].Category {
			return entries[i].Category < entries[j].Category
		}
		return entries[i].Position < entries[j].Position
	})

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
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed during finalization",
					slog.Int("tournament_id", id), slog.Any("error", rbErr))
			}
		}
	}()

	if txErr = s.rankingRepo.DeleteByTournamentID(ctx, tx, id); txErr != nil {
		return nil, fmt.Errorf("failed to clear previous rankings: %w", txErr)
	}
	if txErr = s.rankingRepo.BatchCreate(ctx, tx, entries); txErr != nil {
		return nil, fmt.Errorf("failed to persist rankings: %w", txErr)
	}
	if txErr = s.tournamentRepo.UpdateStatus(ctx, tx, id, models.StatusCompleted); txErr != nil {
		return nil, fmt.Errorf("failed to update tournament status: %w", txErr)
	}
	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit finalization: %w", txErr)
	}

	s.logger.Info("tournament finalized",
		slog.Int("tournament_id", id),
		slog.Int("categories", len(standings)),
		slog.Int("ranked_teams", len(entries)))

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.TournamentRoom(id), live.Message{
			Type:    live.EventTournamentCompleted,
			Payload: standings,
		})
	}
	if s.notifier != nil {
		// Fire-and-forget: a failed email must not undo a finalized tournament.
		go func(name string) {
			if err := s.notifier.SendTournamentCompleted(context.Background(), name, standings); err != nil {
				s.logger.Error("tournament completion notification failed",
					slog.Int("tournament_id", id), slog.Any("error", err))
			}
		}(tournament.Name)
	}

	return entries, nil
}

package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/padelops/club-system/models"
	"github.com/padelops/club-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTournamentRepo struct {
	tournament    *models.Tournament
	categories    []models.Category
	statusUpdates []models.TournamentStatus
}

func (f *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	t.ID = 1
	return nil
}

func (f *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	if f.tournament == nil || f.tournament.ID != id {
		return nil, repositories.ErrTournamentNotFound
	}
	clone := *f.tournament
	return &clone, nil
}

func (f *fakeTournamentRepo) List(_ context.Context, _ repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	if f.tournament == nil {
		return nil, nil
	}
	return []models.Tournament{*f.tournament}, nil
}

func (f *fakeTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	if f.tournament == nil || f.tournament.ID != id {
		return repositories.ErrTournamentNotFound
	}
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *fakeTournamentRepo) ListCategories(_ context.Context, _ int) ([]models.Category, error) {
	return f.categories, nil
}

type fakeMatchRepo struct {
	matches []models.Match
	created []models.Match
}

func (f *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	m.ID = len(f.created) + 1
	f.created = append(f.created, *m)
	return nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	for i := range f.matches {
		if f.matches[i].ID == id {
			clone := f.matches[i]
			return &clone, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, _ int) ([]models.Match, error) {
	return f.matches, nil
}

func (f *fakeMatchRepo) RecordResult(_ context.Context, _ repositories.SQLExecutor, id int, status models.MatchStatus, winner models.MatchWinner, confirmed bool) error {
	for i := range f.matches {
		if f.matches[i].ID == id {
			f.matches[i].Status = status
			f.matches[i].Winner = winner
			f.matches[i].ResultsConfirmed = confirmed
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) SetConflictResolved(_ context.Context, _ repositories.SQLExecutor, id int) error {
	for i := range f.matches {
		if f.matches[i].ID == id {
			f.matches[i].ConflictResolved = true
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

type fakeRankingRepo struct {
	stored  []models.RankingEntry
	deleted bool
}

func (f *fakeRankingRepo) BatchCreate(_ context.Context, _ repositories.SQLExecutor, entries []models.RankingEntry) error {
	f.stored = append(f.stored, entries...)
	return nil
}

func (f *fakeRankingRepo) ListByTournament(_ context.Context, _ int) ([]models.RankingEntry, error) {
	return f.stored, nil
}

func (f *fakeRankingRepo) DeleteByTournamentID(_ context.Context, _ repositories.SQLExecutor, _ int) error {
	f.deleted = true
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func completedMatch(id int, round, winnerName, loserName string) models.Match {
	return models.Match{
		ID:               id,
		TournamentID:     1,
		Round:            round,
		Team1Name:        winnerName,
		Team2Name:        loserName,
		Status:           models.MatchStatusCompleted,
		Winner:           models.WinnerTeam1,
		ResultsConfirmed: true,
	}
}

func newServiceUnderTest(t *testing.T, tournamentRepo *fakeTournamentRepo, matchRepo *fakeMatchRepo, rankingRepo *fakeRankingRepo) (TournamentService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewTournamentService(db, tournamentRepo, matchRepo, rankingRepo, nil, nil, testLogger())
	return svc, mock
}

func TestFinalizeTournamentPersistsRankingsAndCompletes(t *testing.T) {
	tournamentRepo := &fakeTournamentRepo{
		tournament: &models.Tournament{ID: 1, Name: "Open de Primavera", Status: models.StatusActive},
		categories: []models.Category{
			{ID: 1, TournamentID: 1, Name: "Masculina A", Rounds: pq.StringArray{"Semifinal", "Final"}},
		},
	}
	matchRepo := &fakeMatchRepo{matches: []models.Match{
		completedMatch(1, "Semifinal", "Los Tigres", "Las Palmas"),
		completedMatch(2, "Semifinal", "Smash Bros", "Drop Shot"),
		completedMatch(3, "Final", "Los Tigres", "Smash Bros"),
	}}
	rankingRepo := &fakeRankingRepo{}
	svc, mock := newServiceUnderTest(t, tournamentRepo, matchRepo, rankingRepo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	entries, err := svc.FinalizeTournament(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, entries, 4)
	assert.Equal(t, "Los Tigres", entries[0].TeamName)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, "Final", entries[0].FinalRound)
	assert.Equal(t, "Smash Bros", entries[1].TeamName)
	assert.Equal(t, 2, entries[1].Position)

	assert.True(t, rankingRepo.deleted, "previous rankings must be cleared first")
	assert.Len(t, rankingRepo.stored, 4)
	assert.Equal(t, []models.TournamentStatus{models.StatusCompleted}, tournamentRepo.statusUpdates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeTournamentReportsEveryBlocker(t *testing.T) {
	unconfirmed := completedMatch(2, "Semifinal", "Smash Bros", "Drop Shot")
	unconfirmed.ResultsConfirmed = false

	tournamentRepo := &fakeTournamentRepo{
		tournament: &models.Tournament{ID: 1, Status: models.StatusActive},
	}
	matchRepo := &fakeMatchRepo{matches: []models.Match{
		{ID: 1, Round: "Semifinal", Team1Name: "Los Tigres", Team2Name: "Las Palmas", Status: models.MatchStatusInProgress},
		unconfirmed,
		{ID: 3, Round: "Final", Team1Name: "A", Team2Name: "B", Status: models.MatchStatusCancelled},
	}}
	svc, mock := newServiceUnderTest(t, tournamentRepo, matchRepo, &fakeRankingRepo{})

	_, err := svc.FinalizeTournament(context.Background(), 1)

	var finalization *FinalizationError
	require.ErrorAs(t, err, &finalization)
	require.Len(t, finalization.Blockers, 2)
	assert.Equal(t, "match not finished", finalization.Blockers[0].Reason)
	assert.Equal(t, 1, finalization.Blockers[0].MatchID)
	assert.Equal(t, "result not confirmed", finalization.Blockers[1].Reason)
	assert.Equal(t, 2, finalization.Blockers[1].MatchID)

	assert.Empty(t, tournamentRepo.statusUpdates, "status must not change when blocked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeTournamentConflictResolvedCounts(t *testing.T) {
	resolved := completedMatch(1, "Final", "Los Tigres", "Smash Bros")
	resolved.ResultsConfirmed = false
	resolved.ConflictResolved = true

	tournamentRepo := &fakeTournamentRepo{
		tournament: &models.Tournament{ID: 1, Status: models.StatusActive},
	}
	svc, mock := newServiceUnderTest(t, tournamentRepo, &fakeMatchRepo{matches: []models.Match{resolved}}, &fakeRankingRepo{})

	mock.ExpectBegin()
	mock.ExpectCommit()

	entries, err := svc.FinalizeTournament(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestFinalizeTournamentRequiresActiveStatus(t *testing.T) {
	tournamentRepo := &fakeTournamentRepo{
		tournament: &models.Tournament{ID: 1, Status: models.StatusRegistrationOpen},
	}
	svc, _ := newServiceUnderTest(t, tournamentRepo, &fakeMatchRepo{}, &fakeRankingRepo{})

	_, err := svc.FinalizeTournament(context.Background(), 1)
	assert.ErrorIs(t, err, ErrTournamentNotActive)
}

func TestFinalizeTournamentRequiresMatches(t *testing.T) {
	tournamentRepo := &fakeTournamentRepo{
		tournament: &models.Tournament{ID: 1, Status: models.StatusActive},
	}
	svc, _ := newServiceUnderTest(t, tournamentRepo, &fakeMatchRepo{}, &fakeRankingRepo{})

	_, err := svc.FinalizeTournament(context.Background(), 1)
	assert.ErrorIs(t, err, ErrTournamentHasNoMatches)
}

func TestUpdateTournamentStatusRejectsDirectCompletion(t *testing.T) {
	tournamentRepo := &fakeTournamentRepo{
		tournament: &models.Tournament{ID: 1, Status: models.StatusActive},
	}
	svc, _ := newServiceUnderTest(t, tournamentRepo, &fakeMatchRepo{}, &fakeRankingRepo{})

	_, err := svc.UpdateTournamentStatus(context.Background(), 1, models.StatusCompleted)
	assert.ErrorIs(t, err, ErrTournamentInvalidStatusTransition)
	assert.Empty(t, tournamentRepo.statusUpdates)
}

func TestUpdateTournamentStatusTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    models.TournamentStatus
		to      models.TournamentStatus
		wantErr bool
	}{
		{"open registration", models.StatusDraft, models.StatusRegistrationOpen, false},
		{"close registration", models.StatusRegistrationOpen, models.StatusRegistrationClosed, false},
		{"activate", models.StatusRegistrationClosed, models.StatusActive, false},
		{"cancel from draft", models.StatusDraft, models.StatusCancelled, false},
		{"skip ahead", models.StatusDraft, models.StatusActive, true},
		{"reopen completed", models.StatusCompleted, models.StatusRegistrationOpen, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tournamentRepo := &fakeTournamentRepo{
				tournament: &models.Tournament{ID: 1, Status: tc.from},
			}
			svc, _ := newServiceUnderTest(t, tournamentRepo, &fakeMatchRepo{}, &fakeRankingRepo{})

			updated, err := svc.UpdateTournamentStatus(context.Background(), 1, tc.to)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrTournamentInvalidStatusTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, updated.Status)
		})
	}
}

func TestGenerateDrawPersistsMatchesInOneTransaction(t *testing.T) {
	tournamentRepo := &fakeTournamentRepo{
		tournament: &models.Tournament{ID: 1, Status: models.StatusActive},
	}
	matchRepo := &fakeMatchRepo{}
	svc, mock := newServiceUnderTest(t, tournamentRepo, matchRepo, &fakeRankingRepo{})

	mock.ExpectBegin()
	mock.ExpectCommit()

	matches, err := svc.GenerateDraw(context.Background(), 1, GenerateDrawInput{
		Format: "knockout",
		Teams: []DrawTeamInput{
			{Name: "Los Tigres"}, {Name: "Smash Bros"}, {Name: "Drop Shot"}, {Name: "Las Palmas"},
		},
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Semifinal", matches[0].Round)
	assert.Len(t, matchRepo.created, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTournamentValidatesDates(t *testing.T) {
	svc, _ := newServiceUnderTest(t, &fakeTournamentRepo{}, &fakeMatchRepo{}, &fakeRankingRepo{})

	start := time.Now().Add(24 * time.Hour)
	_, err := svc.CreateTournament(context.Background(), CreateTournamentInput{
		ClubID:    1,
		Name:      "Torneo de Verano",
		StartDate: start,
		EndDate:   start.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, ErrTournamentInvalidDateRange)
}

func TestRecordMatchResultRejectsCancelledMatch(t *testing.T) {
	matchRepo := &fakeMatchRepo{matches: []models.Match{
		{ID: 5, Status: models.MatchStatusCancelled},
	}}
	svc, _ := newServiceUnderTest(t, &fakeTournamentRepo{}, matchRepo, &fakeRankingRepo{})

	_, err := svc.RecordMatchResult(context.Background(), 5, RecordMatchResultInput{Winner: models.WinnerTeam1})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestFinalizeTournamentUnknownID(t *testing.T) {
	svc, _ := newServiceUnderTest(t, &fakeTournamentRepo{}, &fakeMatchRepo{}, &fakeRankingRepo{})

	_, err := svc.FinalizeTournament(context.Background(), 42)
	assert.True(t, errors.Is(err, ErrTournamentNotFound))
}

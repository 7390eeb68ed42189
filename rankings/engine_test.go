package rankings

import (
	"testing"

	"github.com/padelops/club-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedMatch(round, team1, team2 string, winner models.MatchWinner) models.Match {
	return models.Match{
		TournamentID: 1,
		Round:        round,
		Team1Name:    team1,
		Team2Name:    team2,
		Status:       models.MatchStatusCompleted,
		Winner:       winner,
	}
}

func TestComputeFinalRankingsKnockoutOrder(t *testing.T) {
	matches := []models.Match{
		completedMatch("Final", "A", "B", models.WinnerTeam1),
		completedMatch("Semifinal", "C", "D", models.WinnerTeam1),
	}

	result := ComputeFinalRankings(matches, nil)
	require.Contains(t, result, CategoryGeneral)

	entries := result[CategoryGeneral]
	require.Len(t, entries, 4)

	// Finalists rank above semifinalists; within a match the winner ranks
	// above the loser.
	assert.Equal(t, "A", entries[0].TeamName)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, "C", entries[1].TeamName)
	assert.Equal(t, 2, entries[1].Position)
	assert.Equal(t, "B", entries[2].TeamName)
	assert.Equal(t, 3, entries[2].Position)
	assert.Equal(t, "D", entries[3].TeamName)
	assert.Equal(t, 4, entries[3].Position)
}

func TestComputeFinalRankingsPositionsAreDense(t *testing.T) {
	matches := []models.Match{
		completedMatch("Cuartos de Final", "A", "B", models.WinnerTeam1),
		completedMatch("Cuartos de Final", "C", "D", models.WinnerTeam2),
		completedMatch("Semifinal", "A", "D", models.WinnerTeam1),
		completedMatch("Final", "A", "E", models.WinnerTeam2),
	}

	entries := ComputeFinalRankings(matches, nil)[CategoryGeneral]
	require.Len(t, entries, 5)

	seen := make(map[int]bool)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Position)
		assert.False(t, seen[e.Position], "duplicate position %d", e.Position)
		seen[e.Position] = true
	}
}

func TestComputeFinalRankingsIgnoresUnfinishedMatches(t *testing.T) {
	cancelled := completedMatch("Final", "A", "B", models.WinnerTeam1)
	cancelled.Status = models.MatchStatusCancelled
	scheduled := completedMatch("Semifinal", "E", "F", models.WinnerNone)
	scheduled.Status = models.MatchStatusScheduled

	matches := []models.Match{
		cancelled,
		scheduled,
		completedMatch("Semifinal", "C", "D", models.WinnerTeam1),
	}

	entries := ComputeFinalRankings(matches, nil)[CategoryGeneral]
	require.Len(t, entries, 2)
	assert.Equal(t, "C", entries[0].TeamName)
	assert.Equal(t, "D", entries[1].TeamName)
}

func TestComputeFinalRankingsStableTieBreak(t *testing.T) {
	// Two semifinal winners with identical records keep their input order.
	matches := []models.Match{
		completedMatch("Semifinal", "Zeta", "B", models.WinnerTeam1),
		completedMatch("Semifinal", "Alfa", "D", models.WinnerTeam1),
	}

	entries := ComputeFinalRankings(matches, nil)[CategoryGeneral]
	require.Len(t, entries, 4)
	assert.Equal(t, "Zeta", entries[0].TeamName)
	assert.Equal(t, "Alfa", entries[1].TeamName)
}

func TestComputeFinalRankingsLastWinDefinesFinalRound(t *testing.T) {
	// The furthest round is the last win in input order, not the deepest one.
	matches := []models.Match{
		completedMatch("Final", "A", "B", models.WinnerTeam1),
		completedMatch("Semifinal", "A", "C", models.WinnerTeam1),
	}

	entries := ComputeFinalRankings(matches, nil)[CategoryGeneral]
	require.NotEmpty(t, entries)
	assert.Equal(t, "A", entries[0].TeamName)
	assert.Equal(t, "Semifinal", entries[0].FinalRound)
}

func TestComputeFinalRankingsCategoryPartition(t *testing.T) {
	categories := []models.Category{
		{Name: "Primera", Rounds: []string{"Final", "Semifinal"}},
		{Name: "Segunda"},
	}
	matches := []models.Match{
		completedMatch("Final", "A", "B", models.WinnerTeam1),
		// No explicit round mapping for Segunda: assigned via the substring
		// fallback on the round label.
		completedMatch("Final Segunda", "C", "D", models.WinnerTeam2),
	}

	result := ComputeFinalRankings(matches, categories)
	require.Contains(t, result, "Primera")
	require.Contains(t, result, "Segunda")

	assert.Equal(t, "A", result["Primera"][0].TeamName)
	assert.Equal(t, "D", result["Segunda"][0].TeamName)
}

func TestComputeFinalRankingsOmitsEmptyCategories(t *testing.T) {
	categories := []models.Category{
		{Name: "Primera", Rounds: []string{"Final"}},
		{Name: "Segunda", Rounds: []string{"Final Segunda"}},
	}
	scheduled := completedMatch("Final Segunda", "C", "D", models.WinnerNone)
	scheduled.Status = models.MatchStatusScheduled

	matches := []models.Match{
		completedMatch("Final", "A", "B", models.WinnerTeam1),
		scheduled,
	}

	result := ComputeFinalRankings(matches, categories)
	assert.Contains(t, result, "Primera")
	assert.NotContains(t, result, "Segunda")

	assert.Empty(t, ComputeFinalRankings(nil, nil))
}

func TestComputeFinalRankingsWinnerlessCompletedMatchCountsParticipants(t *testing.T) {
	matches := []models.Match{
		completedMatch("Semifinal", "A", "B", models.WinnerNone),
	}

	entries := ComputeFinalRankings(matches, nil)[CategoryGeneral]
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Zero(t, e.Wins)
		assert.Zero(t, e.Losses)
	}
}

func TestRoundPriority(t *testing.T) {
	assert.Equal(t, 1, RoundPriority("Final"))
	assert.Equal(t, 2, RoundPriority("semifinal"))
	assert.Equal(t, 3, RoundPriority("Cuartos de Final"))
	assert.Equal(t, 4, RoundPriority("Octavos de Final"))
	assert.Equal(t, 5, RoundPriority("Dieciseisavos de Final"))
	assert.Equal(t, 99, RoundPriority("Grupo A"))
	assert.Equal(t, 99, RoundPriority(""))
}

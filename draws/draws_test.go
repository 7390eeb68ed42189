package draws

import (
	"testing"

	"github.com/padelops/club-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teams(names ...string) []Team {
	out := make([]Team, len(names))
	for i, n := range names {
		out[i] = Team{Name: n}
	}
	return out
}

func TestKnockoutDrawRoundLabels(t *testing.T) {
	cases := []struct {
		teams       int
		wantRound   string
		wantMatches int
	}{
		{2, "Final", 1},
		{4, "Semifinal", 2},
		{8, "Cuartos de Final", 4},
		{16, "Octavos de Final", 8},
		{32, "Dieciseisavos de Final", 16},
	}

	for _, tc := range cases {
		names := make([]string, tc.teams)
		for i := range names {
			names[i] = string(rune('A' + i%26))
		}
		// Make names unique beyond 26 teams.
		for i := 26; i < len(names); i++ {
			names[i] = names[i] + names[i]
		}

		matches, err := NewKnockoutGenerator().GenerateDraw(GenerateDrawParams{
			TournamentID: 1,
			Teams:        teams(names...),
		})
		require.NoError(t, err)
		assert.Len(t, matches, tc.wantMatches, "%d teams", tc.teams)
		for _, m := range matches {
			assert.Equal(t, tc.wantRound, m.Round)
			assert.Equal(t, models.MatchStatusScheduled, m.Status)
			assert.Equal(t, models.WinnerNone, m.Winner)
		}
	}
}

func TestKnockoutDrawGivesByesToTheTopOfTheList(t *testing.T) {
	matches, err := NewKnockoutGenerator().GenerateDraw(GenerateDrawParams{
		TournamentID: 1,
		Teams:        teams("Seed1", "Seed2", "Seed3", "Pair4", "Pair5", "Pair6"),
	})
	require.NoError(t, err)

	// 6 teams fill an 8-slot bracket: 2 byes, so only 4 teams play.
	require.Len(t, matches, 2)
	assert.Equal(t, "Cuartos de Final", matches[0].Round)
	assert.Equal(t, "Seed3", matches[0].Team1Name)
	assert.Equal(t, "Pair4", matches[0].Team2Name)
	assert.Equal(t, "Pair5", matches[1].Team1Name)
	assert.Equal(t, "Pair6", matches[1].Team2Name)
	assert.Equal(t, 1, matches[0].MatchNumber)
	assert.Equal(t, 2, matches[1].MatchNumber)
}

func TestKnockoutDrawBounds(t *testing.T) {
	_, err := NewKnockoutGenerator().GenerateDraw(GenerateDrawParams{Teams: teams("Solo")})
	assert.Error(t, err)

	tooMany := make([]string, 33)
	for i := range tooMany {
		tooMany[i] = string(rune('A'+i%26)) + string(rune('0'+i/26))
	}
	_, err = NewKnockoutGenerator().GenerateDraw(GenerateDrawParams{Teams: teams(tooMany...)})
	assert.Error(t, err)
}

func TestAmericanaDrawEveryPairOnce(t *testing.T) {
	matches, err := NewAmericanaGenerator().GenerateDraw(GenerateDrawParams{
		TournamentID: 1,
		Teams:        teams("A", "B", "C", "D"),
	})
	require.NoError(t, err)

	require.Len(t, matches, 6)
	seen := make(map[string]bool)
	for _, m := range matches {
		assert.Equal(t, "Liga", m.Round)
		key := m.Team1Name + "-" + m.Team2Name
		assert.False(t, seen[key], "duplicate pairing %s", key)
		seen[key] = true
	}
}

func TestAmericanaDrawCustomLabel(t *testing.T) {
	g := &AmericanaGenerator{RoundLabel: "Fase de Grupos"}
	matches, err := g.GenerateDraw(GenerateDrawParams{Teams: teams("A", "B")})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Fase de Grupos", matches[0].Round)
}

func TestDrawPlayersAreOptional(t *testing.T) {
	matches, err := NewKnockoutGenerator().GenerateDraw(GenerateDrawParams{
		Teams: []Team{
			{Name: "Los Tigres", Player1: "Ana", Player2: "Luis"},
			{Name: "Smash Bros"},
		},
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)

	require.NotNil(t, matches[0].Team1Player1)
	assert.Equal(t, "Ana", *matches[0].Team1Player1)
	assert.Nil(t, matches[0].Team2Player1)
}

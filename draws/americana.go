package draws

import (
	"fmt"

	"github.com/padelops/club-system/models"
)

// AmericanaGenerator builds a league-style draw where every team plays
// every other team once. All matches share one round label, so the
// standings come down to wins and losses alone.
type AmericanaGenerator struct {
	// RoundLabel defaults to "Liga" when empty.
	RoundLabel string
}

func NewAmericanaGenerator() Generator {
	return &AmericanaGenerator{}
}

func (g *AmericanaGenerator) Name() string {
	return "Americana"
}

func (g *AmericanaGenerator) GenerateDraw(params GenerateDrawParams) ([]models.Match, error) {
	teams := params.Teams
	if len(teams) < 2 {
		return nil, fmt.Errorf("an americana draw needs at least 2 teams, got %d", len(teams))
	}

	label := g.RoundLabel
	if label == "" {
		label = "Liga"
	}

	matches := make([]models.Match, 0, len(teams)*(len(teams)-1)/2)
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			t1, t2 := teams[i], teams[j]
			matches = append(matches, models.Match{
				TournamentID: params.TournamentID,
				Round:        label,
				MatchNumber:  len(matches) + 1,
				Team1Name:    t1.Name,
				Team1Player1: optional(t1.Player1),
				Team1Player2: optional(t1.Player2),
				Team2Name:    t2.Name,
				Team2Player1: optional(t2.Player1),
				Team2Player2: optional(t2.Player2),
				Status:       models.MatchStatusScheduled,
				Winner:       models.WinnerNone,
			})
		}
	}
	return matches, nil
}

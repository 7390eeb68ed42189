package draws

import (
	"errors"
	"fmt"
	"math"

	"github.com/padelops/club-system/models"
)

// bracketRoundNames maps the number of teams still in contention to the
// conventional Spanish round label.
var bracketRoundNames = map[int]string{
	2:  "Final",
	4:  "Semifinal",
	8:  "Cuartos de Final",
	16: "Octavos de Final",
	32: "Dieciseisavos de Final",
}

const maxKnockoutTeams = 32

type KnockoutGenerator struct{}

func NewKnockoutGenerator() Generator {
	return &KnockoutGenerator{}
}

func (g *KnockoutGenerator) Name() string {
	return "Knockout"
}

// GenerateDraw pairs teams in entry order into the opening round of a
// single elimination bracket. When the field is not a power of two, the
// top of the list gets byes and sits out until the next round.
func (g *KnockoutGenerator) GenerateDraw(params GenerateDrawParams) ([]models.Match, error) {
	teams := params.Teams
	n := len(teams)

	if n < 2 {
		return nil, errors.New("a knockout draw needs at least 2 teams")
	}
	if n > maxKnockoutTeams {
		return nil, fmt.Errorf("a knockout draw supports at most %d teams, got %d", maxKnockoutTeams, n)
	}

	numRounds := int(math.Ceil(math.Log2(float64(n))))
	bracketSize := 1 << uint(numRounds)
	numByes := bracketSize - n

	roundName, ok := bracketRoundNames[bracketSize]
	if !ok {
		return nil, fmt.Errorf("no round label for bracket size %d", bracketSize)
	}

	// Teams with a bye are skipped from the front; the remaining ones are
	// paired neighbour against neighbour.
	playing := teams[numByes:]

	matches := make([]models.Match, 0, len(playing)/2)
	for i := 0; i+1 < len(playing); i += 2 {
		t1, t2 := playing[i], playing[i+1]
		matches = append(matches, models.Match{
			TournamentID: params.TournamentID,
			Round:        roundName,
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
	return matches, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

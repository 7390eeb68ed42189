package draws

import (
	"github.com/padelops/club-system/models"
)

// Team is one pair entering a draw.
type Team struct {
	Name    string
	Player1 string
	Player2 string
}

type GenerateDrawParams struct {
	TournamentID int
	Teams        []Team
}

// Generator produces the initial set of matches for one tournament
// category. Later knockout rounds are created as results come in, so
// generators only emit matches with both teams known.
type Generator interface {
	GenerateDraw(params GenerateDrawParams) ([]models.Match, error)
	Name() string
}

package rankings

import (
	"sort"
	"strings"

	"github.com/padelops/club-system/models"
)

// CategoryGeneral is the implicit bucket used when a tournament defines no
// categories of its own.
const CategoryGeneral = "general"

// unknownRoundPriority sorts teams whose furthest round is unrecognized (or
// who never won a match) after every known knockout stage.
const unknownRoundPriority = 99

var roundPriorities = map[string]int{
	"final":                  1,
	"semifinal":              2,
	"cuartos de final":       3,
	"octavos de final":       4,
	"dieciseisavos de final": 5,
}

// RoundPriority returns the seniority rank of a knockout round label.
// Lower is deeper into the bracket; unrecognized labels rank last.
func RoundPriority(round string) int {
	if p, ok := roundPriorities[strings.ToLower(strings.TrimSpace(round))]; ok {
		return p
	}
	return unknownRoundPriority
}

type teamAggregate struct {
	name         string
	wins         int
	losses       int
	lastWinRound string
}

// ComputeFinalRankings partitions a tournament's matches into categories and
// produces the final standings for each. Only completed matches count;
// cancelled or unfinished matches neither help nor hurt either team.
//
// Within a category, teams are ordered by the priority of the last round they
// won (deeper rounds first), then by wins descending, then by losses
// ascending. Teams tied on all three keep the order in which they first
// appeared in the match list. Positions are dense 1..N.
//
// Categories with no completed matches are absent from the result; the
// function itself never fails.
func ComputeFinalRankings(matches []models.Match, categories []models.Category) map[string][]models.RankingEntry {
	partitions := partitionByCategory(matches, categories)

	result := make(map[string][]models.RankingEntry, len(partitions))
	for category, categoryMatches := range partitions {
		entries := rankCategory(categoryMatches)
		if len(entries) == 0 {
			continue
		}
		for i := range entries {
			entries[i].Category = category
		}
		result[category] = entries
	}
	return result
}

// partitionByCategory assigns each match to the first category whose known
// rounds contain the match's round label, falling back to a case-insensitive
// substring match of the category name inside the label. The fallback covers
// legacy tournaments created before explicit category-round mappings existed.
func partitionByCategory(matches []models.Match, categories []models.Category) map[string][]models.Match {
	partitions := make(map[string][]models.Match)

	if len(categories) == 0 {
		if len(matches) > 0 {
			partitions[CategoryGeneral] = matches
		}
		return partitions
	}

	for _, m := range matches {
		for _, c := range categories {
			if matchBelongsToCategory(m, c) {
				partitions[c.Name] = append(partitions[c.Name], m)
				break
			}
		}
	}
	return partitions
}

func matchBelongsToCategory(m models.Match, c models.Category) bool {
	round := strings.ToLower(strings.TrimSpace(m.Round))
	for _, known := range c.Rounds {
		if strings.ToLower(strings.TrimSpace(known)) == round {
			return true
		}
	}
	return strings.Contains(round, strings.ToLower(c.Name))
}

func rankCategory(matches []models.Match) []models.RankingEntry {
	aggregates := make(map[string]*teamAggregate)
	order := make([]*teamAggregate, 0, len(matches)*2)

	register := func(name string) *teamAggregate {
		if agg, ok := aggregates[name]; ok {
			return agg
		}
		agg := &teamAggregate{name: name}
		aggregates[name] = agg
		order = append(order, agg)
		return agg
	}

	var tournamentID int
	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted {
			continue
		}
		tournamentID = m.TournamentID

		team1 := register(m.Team1Name)
		team2 := register(m.Team2Name)

		switch m.Winner {
		case models.WinnerTeam1:
			team1.wins++
			team1.lastWinRound = m.Round
			team2.losses++
		case models.WinnerTeam2:
			team2.wins++
			team2.lastWinRound = m.Round
			team1.losses++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		pa, pb := RoundPriority(a.lastWinRound), RoundPriority(b.lastWinRound)
		if pa != pb {
			return pa < pb
		}
		if a.wins != b.wins {
			return a.wins > b.wins
		}
		return a.losses < b.losses
	})

	entries := make([]models.RankingEntry, len(order))
	for i, agg := range order {
		entries[i] = models.RankingEntry{
			TournamentID: tournamentID,
			TeamName:     agg.name,
			Wins:         agg.wins,
			Losses:       agg.losses,
			FinalRound:   agg.lastWinRound,
			Position:     i + 1,
		}
	}
	return entries
}

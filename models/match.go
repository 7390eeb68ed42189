package models

import "time"

// MatchStatus mirrors the match status ENUM in the database.
type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusCancelled  MatchStatus = "cancelled"
)

// MatchWinner designates which side of a match won.
type MatchWinner string

const (
	WinnerTeam1 MatchWinner = "team1"
	WinnerTeam2 MatchWinner = "team2"
	WinnerNone  MatchWinner = "none"
)

// Match is a single tournament match. Team identity is carried as embedded
// display names rather than foreign keys: pairs are registered ad hoc per
// tournament and the same pair is matched across rounds by name equality.
type Match struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	Round        string `json:"round" db:"round"`
	MatchNumber  int    `json:"match_number" db:"match_number"`

	Team1Name    string  `json:"team1_name" db:"team1_name"`
	Team1Player1 *string `json:"team1_player1,omitempty" db:"team1_player1"`
	Team1Player2 *string `json:"team1_player2,omitempty" db:"team1_player2"`
	Team2Name    string  `json:"team2_name" db:"team2_name"`
	Team2Player1 *string `json:"team2_player1,omitempty" db:"team2_player1"`
	Team2Player2 *string `json:"team2_player2,omitempty" db:"team2_player2"`

	Status MatchStatus `json:"status" db:"status"`
	Winner MatchWinner `json:"winner" db:"winner"`

	// Result dispute flags. A completed match enters the final standings
	// computation only when at least one of them is set.
	ConflictResolved bool `json:"conflict_resolved" db:"conflict_resolved"`
	ResultsConfirmed bool `json:"results_confirmed" db:"results_confirmed"`

	ScheduledAt time.Time `json:"scheduled_at" db:"scheduled_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// WinnerName returns the display name of the winning team, or "" when the
// match has no winner designated.
func (m Match) WinnerName() string {
	switch m.Winner {
	case WinnerTeam1:
		return m.Team1Name
	case WinnerTeam2:
		return m.Team2Name
	default:
		return ""
	}
}

// LoserName returns the display name of the losing team, or "" when the
// match has no winner designated.
func (m Match) LoserName() string {
	switch m.Winner {
	case WinnerTeam1:
		return m.Team2Name
	case WinnerTeam2:
		return m.Team1Name
	default:
		return ""
	}
}

package models

import "time"

// RankingEntry is one row of a tournament's final standings, computed per
// category when the tournament is finalized.
type RankingEntry struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Category     string    `json:"category" db:"category"`
	TeamName     string    `json:"team_name" db:"team_name"`
	Wins         int       `json:"wins" db:"wins"`
	Losses       int       `json:"losses" db:"losses"`
	FinalRound   string    `json:"final_round" db:"final_round"`
	Position     int       `json:"position" db:"position"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

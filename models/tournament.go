package models

import (
	"time"

	"github.com/lib/pq"
)

// TournamentStatus mirrors the tournament status ENUM in the database.
type TournamentStatus string

const (
	StatusDraft              TournamentStatus = "draft"
	StatusRegistrationOpen   TournamentStatus = "registration_open"
	StatusRegistrationClosed TournamentStatus = "registration_closed"
	StatusActive             TournamentStatus = "active"
	StatusCompleted          TournamentStatus = "completed"
	StatusCancelled          TournamentStatus = "cancelled"
)

type Tournament struct {
	ID          int              `json:"id" db:"id"`
	ClubID      int              `json:"club_id" db:"club_id"`
	Name        string           `json:"name" db:"name"`
	Description *string          `json:"description,omitempty" db:"description"`
	StartDate   time.Time        `json:"start_date" db:"start_date"`
	EndDate     time.Time        `json:"end_date" db:"end_date"`
	Status      TournamentStatus `json:"status" db:"status"`
	MaxTeams    int              `json:"max_teams" db:"max_teams"`
	EntryFee    int64            `json:"entry_fee_cents" db:"entry_fee_cents"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`

	// Optional linked data, populated by the service layer.
	Categories []Category     `json:"categories,omitempty" db:"-"`
	Matches    []Match        `json:"matches,omitempty" db:"-"`
	Rankings   []RankingEntry `json:"rankings,omitempty" db:"-"`
}

// Category is a named sub-competition within a tournament (e.g. a skill
// bracket). Rounds lists the round labels known to belong to this category;
// legacy tournaments may leave it empty and rely on the round label carrying
// the category name.
type Category struct {
	ID           int            `json:"id" db:"id"`
	TournamentID int            `json:"tournament_id" db:"tournament_id"`
	Name         string         `json:"name" db:"name"`
	Rounds       pq.StringArray `json:"rounds" db:"rounds"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

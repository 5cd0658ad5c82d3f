package models

import "time"

// TournamentFormat matches the format ENUM in the database.
type TournamentFormat string

const (
	FormatRoundRobin        TournamentFormat = "round_robin"
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatSwiss             TournamentFormat = "swiss"
)

// TournamentStatus matches the tournament status ENUM in the database.
type TournamentStatus string

const (
	TournamentStatusUpcoming   TournamentStatus = "upcoming"
	TournamentStatusInProgress TournamentStatus = "in_progress"
	TournamentStatusCompleted  TournamentStatus = "completed"
)

type Tournament struct {
	ID           int              `json:"id" db:"id"`
	ServerID     int              `json:"server_id" db:"server_id"`
	Name         string           `json:"name" db:"name"`
	Format       TournamentFormat `json:"format" db:"format"`
	Status       TournamentStatus `json:"status" db:"status"`
	CurrentRound int              `json:"current_round" db:"current_round"`
	SwissRounds  int              `json:"swiss_rounds" db:"swiss_rounds"`
	IsFrozen     bool             `json:"is_frozen" db:"is_frozen"`
	OrganizerID  int              `json:"organizer_id" db:"organizer_id"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`

	// Optional related entities, loaded on demand.
	Teams   []Team  `json:"teams,omitempty" db:"-"`
	Matches []Match `json:"matches,omitempty" db:"-"`
}

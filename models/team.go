package models

import "time"

type Team struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	Wins         int       `json:"wins" db:"wins"`
	Losses       int       `json:"losses" db:"losses"`
	Points       int       `json:"points" db:"points"`
	IsRemoved    bool      `json:"is_removed" db:"is_removed"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Members []User `json:"members,omitempty" db:"-"`
}

package models

import "time"

// MatchStatus matches the match status ENUM in the database.
// A match only ever moves forward: pending -> completed.
type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
)

// Match is one game between two teams. Team1ID/Team2ID may be nil while the
// slot is waiting on an earlier match's outcome (TBD bracket slot, or a bye).
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Round        int         `json:"round" db:"round"`
	// OrderInRound is the match's position inside its bracket round,
	// assigned by the single-elimination generator. Organizer-created
	// matches carry no position and never feed a bracket slot.
	OrderInRound *int        `json:"order_in_round,omitempty" db:"order_in_round"`
	Team1ID      *int        `json:"team1_id" db:"team1_id"`
	Team2ID      *int        `json:"team2_id" db:"team2_id"`
	Status       MatchStatus `json:"status" db:"status"`
	WinnerID     *int        `json:"winner_id,omitempty" db:"winner_id"`
	Team1Score   *int        `json:"team1_score,omitempty" db:"team1_score"`
	Team2Score   *int        `json:"team2_score,omitempty" db:"team2_score"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	Team1 *Team `json:"team1,omitempty" db:"-"`
	Team2 *Team `json:"team2,omitempty" db:"-"`
}

// HasTeam reports whether teamID occupies either slot of the match.
func (m *Match) HasTeam(teamID int) bool {
	if m.Team1ID != nil && *m.Team1ID == teamID {
		return true
	}
	return m.Team2ID != nil && *m.Team2ID == teamID
}

package brackets

import (
	"github.com/raheem101000-netizen/gamehub/models"
)

// PairingParams carries everything a generator needs. Generators are pure:
// the same params always produce the same match list, and no I/O happens.
type PairingParams struct {
	TournamentID int
	// Teams in registration order. Teams flagged IsRemoved are skipped.
	Teams []models.Team
	// Round is the round being paired (Swiss only; others ignore it).
	Round int
	// History is the full match list played so far (Swiss only).
	History []models.Match
}

// PairingGenerator produces the match records for a tournament format.
// Returned matches are unsaved (zero IDs); the progression engine persists
// them. Fewer than two active teams yields an empty list, not an error.
type PairingGenerator interface {
	GeneratePairings(params PairingParams) ([]*models.Match, error)
	Name() string
}

// ForFormat returns the generator for a tournament format, or nil if the
// format is unknown.
func ForFormat(format models.TournamentFormat) PairingGenerator {
	switch format {
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator()
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator()
	case models.FormatSwiss:
		return NewSwissGenerator()
	default:
		return nil
	}
}

// activeTeams filters out soft-eliminated teams, preserving input order.
func activeTeams(teams []models.Team) []models.Team {
	out := make([]models.Team, 0, len(teams))
	for _, t := range teams {
		if !t.IsRemoved {
			out = append(out, t)
		}
	}
	return out
}

func intPtr(v int) *int { return &v }

package brackets

import (
	"github.com/raheem101000-netizen/gamehub/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() PairingGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string { return "RoundRobin" }

// GeneratePairings produces every unordered pair of active teams as a
// round-1 match; scheduling into game days is not modeled. Odd team counts
// need no bye: every team simply plays N-1 matches.
func (g *RoundRobinGenerator) GeneratePairings(params PairingParams) ([]*models.Match, error) {
	teams := activeTeams(params.Teams)
	if len(teams) < 2 {
		return []*models.Match{}, nil
	}

	matches := make([]*models.Match, 0, len(teams)*(len(teams)-1)/2)
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			matches = append(matches, &models.Match{
				TournamentID: params.TournamentID,
				Round:        1,
				Team1ID:      intPtr(teams[i].ID),
				Team2ID:      intPtr(teams[j].ID),
				Status:       models.MatchStatusPending,
			})
		}
	}
	return matches, nil
}

package brackets

import (
	"math"

	"github.com/raheem101000-netizen/gamehub/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() PairingGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string { return "SingleElimination" }

// GeneratePairings builds the whole bracket up front. Active teams are
// paired in input order into round-1 matches; a non-power-of-two roster
// leaves the trailing team in a one-slot bye match, which stays pending
// until an organizer records its winner. Every later round is pre-created
// with both slots nil. Each match records its position in its round; the
// round-R match at position i is fed by the round R-1 matches at positions
// 2i and 2i+1 (winner of 2i fills team1, winner of 2i+1 fills team2).
func (g *SingleEliminationGenerator) GeneratePairings(params PairingParams) ([]*models.Match, error) {
	teams := activeTeams(params.Teams)
	n := len(teams)
	if n < 2 {
		return []*models.Match{}, nil
	}

	numRounds := int(math.Ceil(math.Log2(float64(n))))
	matches := make([]*models.Match, 0)

	// Round 1: consecutive pairs, trailing odd team gets a one-slot match.
	for i := 0; i < n; i += 2 {
		m := &models.Match{
			TournamentID: params.TournamentID,
			Round:        1,
			OrderInRound: intPtr(i / 2),
			Team1ID:      intPtr(teams[i].ID),
			Status:       models.MatchStatusPending,
		}
		if i+1 < n {
			m.Team2ID = intPtr(teams[i+1].ID)
		}
		matches = append(matches, m)
	}

	matchesInRound := (n + 1) / 2
	for r := 2; r <= numRounds; r++ {
		matchesInRound = (matchesInRound + 1) / 2
		for i := 0; i < matchesInRound; i++ {
			matches = append(matches, &models.Match{
				TournamentID: params.TournamentID,
				Round:        r,
				OrderInRound: intPtr(i),
				Status:       models.MatchStatusPending,
			})
		}
	}

	return matches, nil
}

package brackets

import (
	"sort"

	"github.com/raheem101000-netizen/gamehub/models"
)

type SwissGenerator struct{}

func NewSwissGenerator() PairingGenerator {
	return &SwissGenerator{}
}

func (g *SwissGenerator) Name() string { return "Swiss" }

// GeneratePairings pairs teams of similar standing for params.Round.
// Ordering is points desc, wins desc, then stable input order, so the
// result is deterministic for identical inputs. Teams are paired with the
// nearest lower neighbour they have not met yet; if every remaining
// candidate is a rematch, the nearest neighbour is used anyway. With an odd
// team count the lowest-ranked unpaired team sits the round out.
func (g *SwissGenerator) GeneratePairings(params PairingParams) ([]*models.Match, error) {
	teams := activeTeams(params.Teams)
	if len(teams) < 2 {
		return []*models.Match{}, nil
	}

	order := make([]int, len(teams))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := teams[order[a]], teams[order[b]]
		if ta.Points != tb.Points {
			return ta.Points > tb.Points
		}
		return ta.Wins > tb.Wins
	})

	played := playedPairs(params.History)

	paired := make([]bool, len(teams))
	matches := make([]*models.Match, 0, len(teams)/2)

	for a := 0; a < len(order); a++ {
		i := order[a]
		if paired[i] {
			continue
		}
		opponent := -1
		fallback := -1
		for b := a + 1; b < len(order); b++ {
			j := order[b]
			if paired[j] {
				continue
			}
			if fallback == -1 {
				fallback = j
			}
			if !played[pairKey(teams[i].ID, teams[j].ID)] {
				opponent = j
				break
			}
		}
		if opponent == -1 {
			opponent = fallback
		}
		if opponent == -1 {
			break // odd team count, i sits out
		}
		paired[i] = true
		paired[opponent] = true
		matches = append(matches, &models.Match{
			TournamentID: params.TournamentID,
			Round:        params.Round,
			Team1ID:      intPtr(teams[i].ID),
			Team2ID:      intPtr(teams[opponent].ID),
			Status:       models.MatchStatusPending,
		})
	}

	return matches, nil
}

func playedPairs(history []models.Match) map[[2]int]bool {
	played := make(map[[2]int]bool, len(history))
	for _, m := range history {
		if m.Team1ID == nil || m.Team2ID == nil {
			continue
		}
		played[pairKey(*m.Team1ID, *m.Team2ID)] = true
	}
	return played
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

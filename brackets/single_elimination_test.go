package brackets

import (
	"math"
	"testing"

	"github.com/raheem101000-netizen/gamehub/models"
)

func matchesByRound(matches []*models.Match) map[int][]*models.Match {
	byRound := make(map[int][]*models.Match)
	for _, m := range matches {
		byRound[m.Round] = append(byRound[m.Round], m)
	}
	return byRound
}

func TestSingleElimination_FourTeams(t *testing.T) {
	g := NewSingleEliminationGenerator()
	matches, err := g.GeneratePairings(PairingParams{TournamentID: 1, Teams: testTeams(1, 2, 3, 4)})
	if err != nil {
		t.Fatalf("GeneratePairings() error = %v", err)
	}

	byRound := matchesByRound(matches)
	if len(byRound[1]) != 2 || len(byRound[2]) != 1 {
		t.Fatalf("round sizes = {1:%d, 2:%d}, want {1:2, 2:1}", len(byRound[1]), len(byRound[2]))
	}

	r1 := byRound[1]
	if *r1[0].Team1ID != 1 || *r1[0].Team2ID != 2 {
		t.Errorf("first pair = (%v, %v), want (1, 2)", *r1[0].Team1ID, *r1[0].Team2ID)
	}
	if *r1[1].Team1ID != 3 || *r1[1].Team2ID != 4 {
		t.Errorf("second pair = (%v, %v), want (3, 4)", *r1[1].Team1ID, *r1[1].Team2ID)
	}

	final := byRound[2][0]
	if final.Team1ID != nil || final.Team2ID != nil {
		t.Error("final match slots must be nil until feeders complete")
	}
}

func TestSingleElimination_RoundStructure(t *testing.T) {
	g := NewSingleEliminationGenerator()
	for n := 2; n <= 16; n++ {
		ids := make([]int, n)
		for i := range ids {
			ids[i] = i + 1
		}
		matches, err := g.GeneratePairings(PairingParams{TournamentID: 1, Teams: testTeams(ids...)})
		if err != nil {
			t.Fatalf("n=%d: GeneratePairings() error = %v", n, err)
		}

		byRound := matchesByRound(matches)
		wantRounds := int(math.Ceil(math.Log2(float64(n))))
		if len(byRound) != wantRounds {
			t.Errorf("n=%d: %d rounds, want %d", n, len(byRound), wantRounds)
		}
		for r := 2; r <= wantRounds; r++ {
			prev := len(byRound[r-1])
			want := (prev + 1) / 2
			if len(byRound[r]) != want {
				t.Errorf("n=%d: round %d has %d matches, want %d (half of %d rounded up)", n, r, len(byRound[r]), want, prev)
			}
		}
		for r, round := range byRound {
			for i, m := range round {
				if m.OrderInRound == nil || *m.OrderInRound != i {
					t.Errorf("n=%d: round %d match %d has position %v, want %d", n, r, i, m.OrderInRound, i)
				}
			}
		}
	}
}

func TestSingleElimination_OddCountGetsBye(t *testing.T) {
	g := NewSingleEliminationGenerator()
	matches, err := g.GeneratePairings(PairingParams{TournamentID: 1, Teams: testTeams(1, 2, 3, 4, 5)})
	if err != nil {
		t.Fatalf("GeneratePairings() error = %v", err)
	}

	byRound := matchesByRound(matches)
	bye := byRound[1][2]
	if bye.Team1ID == nil || *bye.Team1ID != 5 {
		t.Fatalf("bye match team1 = %v, want 5", bye.Team1ID)
	}
	if bye.Team2ID != nil {
		t.Error("bye match team2 must be nil")
	}
	if bye.Status != models.MatchStatusPending {
		t.Errorf("bye match status = %s, want pending (never auto-completed)", bye.Status)
	}
}

func TestSingleElimination_TooFewTeams(t *testing.T) {
	g := NewSingleEliminationGenerator()
	teams := testTeams(1, 2)
	teams[0].IsRemoved = true
	matches, err := g.GeneratePairings(PairingParams{TournamentID: 1, Teams: teams})
	if err != nil {
		t.Fatalf("GeneratePairings() error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches, want 0 with a single active team", len(matches))
	}
}

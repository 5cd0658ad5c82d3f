package brackets

import (
	"reflect"
	"testing"

	"github.com/raheem101000-netizen/gamehub/models"
)

func swissTeams(t *testing.T, stats ...[3]int) []models.Team {
	t.Helper()
	teams := make([]models.Team, 0, len(stats))
	for _, s := range stats {
		teams = append(teams, models.Team{ID: s[0], TournamentID: 1, Points: s[1], Wins: s[2]})
	}
	return teams
}

func TestSwiss_PairsAdjacentByPoints(t *testing.T) {
	// Standings order: 3 (6pts), 1 (3pts), 4 (3pts), 2 (0pts).
	teams := swissTeams(t,
		[3]int{1, 3, 1},
		[3]int{2, 0, 0},
		[3]int{3, 6, 2},
		[3]int{4, 3, 1},
	)

	g := NewSwissGenerator()
	matches, err := g.GeneratePairings(PairingParams{TournamentID: 1, Teams: teams, Round: 3})
	if err != nil {
		t.Fatalf("GeneratePairings() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if *matches[0].Team1ID != 3 || *matches[0].Team2ID != 1 {
		t.Errorf("top pair = (%d, %d), want (3, 1)", *matches[0].Team1ID, *matches[0].Team2ID)
	}
	if *matches[1].Team1ID != 4 || *matches[1].Team2ID != 2 {
		t.Errorf("bottom pair = (%d, %d), want (4, 2)", *matches[1].Team1ID, *matches[1].Team2ID)
	}
	for _, m := range matches {
		if m.Round != 3 {
			t.Errorf("match round = %d, want 3", m.Round)
		}
	}
}

func TestSwiss_AvoidsRematch(t *testing.T) {
	teams := swissTeams(t,
		[3]int{1, 3, 1},
		[3]int{2, 3, 1},
		[3]int{3, 0, 0},
		[3]int{4, 0, 0},
	)
	history := []models.Match{
		{Team1ID: intPtr(1), Team2ID: intPtr(2), Status: models.MatchStatusCompleted},
		{Team1ID: intPtr(3), Team2ID: intPtr(4), Status: models.MatchStatusCompleted},
	}

	g := NewSwissGenerator()
	matches, err := g.GeneratePairings(PairingParams{TournamentID: 1, Teams: teams, Round: 2, History: history})
	if err != nil {
		t.Fatalf("GeneratePairings() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	// 1 would meet 2 again; it must skip ahead to 3 instead.
	if *matches[0].Team1ID != 1 || *matches[0].Team2ID != 3 {
		t.Errorf("top pair = (%d, %d), want (1, 3)", *matches[0].Team1ID, *matches[0].Team2ID)
	}
	if *matches[1].Team1ID != 2 || *matches[1].Team2ID != 4 {
		t.Errorf("second pair = (%d, %d), want (2, 4)", *matches[1].Team1ID, *matches[1].Team2ID)
	}
}

func TestSwiss_RematchFallbackWhenUnavoidable(t *testing.T) {
	teams := swissTeams(t, [3]int{1, 3, 1}, [3]int{2, 0, 0})
	history := []models.Match{
		{Team1ID: intPtr(1), Team2ID: intPtr(2), Status: models.MatchStatusCompleted},
	}

	g := NewSwissGenerator()
	matches, err := g.GeneratePairings(PairingParams{TournamentID: 1, Teams: teams, Round: 2, History: history})
	if err != nil {
		t.Fatalf("GeneratePairings() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1 (rematch fallback)", len(matches))
	}
}

func TestSwiss_Deterministic(t *testing.T) {
	teams := swissTeams(t,
		[3]int{1, 3, 1}, [3]int{2, 3, 1}, [3]int{3, 3, 1},
		[3]int{4, 0, 0}, [3]int{5, 0, 0}, [3]int{6, 0, 0},
	)

	g := NewSwissGenerator()
	first, err := g.GeneratePairings(PairingParams{TournamentID: 1, Teams: teams, Round: 2})
	if err != nil {
		t.Fatalf("GeneratePairings() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := g.GeneratePairings(PairingParams{TournamentID: 1, Teams: teams, Round: 2})
		if err != nil {
			t.Fatalf("GeneratePairings() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatal("same inputs produced different pairings")
		}
	}
}

func TestSwiss_OddTeamSitsOut(t *testing.T) {
	teams := swissTeams(t, [3]int{1, 6, 2}, [3]int{2, 3, 1}, [3]int{3, 0, 0})

	g := NewSwissGenerator()
	matches, err := g.GeneratePairings(PairingParams{TournamentID: 1, Teams: teams, Round: 2})
	if err != nil {
		t.Fatalf("GeneratePairings() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].HasTeam(3) {
		t.Error("lowest-ranked team should sit the round out")
	}
}

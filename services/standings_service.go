package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/raheem101000-netizen/gamehub/models"
	"github.com/raheem101000-netizen/gamehub/repositories"
	"golang.org/x/sync/errgroup"
)

// StandingsService computes the standings table from team counters.
type StandingsService interface {
	GetStandings(ctx context.Context, tournamentID int) ([]models.TeamStanding, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
	}
}

// GetStandings orders teams by points desc, wins desc, id asc. Teams and
// matches are fetched in parallel; played counts come from completed
// matches.
func (s *standingsService) GetStandings(ctx context.Context, tournamentID int) ([]models.TeamStanding, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, ErrTournamentNotFound
	}

	var (
		teams   []models.Team
		matches []models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListByTournament(gCtx, tournamentID)
		return err
	})
	g.Go(func() error {
		completed := models.MatchStatusCompleted
		var err error
		matches, err = s.matchRepo.ListByTournament(gCtx, tournamentID, nil, &completed)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load standings data for tournament %d: %w", tournamentID, err)
	}

	played := make(map[int]int, len(teams))
	for _, m := range matches {
		if m.Team1ID != nil {
			played[*m.Team1ID]++
		}
		if m.Team2ID != nil {
			played[*m.Team2ID]++
		}
	}

	standings := make([]models.TeamStanding, 0, len(teams))
	for _, t := range teams {
		if t.IsRemoved {
			continue
		}
		standings = append(standings, models.TeamStanding{
			TeamID:   t.ID,
			TeamName: t.Name,
			Played:   played[t.ID],
			Wins:     t.Wins,
			Losses:   t.Losses,
			Points:   t.Points,
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].TeamID < standings[j].TeamID
	})
	for i := range standings {
		standings[i].Position = i + 1
	}

	return standings, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/raheem101000-netizen/gamehub/brackets"
	"github.com/raheem101000-netizen/gamehub/models"
	"github.com/raheem101000-netizen/gamehub/repositories"
)

// Points awarded to the winner of a completed match.
const winPoints = 3

// ProgressionService drives a tournament forward: it generates pairings,
// applies match results, keeps team counters, advances brackets and Swiss
// rounds, and provisions chat threads for every match it creates.
type ProgressionService interface {
	// GenerateMatches runs the format's pairing generator and persists the
	// produced matches. For Swiss this creates round 1.
	GenerateMatches(ctx context.Context, tournamentID int) ([]models.Match, error)
	// ApplyResult records a full score update and completes the match.
	ApplyResult(ctx context.Context, matchID, winnerID int, team1Score, team2Score *int) (*models.Match, error)
	// SelectWinner completes the match without scores.
	SelectWinner(ctx context.Context, matchID, winnerID int) (*models.Match, error)
	// CreateCustomMatch creates (or reuses) a match between two explicitly
	// chosen teams, outside any generator.
	CreateCustomMatch(ctx context.Context, tournamentID, team1ID, team2ID int) (*models.Match, error)
	// RelinkMatch points a pending match at two different teams and
	// provisions threads for the new members.
	RelinkMatch(ctx context.Context, matchID, team1ID, team2ID int) (*models.Match, error)
	ListMatches(ctx context.Context, tournamentID int) ([]models.Match, error)
}

type progressionService struct {
	tx             repositories.TxRunner
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	threads        ThreadProvisioner
	logger         *slog.Logger
}

func NewProgressionService(
	tx repositories.TxRunner,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	threads ThreadProvisioner,
	logger *slog.Logger,
) ProgressionService {
	return &progressionService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		threads:        threads,
		logger:         logger,
	}
}

func (s *progressionService) GenerateMatches(ctx context.Context, tournamentID int) ([]models.Match, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.IsFrozen {
		return nil, ErrTournamentFrozen
	}

	existing, err := s.matchRepo.ListByTournament(ctx, tournamentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing matches: %w", err)
	}
	if len(existing) > 0 {
		return nil, ErrMatchesAlreadyGenerated
	}

	generator := brackets.ForFormat(tournament.Format)
	if generator == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, tournament.Format)
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
	}

	generated, err := generator.GeneratePairings(brackets.PairingParams{
		TournamentID: tournamentID,
		Teams:        teams,
		Round:        1,
	})
	if err != nil {
		return nil, fmt.Errorf("pairing generation failed for tournament %d: %w", tournamentID, err)
	}
	if len(generated) == 0 {
		return []models.Match{}, nil
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, m := range generated {
			if err := s.matchRepo.Create(ctx, exec, m); err != nil {
				return err
			}
		}
		if tournament.Format == models.FormatSwiss {
			if err := s.tournamentRepo.UpdateCurrentRound(ctx, exec, tournamentID, 1); err != nil {
				return err
			}
		}
		return s.tournamentRepo.UpdateStatus(ctx, exec, tournamentID, models.TournamentStatusInProgress)
	})
	if err != nil {
		return nil, err
	}

	matches := make([]models.Match, 0, len(generated))
	for _, m := range generated {
		s.threads.EnsureForMatch(ctx, m)
		matches = append(matches, *m)
	}

	s.logger.Info("matches generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("format", string(tournament.Format)),
		slog.Int("count", len(matches)))
	return matches, nil
}

func (s *progressionService) SelectWinner(ctx context.Context, matchID, winnerID int) (*models.Match, error) {
	return s.ApplyResult(ctx, matchID, winnerID, nil, nil)
}

func (s *progressionService) ApplyResult(ctx context.Context, matchID, winnerID int, team1Score, team2Score *int) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	// Idempotency guard: a replayed completion must not touch team
	// counters again.
	if match.Status == models.MatchStatusCompleted {
		return match, nil
	}

	if !match.HasTeam(winnerID) {
		return nil, ErrInvalidWinner
	}

	tournament, err := s.getTournament(ctx, match.TournamentID)
	if err != nil {
		return nil, err
	}

	var loserID *int
	if match.Team1ID != nil && *match.Team1ID != winnerID {
		loserID = match.Team1ID
	} else if match.Team2ID != nil && *match.Team2ID != winnerID {
		loserID = match.Team2ID
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		// Re-read under lock so two near-simultaneous completions cannot
		// both pass the guard.
		locked, err := s.matchRepo.GetByIDForUpdate(ctx, exec, matchID)
		if err != nil {
			return mapMatchErr(err)
		}
		if locked.Status == models.MatchStatusCompleted {
			return nil
		}
		if err := s.matchRepo.UpdateResult(ctx, exec, matchID, winnerID, team1Score, team2Score); err != nil {
			return err
		}
		if err := s.teamRepo.IncrementStats(ctx, exec, winnerID, 1, 0, winPoints); err != nil {
			return err
		}
		if loserID != nil {
			if err := s.teamRepo.IncrementStats(ctx, exec, *loserID, 0, 1, 0); err != nil {
				return err
			}
		}
		if tournament.Format == models.FormatSingleElimination {
			return s.propagateWinner(ctx, exec, tournament, match, winnerID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if tournament.Format == models.FormatSwiss {
		if err := s.maybeAdvanceSwissRound(ctx, tournament); err != nil {
			// Round advancement failing must not fail the recorded result.
			s.logger.Error("swiss round advancement failed",
				slog.Int("tournament_id", tournament.ID),
				slog.Any("error", err))
		}
	}

	updated, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("match completed",
		slog.Int("match_id", matchID),
		slog.Int("winner_id", winnerID))
	return updated, nil
}

// propagateWinner fills the winner into the next round's bracket slot.
// The round-R match at position i is fed by the round R-1 matches at
// positions 2i and 2i+1: an even feeder position fills team1, an odd one
// team2. Matches without a bracket position (organizer-created) never
// feed a slot and never complete the tournament.
func (s *progressionService) propagateWinner(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament, match *models.Match, winnerID int) error {
	if match.OrderInRound == nil {
		return nil
	}
	feederIndex := *match.OrderInRound

	all, err := s.matchRepo.ListByTournament(ctx, tournament.ID, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to load bracket for tournament %d: %w", tournament.ID, err)
	}

	nextIndex := feederIndex / 2
	var next *models.Match
	for i := range all {
		m := &all[i]
		if m.OrderInRound == nil || m.Round != match.Round+1 {
			continue
		}
		if *m.OrderInRound == nextIndex {
			next = m
			break
		}
	}

	if next == nil {
		// No follow-on bracket match: this was the final.
		if err := s.tournamentRepo.UpdateStatus(ctx, exec, tournament.ID, models.TournamentStatusCompleted); err != nil {
			return err
		}
		s.logger.Info("tournament completed",
			slog.Int("tournament_id", tournament.ID),
			slog.Int("winner_team_id", winnerID))
		return nil
	}

	slot := 1
	if feederIndex%2 == 1 {
		slot = 2
	}
	return s.matchRepo.UpdateSlot(ctx, exec, next.ID, slot, winnerID)
}

// maybeAdvanceSwissRound pairs the next Swiss round once every match of
// the current round has completed. Invoked after each completion; a no-op
// while any current-round match is still open.
func (s *progressionService) maybeAdvanceSwissRound(ctx context.Context, stale *models.Tournament) error {
	// Re-read: another completion may have advanced the round already.
	tournament, err := s.getTournament(ctx, stale.ID)
	if err != nil {
		return err
	}
	current := tournament.CurrentRound
	roundMatches, err := s.matchRepo.ListByTournament(ctx, tournament.ID, &current, nil)
	if err != nil {
		return fmt.Errorf("failed to list round %d matches: %w", current, err)
	}
	for _, m := range roundMatches {
		if m.Status != models.MatchStatusCompleted {
			return nil
		}
	}

	if current >= tournament.SwissRounds {
		return s.tournamentRepo.UpdateStatus(ctx, nil, tournament.ID, models.TournamentStatusCompleted)
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournament.ID)
	if err != nil {
		return fmt.Errorf("failed to list teams: %w", err)
	}
	history, err := s.matchRepo.ListByTournament(ctx, tournament.ID, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to load match history: %w", err)
	}

	nextRound := current + 1
	generated, err := brackets.NewSwissGenerator().GeneratePairings(brackets.PairingParams{
		TournamentID: tournament.ID,
		Teams:        teams,
		Round:        nextRound,
		History:      history,
	})
	if err != nil {
		return fmt.Errorf("swiss pairing for round %d failed: %w", nextRound, err)
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, m := range generated {
			if err := s.matchRepo.Create(ctx, exec, m); err != nil {
				return err
			}
		}
		return s.tournamentRepo.UpdateCurrentRound(ctx, exec, tournament.ID, nextRound)
	})
	if err != nil {
		return err
	}

	for _, m := range generated {
		s.threads.EnsureForMatch(ctx, m)
	}

	s.logger.Info("swiss round advanced",
		slog.Int("tournament_id", tournament.ID),
		slog.Int("round", nextRound),
		slog.Int("matches", len(generated)))
	return nil
}

func (s *progressionService) CreateCustomMatch(ctx context.Context, tournamentID, team1ID, team2ID int) (*models.Match, error) {
	if team1ID == team2ID {
		return nil, ErrSameTeamMatch
	}

	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.IsFrozen {
		return nil, ErrTournamentFrozen
	}

	if err := s.validatePair(ctx, tournamentID, team1ID, team2ID); err != nil {
		return nil, err
	}

	// Reuse an existing match between the same pair instead of duplicating.
	existing, err := s.matchRepo.FindByTeams(ctx, tournamentID, team1ID, team2ID)
	if err == nil {
		s.threads.EnsureForMatch(ctx, existing)
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrMatchNotFound) {
		return nil, err
	}

	round := tournament.CurrentRound
	if round < 1 {
		round = 1
	}
	match := &models.Match{
		TournamentID: tournamentID,
		Round:        round,
		Team1ID:      &team1ID,
		Team2ID:      &team2ID,
		Status:       models.MatchStatusPending,
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		return nil, err
	}

	s.threads.EnsureForMatch(ctx, match)
	return match, nil
}

func (s *progressionService) RelinkMatch(ctx context.Context, matchID, team1ID, team2ID int) (*models.Match, error) {
	if team1ID == team2ID {
		return nil, ErrSameTeamMatch
	}

	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	// A recorded result already moved team counters; re-pointing the
	// match afterwards would orphan them.
	if match.Status == models.MatchStatusCompleted {
		return nil, ErrMatchAlreadyCompleted
	}

	tournament, err := s.getTournament(ctx, match.TournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.IsFrozen {
		return nil, ErrTournamentFrozen
	}

	if err := s.validatePair(ctx, match.TournamentID, team1ID, team2ID); err != nil {
		return nil, err
	}

	if err := s.matchRepo.UpdateTeams(ctx, nil, matchID, team1ID, team2ID); err != nil {
		return nil, mapMatchErr(err)
	}

	updated, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	s.threads.EnsureForMatch(ctx, updated)

	s.logger.Info("match re-linked",
		slog.Int("match_id", matchID),
		slog.Int("team1_id", team1ID),
		slog.Int("team2_id", team2ID))
	return updated, nil
}

// validatePair checks both teams exist, belong to the tournament, and
// have not been removed.
func (s *progressionService) validatePair(ctx context.Context, tournamentID int, teamIDs ...int) error {
	for _, teamID := range teamIDs {
		team, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return mapTeamErr(err)
		}
		if team.TournamentID != tournamentID {
			return ErrTeamNotInTournament
		}
		if team.IsRemoved {
			return ErrTeamRemoved
		}
	}
	return nil
}

func (s *progressionService) ListMatches(ctx context.Context, tournamentID int) ([]models.Match, error) {
	if _, err := s.getTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.matchRepo.ListByTournament(ctx, tournamentID, nil, nil)
}

func (s *progressionService) getTournament(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *progressionService) getMatch(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapMatchErr(err)
	}
	return match, nil
}

func mapMatchErr(err error) error {
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return ErrMatchNotFound
	}
	return err
}

func mapTeamErr(err error) error {
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return ErrTeamNotFound
	}
	return err
}

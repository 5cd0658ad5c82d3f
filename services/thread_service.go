package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/raheem101000-netizen/gamehub/models"
	"github.com/raheem101000-netizen/gamehub/repositories"
)

// ThreadProvisioner makes sure every member of a match has an inbox thread
// for its chat. Provisioning is a best-effort side effect of match
// creation: one member failing never aborts the rest.
type ThreadProvisioner interface {
	Ensure(ctx context.Context, matchID, userID int) (*models.MessageThread, error)
	EnsureForMatch(ctx context.Context, match *models.Match)
}

type threadProvisioner struct {
	teamRepo   repositories.TeamRepository
	threadRepo repositories.ThreadRepository
	logger     *slog.Logger
}

func NewThreadProvisioner(
	teamRepo repositories.TeamRepository,
	threadRepo repositories.ThreadRepository,
	logger *slog.Logger,
) ThreadProvisioner {
	return &threadProvisioner{
		teamRepo:   teamRepo,
		threadRepo: threadRepo,
		logger:     logger,
	}
}

func (p *threadProvisioner) Ensure(ctx context.Context, matchID, userID int) (*models.MessageThread, error) {
	thread, err := p.threadRepo.GetOrCreate(ctx, matchID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure thread (match %d, user %d): %w", matchID, userID, err)
	}
	return thread, nil
}

// EnsureForMatch provisions a thread for every member of both teams.
// Failures are logged and skipped so a provisioning problem for one member
// never blocks the others or the caller.
func (p *threadProvisioner) EnsureForMatch(ctx context.Context, match *models.Match) {
	for _, teamID := range []*int{match.Team1ID, match.Team2ID} {
		if teamID == nil {
			continue
		}
		members, err := p.teamRepo.ListMembers(ctx, *teamID)
		if err != nil {
			p.logger.Warn("thread provisioning: failed to list team members",
				slog.Int("match_id", match.ID),
				slog.Int("team_id", *teamID),
				slog.Any("error", err))
			continue
		}
		for _, member := range members {
			if _, err := p.Ensure(ctx, match.ID, member.ID); err != nil {
				p.logger.Warn("thread provisioning failed for member",
					slog.Int("match_id", match.ID),
					slog.Int("user_id", member.ID),
					slog.Any("error", err))
			}
		}
	}
}

// mapThreadErr translates repository sentinels into service sentinels.
func mapThreadErr(err error) error {
	if errors.Is(err, repositories.ErrThreadNotFound) {
		return ErrThreadNotFound
	}
	return err
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/raheem101000-netizen/gamehub/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error)
	// IncrementStats applies win/loss/point deltas to one team's counters.
	IncrementStats(ctx context.Context, exec SQLExecutor, id int, wins, losses, points int) error
	ListMembers(ctx context.Context, teamID int) ([]models.User, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, tournament_id, name, wins, losses, points, is_removed, created_at`

func scanTeam(row interface{ Scan(...interface{}) error }, t *models.Team) error {
	return row.Scan(&t.ID, &t.TournamentID, &t.Name, &t.Wins, &t.Losses, &t.Points, &t.IsRemoved, &t.CreatedAt)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	t := &models.Team{}
	if err := scanTeam(r.db.QueryRowContext(ctx, query, id), t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := scanTeam(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) IncrementStats(ctx context.Context, exec SQLExecutor, id int, wins, losses, points int) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE teams
		SET wins = wins + $1, losses = losses + $2, points = points + $3
		WHERE id = $4`

	result, err := exec.ExecContext(ctx, query, wins, losses, points, id)
	if err != nil {
		return fmt.Errorf("failed to increment stats for team %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) ListMembers(ctx context.Context, teamID int) ([]models.User, error) {
	query := `
		SELECT id, username, avatar_url, team_id, created_at
		FROM users
		WHERE team_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", teamID, err)
	}
	defer rows.Close()

	members := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.AvatarURL, &u.TeamID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team member row: %w", err)
		}
		members = append(members, u)
	}
	return members, rows.Err()
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/raheem101000-netizen/gamehub/models"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchInvalidSlot = errors.New("match slot must be 1 or 2")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// GetByIDForUpdate locks the row for the duration of the surrounding
	// transaction, so two concurrent completions serialize on the guard.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	// ListByTournament returns matches ordered by round, then creation
	// order. Nil filters mean no filtering.
	ListByTournament(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]models.Match, error)
	// FindByTeams returns the existing match between two teams in a
	// tournament regardless of slot order, or ErrMatchNotFound.
	FindByTeams(ctx context.Context, tournamentID, teamA, teamB int) (*models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, winnerID int, team1Score, team2Score *int) error
	// UpdateSlot fills team1 (slot 1) or team2 (slot 2) of a TBD match.
	UpdateSlot(ctx context.Context, exec SQLExecutor, id int, slot int, teamID int) error
	UpdateTeams(ctx context.Context, exec SQLExecutor, id int, team1ID, team2ID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, round, order_in_round, team1_id, team2_id, status, winner_id, team1_score, team2_score, created_at`

func scanMatch(row interface{ Scan(...interface{}) error }, m *models.Match) error {
	return row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.Round,
		&m.OrderInRound,
		&m.Team1ID,
		&m.Team2ID,
		&m.Status,
		&m.WinnerID,
		&m.Team1Score,
		&m.Team2Score,
		&m.CreatedAt,
	)
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO matches (tournament_id, round, order_in_round, team1_id, team2_id, status, winner_id, team1_score, team2_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.TournamentID,
		match.Round,
		match.OrderInRound,
		match.Team1ID,
		match.Team2ID,
		match.Status,
		match.WinnerID,
		match.Team1Score,
		match.Team2Score,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create match for tournament %d: %w", match.TournamentID, err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m := &models.Match{}
	if err := scanMatch(r.db.QueryRowContext(ctx, query, id), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	if exec == nil {
		exec = r.db
	}
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`

	m := &models.Match{}
	if err := scanMatch(exec.QueryRowContext(ctx, query, id), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d for update: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholder := 2

	if round != nil {
		queryBuilder.WriteString(" AND round = $" + strconv.Itoa(placeholder))
		args = append(args, *round)
		placeholder++
	}
	if status != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(placeholder))
		args = append(args, *status)
		placeholder++
	}
	queryBuilder.WriteString(" ORDER BY round, id")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := scanMatch(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) FindByTeams(ctx context.Context, tournamentID, teamA, teamB int) (*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE tournament_id = $1
		  AND ((team1_id = $2 AND team2_id = $3) OR (team1_id = $3 AND team2_id = $2))
		ORDER BY id
		LIMIT 1`

	m := &models.Match{}
	if err := scanMatch(r.db.QueryRowContext(ctx, query, tournamentID, teamA, teamB), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to find match by teams (%d, %d): %w", teamA, teamB, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, winnerID int, team1Score, team2Score *int) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE matches
		SET status = $1, winner_id = $2, team1_score = $3, team2_score = $4
		WHERE id = $5`

	result, err := exec.ExecContext(ctx, query, models.MatchStatusCompleted, winnerID, team1Score, team2Score, id)
	if err != nil {
		return fmt.Errorf("failed to update result for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSlot(ctx context.Context, exec SQLExecutor, id int, slot int, teamID int) error {
	if exec == nil {
		exec = r.db
	}
	var column string
	switch slot {
	case 1:
		column = "team1_id"
	case 2:
		column = "team2_id"
	default:
		return ErrMatchInvalidSlot
	}

	result, err := exec.ExecContext(ctx, `UPDATE matches SET `+column+` = $1 WHERE id = $2`, teamID, id)
	if err != nil {
		return fmt.Errorf("failed to fill slot %d of match %d: %w", slot, id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateTeams(ctx context.Context, exec SQLExecutor, id int, team1ID, team2ID int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE matches SET team1_id = $1, team2_id = $2 WHERE id = $3`, team1ID, team2ID, id)
	if err != nil {
		return fmt.Errorf("failed to update teams of match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

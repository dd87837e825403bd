package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/school-tournament/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchTeamInvalid    = errors.New("match team reference is invalid")
	ErrMatchVenueInvalid   = errors.New("match venue reference is invalid")
	ErrMatchGroupInvalid   = errors.New("match group reference is invalid")
	ErrMatchShapeViolation = errors.New("match violates a schedule constraint")
)

// MatchFilter narrows List and Delete. Nil fields do not filter.
type MatchFilter struct {
	TournamentID int
	ModalityID   *int
	Gender       *models.Gender
	Type         *models.MatchType
	Phase        *models.Phase
	Statuses     []models.MatchStatus
	GroupIDs     []int
}

type MatchRepository interface {
	List(ctx context.Context, exec SQLExecutor, filter MatchFilter) ([]models.Match, error)
	MaxOrder(ctx context.Context, exec SQLExecutor, tournamentID int, matchType *models.MatchType) (int, error)
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	// UpdateSchedule rewrites only order, venue and time of each match.
	UpdateSchedule(ctx context.Context, exec SQLExecutor, matches []models.Match) error
	Delete(ctx context.Context, exec SQLExecutor, filter MatchFilter) (int64, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// where appends the filter to queryBuilder and returns the arguments.
func (f MatchFilter) where(queryBuilder *strings.Builder, prefix string) []interface{} {
	args := []interface{}{f.TournamentID}
	queryBuilder.WriteString(" WHERE " + prefix + "tournament_id = $1")

	add := func(clause string, value interface{}) {
		args = append(args, value)
		queryBuilder.WriteString(" AND " + prefix + clause + " $" + strconv.Itoa(len(args)))
	}
	if f.ModalityID != nil {
		add("modality_id =", *f.ModalityID)
	}
	if f.Gender != nil {
		add("gender =", string(*f.Gender))
	}
	if f.Type != nil {
		add("type =", string(*f.Type))
	}
	if f.Phase != nil {
		add("phase =", string(*f.Phase))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, pq.Array(statuses))
		queryBuilder.WriteString(" AND " + prefix + "status::text = ANY($" + strconv.Itoa(len(args)) + ")")
	}
	if len(f.GroupIDs) > 0 {
		ids := make([]int64, len(f.GroupIDs))
		for i, id := range f.GroupIDs {
			ids[i] = int64(id)
		}
		args = append(args, pq.Array(ids))
		queryBuilder.WriteString(" AND " + prefix + "group_id = ANY($" + strconv.Itoa(len(args)) + ")")
	}
	return args
}

func (r *postgresMatchRepository) List(ctx context.Context, exec SQLExecutor, filter MatchFilter) ([]models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT mt.id, mt.tournament_id, mt.modality_id, mt.gender, mt.type, mt.phase, mt.group_id,
		       mt.home_team_id, mt.away_team_id, mt.venue_id, mt.scheduled_at, mt.match_order, mt.status,
		       mt.home_score, mt.away_score, mt.winner_team_id, mt.created_at,
		       m.name, COALESCE(v.name, '')
		FROM matches mt
		JOIN modalities m ON m.id = mt.modality_id
		LEFT JOIN venues v ON v.id = mt.venue_id`)
	args := filter.where(&queryBuilder, "mt.")
	queryBuilder.WriteString(" ORDER BY mt.match_order ASC, mt.id ASC")

	rows, err := r.getExecutor(exec).QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var (
			m     models.Match
			phase sql.NullString
		)
		if err := rows.Scan(
			&m.ID, &m.TournamentID, &m.ModalityID, &m.Gender, &m.Type, &phase, &m.GroupID,
			&m.HomeTeamID, &m.AwayTeamID, &m.VenueID, &m.ScheduledAt, &m.Order, &m.Status,
			&m.HomeScore, &m.AwayScore, &m.WinnerTeamID, &m.CreatedAt,
			&m.ModalityName, &m.VenueName,
		); err != nil {
			return nil, err
		}
		if phase.Valid {
			p := models.Phase(phase.String)
			m.Phase = &p
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// MaxOrder returns the highest order number in the tournament, optionally of
// one match type, or zero.
func (r *postgresMatchRepository) MaxOrder(ctx context.Context, exec SQLExecutor, tournamentID int, matchType *models.MatchType) (int, error) {
	query := `SELECT COALESCE(MAX(match_order), 0) FROM matches WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if matchType != nil {
		query += ` AND type = $2`
		args = append(args, string(*matchType))
	}
	var max int
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, args...).Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	stmt, err := r.getExecutor(exec).PrepareContext(ctx, `
		INSERT INTO matches
			(tournament_id, modality_id, gender, type, phase, group_id, home_team_id, away_team_id,
			 venue_id, scheduled_at, match_order, status, home_score, away_score, winner_team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`)
	if err != nil {
		return fmt.Errorf("CreateBatch failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, m := range matches {
		var phase interface{}
		if m.Phase != nil {
			phase = string(*m.Phase)
		}
		err := stmt.QueryRowContext(ctx,
			m.TournamentID, m.ModalityID, string(m.Gender), string(m.Type), phase, m.GroupID,
			m.HomeTeamID, m.AwayTeamID, m.VenueID, m.ScheduledAt, m.Order, string(m.Status),
			m.HomeScore, m.AwayScore, m.WinnerTeamID,
		).Scan(&m.ID, &m.CreatedAt)
		if err != nil {
			return fmt.Errorf("CreateBatch failed for %d vs %d: %w", m.HomeTeamID, m.AwayTeamID, r.handleMatchError(err))
		}
	}
	return nil
}

func (r *postgresMatchRepository) UpdateSchedule(ctx context.Context, exec SQLExecutor, matches []models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	stmt, err := r.getExecutor(exec).PrepareContext(ctx, `
		UPDATE matches
		SET match_order = $1, venue_id = $2, scheduled_at = $3
		WHERE id = $4`)
	if err != nil {
		return fmt.Errorf("UpdateSchedule failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, m := range matches {
		result, err := stmt.ExecContext(ctx, m.Order, m.VenueID, m.ScheduledAt, m.ID)
		if err != nil {
			return fmt.Errorf("UpdateSchedule failed for match %d: %w", m.ID, r.handleMatchError(err))
		}
		if err := checkAffectedRows(result, ErrMatchNotFound); err != nil {
			return fmt.Errorf("UpdateSchedule failed for match %d: %w", m.ID, err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, filter MatchFilter) (int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`DELETE FROM matches`)
	args := filter.where(&queryBuilder, "")

	result, err := r.getExecutor(exec).ExecContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return 0, r.handleMatchError(err)
	}
	return result.RowsAffected()
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	code, constraint, ok := pqCode(err)
	if !ok {
		return err
	}
	switch code {
	case "23503": // foreign_key_violation
		switch constraint {
		case "matches_home_team_id_fkey", "matches_away_team_id_fkey", "matches_winner_team_id_fkey":
			return ErrMatchTeamInvalid
		case "matches_venue_id_fkey":
			return ErrMatchVenueInvalid
		case "matches_group_id_fkey":
			return ErrMatchGroupInvalid
		}
	case "23514": // check_violation
		return fmt.Errorf("%w: %s", ErrMatchShapeViolation, constraint)
	}
	return err
}

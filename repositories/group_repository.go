package repositories

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/Dosada05/school-tournament/models"
	"github.com/lib/pq"
)

type GroupRepository interface {
	// ListWithTeams returns the groups of a tournament, optionally of one
	// modality, with their teams in draw order.
	ListWithTeams(ctx context.Context, exec SQLExecutor, tournamentID int, modalityID *int) ([]models.Group, error)
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGroupRepository) ListWithTeams(ctx context.Context, exec SQLExecutor, tournamentID int, modalityID *int) ([]models.Group, error) {
	executor := r.getExecutor(exec)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT g.id, g.name, g.tournament_id, g.modality_id, m.name
		FROM groups g
		JOIN modalities m ON m.id = g.modality_id
		WHERE g.tournament_id = $1`)
	args := []interface{}{tournamentID}
	if modalityID != nil {
		queryBuilder.WriteString(" AND g.modality_id = $" + strconv.Itoa(len(args)+1))
		args = append(args, *modalityID)
	}
	queryBuilder.WriteString(" ORDER BY g.modality_id ASC, g.name ASC, g.id ASC")

	rows, err := executor.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]models.Group, 0)
	index := make(map[int]int)
	ids := make([]int64, 0)
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.TournamentID, &g.ModalityID, &g.ModalityName); err != nil {
			return nil, err
		}
		index[g.ID] = len(groups)
		ids = append(ids, int64(g.ID))
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return groups, nil
	}

	teamRows, err := executor.QueryContext(ctx, `
		SELECT id, name, course, room, gender, modality_id, tournament_id, group_id
		FROM teams
		WHERE group_id = ANY($1)
		ORDER BY group_id ASC, draw_position ASC, id ASC`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer teamRows.Close()

	for teamRows.Next() {
		var t models.Team
		if err := teamRows.Scan(&t.ID, &t.Name, &t.Course, &t.Room, &t.Gender, &t.ModalityID, &t.TournamentID, &t.GroupID); err != nil {
			return nil, err
		}
		if t.GroupID == nil {
			continue
		}
		if i, ok := index[*t.GroupID]; ok {
			groups[i].Teams = append(groups[i].Teams, t)
		}
	}
	return groups, teamRows.Err()
}

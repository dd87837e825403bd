package repositories

import (
	"context"
	"database/sql"

	"github.com/Dosada05/school-tournament/models"
)

type VenueRepository interface {
	List(ctx context.Context, exec SQLExecutor) ([]models.Venue, error)
}

type postgresVenueRepository struct {
	db *sql.DB
}

func NewPostgresVenueRepository(db *sql.DB) VenueRepository {
	return &postgresVenueRepository{db: db}
}

// List returns venues in registration order.
func (r *postgresVenueRepository) List(ctx context.Context, exec SQLExecutor) ([]models.Venue, error) {
	if exec == nil {
		exec = r.db
	}
	rows, err := exec.QueryContext(ctx, `SELECT id, name FROM venues ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	venues := make([]models.Venue, 0)
	for rows.Next() {
		var v models.Venue
		if err := rows.Scan(&v.ID, &v.Name); err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

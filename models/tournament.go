package models

import "time"

// TournamentStatus mirrors the tournament status ENUM in the database.
type TournamentStatus string

const (
	StatusSoon         TournamentStatus = "soon"
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

// Tournament is one edition of the school games. Modalities, groups and
// matches all hang off it.
type Tournament struct {
	ID        int              `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Year      int              `json:"year" db:"year"`
	Status    TournamentStatus `json:"status" db:"status"`
	StartDate time.Time        `json:"start_date" db:"start_date"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

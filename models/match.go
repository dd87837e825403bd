package models

import "time"

type MatchStatus string

const (
	StatusScheduled  MatchStatus = "scheduled"
	StatusInProgress MatchStatus = "in_progress"
	StatusFinished   MatchStatus = "finished"
	StatusCancelled  MatchStatus = "cancelled"
)

type MatchType string

const (
	MatchTypeGroup       MatchType = "group"
	MatchTypeElimination MatchType = "elimination"
)

type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	ModalityID   int         `json:"modality_id" db:"modality_id"`
	Gender       Gender      `json:"gender" db:"gender"`
	Type         MatchType   `json:"type" db:"type"`
	Phase        *Phase      `json:"phase,omitempty" db:"phase"`
	GroupID      *int        `json:"group_id,omitempty" db:"group_id"`
	HomeTeamID   int         `json:"home_team_id" db:"home_team_id"`
	AwayTeamID   int         `json:"away_team_id" db:"away_team_id"`
	VenueID      *int        `json:"venue_id,omitempty" db:"venue_id"`
	ScheduledAt  time.Time   `json:"scheduled_at" db:"scheduled_at"`
	Order        int         `json:"order" db:"match_order"`
	Status       MatchStatus `json:"status" db:"status"`
	HomeScore    *int        `json:"home_score,omitempty" db:"home_score"`
	AwayScore    *int        `json:"away_score,omitempty" db:"away_score"`
	WinnerTeamID *int        `json:"winner_team_id,omitempty" db:"winner_team_id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	ModalityName string `json:"modality_name,omitempty" db:"-"`
	VenueName    string `json:"venue_name,omitempty" db:"-"`
}

// Winner returns the team that advances. The stored result marker wins over
// the score; a draw without a marker has no winner.
func (m Match) Winner() (int, bool) {
	if m.WinnerTeamID != nil {
		return *m.WinnerTeamID, true
	}
	if m.HomeScore == nil || m.AwayScore == nil {
		return 0, false
	}
	switch {
	case *m.HomeScore > *m.AwayScore:
		return m.HomeTeamID, true
	case *m.AwayScore > *m.HomeScore:
		return m.AwayTeamID, true
	}
	return 0, false
}

// HasResult reports whether deleting the match would lose a played result.
func (m Match) HasResult() bool {
	return m.Status == StatusFinished || m.Status == StatusInProgress ||
		m.HomeScore != nil || m.AwayScore != nil
}

func (m Match) Involves(teamID int) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}

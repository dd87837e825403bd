package models

// Standing is one row of a classification table.
type Standing struct {
	TeamID         int  `json:"team_id"`
	GroupID        *int `json:"group_id,omitempty"`
	Points         int  `json:"points"`
	GamesPlayed    int  `json:"games_played"`
	Wins           int  `json:"wins"`
	Draws          int  `json:"draws"`
	Losses         int  `json:"losses"`
	GoalsFor       int  `json:"goals_for"`
	GoalsAgainst   int  `json:"goals_against"`
	GoalDifference int  `json:"goal_difference"`
	Rank           int  `json:"rank"`

	Team *Team `json:"team,omitempty"`
}

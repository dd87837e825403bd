package services

import (
	"sort"

	"github.com/Dosada05/school-tournament/models"
)

// Classifier ranks teams from the matches of one scope (usually a group).
// Every team passed in appears in the result, with or without games.
type Classifier interface {
	Classify(teams []models.Team, matches []models.Match) []models.Standing
}

// PointsClassifier is the usual football table.
type PointsClassifier struct {
	Win  int
	Draw int
	Loss int
}

func NewPointsClassifier() PointsClassifier {
	return PointsClassifier{Win: 3, Draw: 1, Loss: 0}
}

// Classify counts only finished matches with both scores between teams of the
// scope. Ranking: points, goal difference, goals for, then team id.
func (c PointsClassifier) Classify(teams []models.Team, matches []models.Match) []models.Standing {
	rows := make(map[int]*models.Standing, len(teams))
	order := make([]int, 0, len(teams))
	for i := range teams {
		t := teams[i]
		if _, dup := rows[t.ID]; dup {
			continue
		}
		rows[t.ID] = &models.Standing{TeamID: t.ID, GroupID: t.GroupID, Team: &t}
		order = append(order, t.ID)
	}

	for _, m := range matches {
		if m.Status != models.StatusFinished || m.HomeScore == nil || m.AwayScore == nil {
			continue
		}
		home, okHome := rows[m.HomeTeamID]
		away, okAway := rows[m.AwayTeamID]
		if !okHome || !okAway {
			continue
		}
		c.apply(home, *m.HomeScore, *m.AwayScore)
		c.apply(away, *m.AwayScore, *m.HomeScore)
	}

	standings := make([]models.Standing, 0, len(order))
	for _, id := range order {
		s := rows[id]
		s.GoalDifference = s.GoalsFor - s.GoalsAgainst
		standings = append(standings, *s)
	}
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamID < b.TeamID
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

func (c PointsClassifier) apply(s *models.Standing, scored, conceded int) {
	s.GamesPlayed++
	s.GoalsFor += scored
	s.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		s.Wins++
		s.Points += c.Win
	case scored == conceded:
		s.Draws++
		s.Points += c.Draw
	default:
		s.Losses++
		s.Points += c.Loss
	}
}

package services

import (
	"log/slog"

	"github.com/Dosada05/school-tournament/brackets"
	"github.com/Dosada05/school-tournament/models"
)

// PlanGroupStage runs the group-schedule pipeline in memory. Nothing is read
// from or written to storage; the slots start at settings.Now().
func PlanGroupStage(groups []models.Group, venues []models.Venue, venueConfig map[string]string, settings Settings, shuffleSeed *int64, logger *slog.Logger) (*brackets.Schedule, error) {
	s := NewSchedulerService(Dependencies{Logger: logger}, settings).(*schedulerService)

	if len(venues) == 0 {
		return nil, ErrNoVenuesConfigured
	}
	fixtures, err := groupFixtures(groups, shuffleSeed)
	if err != nil {
		return nil, err
	}
	plan, err := s.planVenues(s.deps.Logger, venues, fixtures, venueConfig)
	if err != nil {
		return nil, err
	}
	return s.optimize(fixtures, plan, s.optimizerConfig(s.settings.Now(), 1))
}

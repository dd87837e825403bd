package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/school-tournament/brackets"
	"github.com/Dosada05/school-tournament/metrics"
	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/realtime"
	"github.com/Dosada05/school-tournament/repositories"
)

type GroupScheduleRequest struct {
	TournamentID       int               `json:"-"`
	VenueConfig        map[string]string `json:"venue_config,omitempty"`
	Replace            bool              `json:"replace"`
	ConfirmDestructive bool              `json:"confirm_destructive"`
	ShuffleSeed        *int64            `json:"shuffle_seed,omitempty"`
}

type GroupScheduleResult struct {
	RunID          string                        `json:"run_id"`
	MatchesCreated int                           `json:"matches_created"`
	MatchesDeleted int                           `json:"matches_deleted"`
	SlotCount      int                           `json:"slot_count"`
	PairedSlots    int                           `json:"paired_slots"`
	DiverseSlots   int                           `json:"diverse_slots"`
	DiversityRatio float64                       `json:"diversity_ratio"`
	Cycles         map[string]brackets.CycleStat `json:"cycles"`
	Warnings       []string                      `json:"warnings"`
	SnapshotURL    string                        `json:"snapshot_url,omitempty"`
	Matches        []models.Match                `json:"matches"`
}

type ReorganizeRequest struct {
	TournamentID int               `json:"-"`
	VenueConfig  map[string]string `json:"venue_config,omitempty"`
}

type ReorganizeResult struct {
	RunID          string                        `json:"run_id"`
	MatchesUpdated int                           `json:"matches_updated"`
	SlotCount      int                           `json:"slot_count"`
	PairedSlots    int                           `json:"paired_slots"`
	DiverseSlots   int                           `json:"diverse_slots"`
	DiversityRatio float64                       `json:"diversity_ratio"`
	Cycles         map[string]brackets.CycleStat `json:"cycles"`
	Warnings       []string                      `json:"warnings"`
	SnapshotURL    string                        `json:"snapshot_url,omitempty"`
	Matches        []models.Match                `json:"matches"`
}

// genderOrder keeps fixture generation deterministic across map iteration.
var genderOrder = []models.Gender{models.GenderMale, models.GenderFemale}

// GenerateGroupSchedule round-robins every group (each gender separately),
// sequences each group for rest, merges everything with the slot optimizer
// and writes the result in one transaction. Existing group matches are only
// replaced when asked to, and played ones only with confirmation.
func (s *schedulerService) GenerateGroupSchedule(ctx context.Context, req GroupScheduleRequest) (result *GroupScheduleResult, err error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := s.deps.Logger.With(
		slog.String("operation", metrics.OpGroupSchedule),
		slog.String("run_id", runID),
		slog.Int("tournament_id", req.TournamentID),
	)
	defer func() { s.finish(metrics.OpGroupSchedule, logger, started, err) }()

	if req.TournamentID <= 0 {
		return nil, fmt.Errorf("%w: tournament_id is required", ErrInvalidParameters)
	}

	scope := repositories.TournamentScope(req.TournamentID)
	unlock := s.locks.lock(scope)
	defer unlock()

	var (
		groups []models.Group
		venues []models.Venue
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.loadTournament(gctx, req.TournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = s.deps.Groups.ListWithTeams(gctx, nil, req.TournamentID, nil)
		if err != nil {
			return fmt.Errorf("failed to list groups: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		venues, err = s.listVenues(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fixtures, err := groupFixtures(groups, req.ShuffleSeed)
	if err != nil {
		return nil, err
	}
	plan, err := s.planVenues(logger, venues, fixtures, req.VenueConfig)
	if err != nil {
		return nil, err
	}
	schedule, err := s.optimize(fixtures, plan, s.optimizerConfig(s.settings.Now(), 1))
	if err != nil {
		return nil, err
	}

	var (
		created []models.Match
		deleted int64
	)
	groupType := models.MatchTypeGroup
	groupFilter := repositories.MatchFilter{TournamentID: req.TournamentID, Type: &groupType}
	err = s.deps.Transactor.WithinScope(ctx, scope, func(ctx context.Context, exec repositories.SQLExecutor) error {
		existing, err := s.deps.Matches.List(ctx, exec, groupFilter)
		if err != nil {
			return fmt.Errorf("failed to list existing group matches: %w", err)
		}
		if len(existing) > 0 {
			if !req.Replace {
				return fmt.Errorf("%w: %d group matches exist, set replace to regenerate", ErrScheduleAlreadyExists, len(existing))
			}
			if played := countWithResult(existing); played > 0 && !req.ConfirmDestructive {
				return fmt.Errorf("%w: %d of %d group matches are played or in progress", ErrRegenerationNotConfirmed, played, len(existing))
			}
			deleted, err = s.deps.Matches.Delete(ctx, exec, groupFilter)
			if err != nil {
				return fmt.Errorf("failed to delete group matches: %w", err)
			}
		}

		offset, err := s.deps.Matches.MaxOrder(ctx, exec, req.TournamentID, nil)
		if err != nil {
			return fmt.Errorf("failed to read max match order: %w", err)
		}
		created = groupMatches(req.TournamentID, schedule, offset)
		if err := s.deps.Matches.CreateBatch(ctx, exec, matchPointers(created)); err != nil {
			return fmt.Errorf("failed to create group matches: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if deleted > 0 {
		s.deps.Snapshots.Remove(ctx, req.TournamentID, SnapshotGroupSchedule)
	}
	s.deps.Metrics.ObserveSlots(schedule.SlotCount)
	s.deps.Metrics.AddMatchesWritten(metrics.OpGroupSchedule, len(created))
	logger.Info("group schedule generated",
		slog.Int("matches", len(created)),
		slog.Int64("deleted", deleted),
		slog.Int("slots", schedule.SlotCount),
		slog.Float64("diversity_ratio", schedule.DiversityRatio()),
	)

	result = &GroupScheduleResult{
		RunID:          runID,
		MatchesCreated: len(created),
		MatchesDeleted: int(deleted),
		SlotCount:      schedule.SlotCount,
		PairedSlots:    schedule.PairedSlots,
		DiverseSlots:   schedule.DiverseSlots,
		DiversityRatio: schedule.DiversityRatio(),
		Cycles:         cycleStats(schedule),
		Warnings:       append([]string{}, schedule.Warnings...),
		Matches:        created,
	}
	s.broadcast(req.TournamentID, realtime.EventScheduleGenerated, map[string]interface{}{
		"run_id":          runID,
		"matches_created": result.MatchesCreated,
		"slot_count":      result.SlotCount,
	})
	result.SnapshotURL = s.deps.Snapshots.Publish(ctx, req.TournamentID, SnapshotGroupSchedule, SnapshotGroupSchedule, runID, result)
	return result, nil
}

// groupFixtures builds the rest-sequenced fixtures of every group and gender.
func groupFixtures(groups []models.Group, shuffleSeed *int64) ([]brackets.Fixture, error) {
	if len(groups) == 0 {
		return nil, ErrNoGroupsFound
	}

	var rng *rand.Rand
	if shuffleSeed != nil {
		rng = rand.New(rand.NewSource(*shuffleSeed))
	}

	fixtures := make([]brackets.Fixture, 0)
	teams := 0
	for _, group := range groups {
		byGender := group.TeamsByGender()
		for _, gender := range genderOrder {
			roster := byGender[gender]
			teams += len(roster)
			ids := make([]int, len(roster))
			for i, t := range roster {
				ids[i] = t.ID
			}
			if rng != nil {
				ids = brackets.ShuffleTeams(ids, rng)
			}

			groupID := group.ID
			rounds := brackets.GenerateRoundRobin(ids)
			pairings := brackets.FixturesFromRounds(rounds, len(fixtures), group.ModalityID, group.ModalityName, gender, &groupID)
			fixtures = append(fixtures, brackets.SequenceForRest(pairings)...)
		}
	}
	if teams == 0 {
		return nil, fmt.Errorf("%w: %d groups have no teams", ErrNoGroupsFound, len(groups))
	}
	if len(fixtures) == 0 {
		return nil, fmt.Errorf("%w: no group has two teams of the same gender", ErrInsufficientTeams)
	}
	return fixtures, nil
}

func groupMatches(tournamentID int, schedule *brackets.Schedule, orderOffset int) []models.Match {
	matches := make([]models.Match, 0, len(schedule.Placements))
	for _, p := range schedule.Placements {
		venueID := p.Venue.ID
		matches = append(matches, models.Match{
			TournamentID: tournamentID,
			ModalityID:   p.ModalityID,
			Gender:       p.Gender,
			Type:         models.MatchTypeGroup,
			GroupID:      p.GroupID,
			HomeTeamID:   p.HomeID,
			AwayTeamID:   p.AwayID,
			VenueID:      &venueID,
			ScheduledAt:  p.ScheduledAt,
			Order:        p.Order + orderOffset,
			Status:       models.StatusScheduled,
			ModalityName: p.Modality,
			VenueName:    p.Venue.Name,
		})
	}
	return matches
}

// ReorganizeEliminations recomputes order, venue and time of every elimination
// match that is not cancelled. Pairings, status and results stay untouched.
func (s *schedulerService) ReorganizeEliminations(ctx context.Context, req ReorganizeRequest) (result *ReorganizeResult, err error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := s.deps.Logger.With(
		slog.String("operation", metrics.OpReorganize),
		slog.String("run_id", runID),
		slog.Int("tournament_id", req.TournamentID),
	)
	defer func() { s.finish(metrics.OpReorganize, logger, started, err) }()

	if req.TournamentID <= 0 {
		return nil, fmt.Errorf("%w: tournament_id is required", ErrInvalidParameters)
	}

	scope := repositories.TournamentScope(req.TournamentID)
	unlock := s.locks.lock(scope)
	defer unlock()

	var venues []models.Venue
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.loadTournament(gctx, req.TournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		venues, err = s.listVenues(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result = &ReorganizeResult{RunID: runID, Cycles: map[string]brackets.CycleStat{}, Warnings: []string{}, Matches: []models.Match{}}
	elimType := models.MatchTypeElimination
	err = s.deps.Transactor.WithinScope(ctx, scope, func(ctx context.Context, exec repositories.SQLExecutor) error {
		existing, err := s.deps.Matches.List(ctx, exec, repositories.MatchFilter{
			TournamentID: req.TournamentID,
			Type:         &elimType,
			Statuses:     []models.MatchStatus{models.StatusScheduled, models.StatusInProgress, models.StatusFinished},
		})
		if err != nil {
			return fmt.Errorf("failed to list elimination matches: %w", err)
		}
		if len(existing) == 0 {
			result.Warnings = append(result.Warnings, "no elimination matches to reorganize")
			return nil
		}

		byID := make(map[int]models.Match, len(existing))
		fixtures := make([]brackets.Fixture, 0, len(existing))
		for _, m := range existing {
			byID[m.ID] = m
			fixtures = append(fixtures, brackets.Fixture{
				Key:        m.ID,
				HomeID:     m.HomeTeamID,
				AwayID:     m.AwayTeamID,
				ModalityID: m.ModalityID,
				Modality:   m.ModalityName,
				Gender:     m.Gender,
			})
		}

		plan, err := s.planVenues(logger, venues, fixtures, req.VenueConfig)
		if err != nil {
			return err
		}
		groupType := models.MatchTypeGroup
		lastGroupOrder, err := s.deps.Matches.MaxOrder(ctx, exec, req.TournamentID, &groupType)
		if err != nil {
			return fmt.Errorf("failed to read max group match order: %w", err)
		}
		schedule, err := s.optimize(fixtures, plan, s.optimizerConfig(s.settings.Now(), lastGroupOrder+1))
		if err != nil {
			return err
		}

		updated := make([]models.Match, 0, len(schedule.Placements))
		for _, p := range schedule.Placements {
			m := byID[p.Key]
			venueID := p.Venue.ID
			m.Order = p.Order
			m.VenueID = &venueID
			m.VenueName = p.Venue.Name
			m.ScheduledAt = p.ScheduledAt
			updated = append(updated, m)
		}
		if err := s.deps.Matches.UpdateSchedule(ctx, exec, updated); err != nil {
			return fmt.Errorf("failed to update elimination matches: %w", err)
		}
		sort.SliceStable(updated, func(i, j int) bool { return updated[i].Order < updated[j].Order })

		result.MatchesUpdated = len(updated)
		result.SlotCount = schedule.SlotCount
		result.PairedSlots = schedule.PairedSlots
		result.DiverseSlots = schedule.DiverseSlots
		result.DiversityRatio = schedule.DiversityRatio()
		result.Cycles = cycleStats(schedule)
		result.Warnings = append(result.Warnings, schedule.Warnings...)
		result.Matches = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.MatchesUpdated > 0 {
		s.deps.Metrics.ObserveSlots(result.SlotCount)
	}
	s.deps.Metrics.AddMatchesWritten(metrics.OpReorganize, result.MatchesUpdated)
	logger.Info("eliminations reorganized",
		slog.Int("matches", result.MatchesUpdated),
		slog.Int("slots", result.SlotCount),
		slog.Float64("diversity_ratio", result.DiversityRatio),
	)

	s.broadcast(req.TournamentID, realtime.EventEliminationsReorganized, map[string]interface{}{
		"run_id":          runID,
		"matches_updated": result.MatchesUpdated,
	})
	if result.MatchesUpdated > 0 {
		result.SnapshotURL = s.deps.Snapshots.Publish(ctx, req.TournamentID, SnapshotReorganize, SnapshotReorganize, runID, result)
	}
	return result, nil
}

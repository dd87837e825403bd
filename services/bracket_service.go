package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/school-tournament/brackets"
	"github.com/Dosada05/school-tournament/metrics"
	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/realtime"
	"github.com/Dosada05/school-tournament/repositories"
)

type NextPhaseRequest struct {
	TournamentID int           `json:"-"`
	ModalityID   int           `json:"modality_id"`
	Gender       models.Gender `json:"gender"`
	Phase        *models.Phase `json:"phase,omitempty"`
}

type NextPhaseResult struct {
	RunID          string         `json:"run_id"`
	Phase          models.Phase   `json:"phase"`
	PreviousPhase  *models.Phase  `json:"previous_phase,omitempty"`
	SeedCount      int            `json:"seed_count"`
	Seeds          []int          `json:"seeds"`
	MatchesCreated int            `json:"matches_created"`
	Warnings       []string       `json:"warnings"`
	SnapshotURL    string         `json:"snapshot_url,omitempty"`
	Matches        []models.Match `json:"matches"`
}

type ResetRequest struct {
	TournamentID       int           `json:"-"`
	ModalityID         int           `json:"modality_id"`
	Gender             models.Gender `json:"gender"`
	ConfirmDestructive bool          `json:"confirm_destructive"`
}

type ResetResult struct {
	MatchesDeleted int `json:"matches_deleted"`
}

// GenerateNextPhase creates the next elimination round of one modality and
// gender. The first round is seeded from the group tables, later rounds from
// the winners of the round before.
func (s *schedulerService) GenerateNextPhase(ctx context.Context, req NextPhaseRequest) (result *NextPhaseResult, err error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := s.deps.Logger.With(
		slog.String("operation", metrics.OpNextPhase),
		slog.String("run_id", runID),
		slog.Int("tournament_id", req.TournamentID),
		slog.Int("modality_id", req.ModalityID),
		slog.String("gender", string(req.Gender)),
	)
	defer func() { s.finish(metrics.OpNextPhase, logger, started, err) }()

	if req.TournamentID <= 0 {
		return nil, fmt.Errorf("%w: tournament_id is required", ErrInvalidParameters)
	}
	if err := validateScope(req.ModalityID, req.Gender); err != nil {
		return nil, err
	}
	if req.Phase != nil && !req.Phase.IsValid() {
		return nil, fmt.Errorf("%w: unknown phase %q", ErrInvalidParameters, string(*req.Phase))
	}

	scope := repositories.ScopeKey{TournamentID: req.TournamentID, ModalityID: req.ModalityID, Gender: req.Gender}
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
		groups, err = s.deps.Groups.ListWithTeams(gctx, nil, req.TournamentID, &req.ModalityID)
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

	result = &NextPhaseResult{RunID: runID, Warnings: []string{}}
	elimType := models.MatchTypeElimination
	err = s.deps.Transactor.WithinScope(ctx, scope, func(ctx context.Context, exec repositories.SQLExecutor) error {
		existing, err := s.deps.Matches.List(ctx, exec, repositories.MatchFilter{
			TournamentID: req.TournamentID,
			ModalityID:   &req.ModalityID,
			Gender:       &req.Gender,
			Type:         &elimType,
		})
		if err != nil {
			return fmt.Errorf("failed to list elimination matches: %w", err)
		}

		transition, err := brackets.ResolveTargetPhase(brackets.DistinctPhases(existing), req.Phase)
		if err != nil {
			switch {
			case errors.Is(err, brackets.ErrPhaseRegression):
				return fmt.Errorf("%w: %w", ErrInvalidParameters, err)
			case errors.Is(err, brackets.ErrNoNextPhase):
				return fmt.Errorf("%w: %w", ErrNoNextPhase, err)
			}
			return err
		}

		var seeds []int
		if transition.IsFirst() {
			seeds, err = s.groupSeeds(ctx, exec, req, groups, result)
		} else {
			seeds, err = previousWinners(existing, *transition.Previous)
		}
		if err != nil {
			return err
		}

		capacity := transition.Target.Capacity()
		if len(seeds) < 2 {
			return fmt.Errorf("%w: %d seeds, at least 2 needed", ErrInsufficientTeams, len(seeds))
		}
		if len(seeds) < capacity {
			return fmt.Errorf("%w: %s needs %d teams, got %d", ErrInsufficientTeamsForPhase, transition.Target, capacity, len(seeds))
		}
		seeds = seeds[:capacity]

		maxOrder, err := s.deps.Matches.MaxOrder(ctx, exec, req.TournamentID, nil)
		if err != nil {
			return fmt.Errorf("failed to read max match order: %w", err)
		}
		matches := s.phaseMatches(req, transition.Target, brackets.PairSeeds(seeds), venues, maxOrder)
		if err := s.deps.Matches.CreateBatch(ctx, exec, matchPointers(matches)); err != nil {
			return fmt.Errorf("failed to create %s matches: %w", transition.Target, err)
		}

		result.Phase = transition.Target
		result.PreviousPhase = transition.Previous
		result.Seeds = seeds
		result.SeedCount = len(seeds)
		result.MatchesCreated = len(matches)
		result.Matches = matches
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Metrics.AddMatchesWritten(metrics.OpNextPhase, result.MatchesCreated)
	logger.Info("elimination phase generated",
		slog.String("phase", string(result.Phase)),
		slog.Int("seeds", result.SeedCount),
		slog.Int("matches", result.MatchesCreated),
	)
	s.broadcast(req.TournamentID, realtime.EventPhaseGenerated, map[string]interface{}{
		"run_id":      runID,
		"modality_id": req.ModalityID,
		"gender":      req.Gender,
		"phase":       result.Phase,
		"matches":     result.MatchesCreated,
	})
	result.SnapshotURL = s.deps.Snapshots.Publish(ctx, req.TournamentID, SnapshotPhase, PhaseSnapshotName(req.ModalityID, req.Gender), runID, result)
	return result, nil
}

// groupSeeds ranks every group that has teams of the requested gender and
// interleaves the tables by position.
func (s *schedulerService) groupSeeds(ctx context.Context, exec repositories.SQLExecutor, req NextPhaseRequest, groups []models.Group, result *NextPhaseResult) ([]int, error) {
	groupType := models.MatchTypeGroup
	played, err := s.deps.Matches.List(ctx, exec, repositories.MatchFilter{
		TournamentID: req.TournamentID,
		ModalityID:   &req.ModalityID,
		Gender:       &req.Gender,
		Type:         &groupType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list group matches: %w", err)
	}

	byGroup := make(map[int][]models.Match)
	unfinished := 0
	for _, m := range played {
		if m.GroupID != nil {
			byGroup[*m.GroupID] = append(byGroup[*m.GroupID], m)
		}
		if m.Status != models.StatusFinished && m.Status != models.StatusCancelled {
			unfinished++
		}
	}
	if unfinished > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d group matches are not finished, standings may change", unfinished))
	}

	tables := make([][]models.Standing, 0, len(groups))
	for _, group := range groups {
		if !group.HasGender(req.Gender) {
			continue
		}
		teams := group.TeamsByGender()[req.Gender]
		tables = append(tables, s.deps.Classifier.Classify(teams, byGroup[group.ID]))
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: no %s groups in modality %d", ErrNoGroupsFound, req.Gender, req.ModalityID)
	}

	standings := brackets.InterleaveStandings(tables, 0)
	seeds := make([]int, len(standings))
	for i, st := range standings {
		seeds[i] = st.TeamID
	}
	return seeds, nil
}

// previousWinners requires every non-cancelled match of previous to have a
// winner.
func previousWinners(existing []models.Match, previous models.Phase) ([]int, error) {
	round := make([]models.Match, 0)
	for _, m := range existing {
		if m.Phase != nil && *m.Phase == previous && m.Status != models.StatusCancelled {
			round = append(round, m)
		}
	}
	winners := brackets.Winners(round)
	if len(winners) < len(round) {
		return nil, fmt.Errorf("%w: %d of %d %s matches have a winner", ErrPreviousPhaseIncomplete, len(winners), len(round), previous)
	}
	return winners, nil
}

// phaseMatches lays pairs out one after the other, spaced by the elimination
// spacing, rotating over the registered venues.
func (s *schedulerService) phaseMatches(req NextPhaseRequest, phase models.Phase, pairs []brackets.Pairing, venues []models.Venue, maxOrder int) []models.Match {
	base := s.settings.Now()
	matches := make([]models.Match, 0, len(pairs))
	for i, p := range pairs {
		venue := venues[i%len(venues)]
		venueID := venue.ID
		matchPhase := phase
		matches = append(matches, models.Match{
			TournamentID: req.TournamentID,
			ModalityID:   req.ModalityID,
			Gender:       req.Gender,
			Type:         models.MatchTypeElimination,
			Phase:        &matchPhase,
			HomeTeamID:   p.HomeID,
			AwayTeamID:   p.AwayID,
			VenueID:      &venueID,
			ScheduledAt:  base.Add(time.Duration(i) * s.settings.EliminationSpacing),
			Order:        maxOrder + 1 + i,
			Status:       models.StatusScheduled,
			VenueName:    venue.Name,
		})
	}
	return matches
}

// ResetEliminations deletes the elimination matches of one modality and
// gender so the bracket can be drawn again.
func (s *schedulerService) ResetEliminations(ctx context.Context, req ResetRequest) (result *ResetResult, err error) {
	started := time.Now()
	logger := s.deps.Logger.With(
		slog.String("operation", metrics.OpReset),
		slog.Int("tournament_id", req.TournamentID),
		slog.Int("modality_id", req.ModalityID),
		slog.String("gender", string(req.Gender)),
	)
	defer func() { s.finish(metrics.OpReset, logger, started, err) }()

	if req.TournamentID <= 0 {
		return nil, fmt.Errorf("%w: tournament_id is required", ErrInvalidParameters)
	}
	if err := validateScope(req.ModalityID, req.Gender); err != nil {
		return nil, err
	}
	if _, err := s.loadTournament(ctx, req.TournamentID); err != nil {
		return nil, err
	}

	scope := repositories.ScopeKey{TournamentID: req.TournamentID, ModalityID: req.ModalityID, Gender: req.Gender}
	unlock := s.locks.lock(scope)
	defer unlock()

	elimType := models.MatchTypeElimination
	filter := repositories.MatchFilter{
		TournamentID: req.TournamentID,
		ModalityID:   &req.ModalityID,
		Gender:       &req.Gender,
		Type:         &elimType,
	}
	var deleted int64
	err = s.deps.Transactor.WithinScope(ctx, scope, func(ctx context.Context, exec repositories.SQLExecutor) error {
		existing, err := s.deps.Matches.List(ctx, exec, filter)
		if err != nil {
			return fmt.Errorf("failed to list elimination matches: %w", err)
		}
		if played := countWithResult(existing); played > 0 && !req.ConfirmDestructive {
			return fmt.Errorf("%w: %d of %d elimination matches are played or in progress", ErrRegenerationNotConfirmed, played, len(existing))
		}
		if len(existing) == 0 {
			return nil
		}
		deleted, err = s.deps.Matches.Delete(ctx, exec, filter)
		if err != nil {
			return fmt.Errorf("failed to delete elimination matches: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("eliminations reset", slog.Int64("deleted", deleted))
	if deleted > 0 {
		s.deps.Snapshots.Remove(ctx, req.TournamentID, PhaseSnapshotName(req.ModalityID, req.Gender), SnapshotReorganize)
	}
	s.broadcast(req.TournamentID, realtime.EventEliminationsReset, map[string]interface{}{
		"modality_id": req.ModalityID,
		"gender":      req.Gender,
		"deleted":     deleted,
	})
	return &ResetResult{MatchesDeleted: int(deleted)}, nil
}

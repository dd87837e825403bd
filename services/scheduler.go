package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/school-tournament/brackets"
	"github.com/Dosada05/school-tournament/metrics"
	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/realtime"
	"github.com/Dosada05/school-tournament/repositories"
)

// SchedulerService builds and rebuilds the fixtures of a tournament.
type SchedulerService interface {
	GenerateGroupSchedule(ctx context.Context, req GroupScheduleRequest) (*GroupScheduleResult, error)
	ReorganizeEliminations(ctx context.Context, req ReorganizeRequest) (*ReorganizeResult, error)
	GenerateNextPhase(ctx context.Context, req NextPhaseRequest) (*NextPhaseResult, error)
	ResetEliminations(ctx context.Context, req ResetRequest) (*ResetResult, error)
	ListMatches(ctx context.Context, filter repositories.MatchFilter) ([]models.Match, error)
}

// Settings tune the slot optimizer and bracket spacing. Zero values fall back
// to the brackets package defaults.
type Settings struct {
	BlockSize          int
	MaxSlots           int
	SlotDuration       time.Duration
	EliminationSpacing time.Duration
	StartGenders       map[string]models.Gender
	Now                func() time.Time
}

type Dependencies struct {
	Transactor  repositories.Transactor
	Tournaments repositories.TournamentRepository
	Groups      repositories.GroupRepository
	Venues      repositories.VenueRepository
	Matches     repositories.MatchRepository
	Classifier  Classifier
	Metrics     metrics.Metrics
	Broadcaster realtime.Broadcaster // optional
	Snapshots   *SnapshotPublisher   // optional
	Logger      *slog.Logger
}

type schedulerService struct {
	deps     Dependencies
	settings Settings
	locks    *scopeLocks
}

func NewSchedulerService(deps Dependencies, settings Settings) SchedulerService {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Classifier == nil {
		deps.Classifier = NewPointsClassifier()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewMock()
	}
	if settings.EliminationSpacing <= 0 {
		settings.EliminationSpacing = brackets.DefaultSlotDuration
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &schedulerService{deps: deps, settings: settings, locks: newScopeLocks()}
}

func (s *schedulerService) optimizerConfig(base time.Time, firstOrder int) brackets.OptimizerConfig {
	return brackets.OptimizerConfig{
		BlockSize:          s.settings.BlockSize,
		MaxSlots:           s.settings.MaxSlots,
		SlotDuration:       s.settings.SlotDuration,
		StartGenders:       s.settings.StartGenders,
		DefaultStartGender: models.GenderMale,
		BaseTime:           base,
		FirstOrder:         firstOrder,
	}
}

// optimize runs the slot optimizer and turns a ceiling hit into an
// invariant failure.
func (s *schedulerService) optimize(fixtures []brackets.Fixture, plan *brackets.VenuePlan, cfg brackets.OptimizerConfig) (*brackets.Schedule, error) {
	schedule, err := brackets.OptimizeSlots(fixtures, plan, cfg)
	if err != nil {
		if errors.Is(err, brackets.ErrSlotCeilingReached) {
			return nil, fmt.Errorf("%w: %w", ErrInternalInvariantFailure, err)
		}
		if errors.Is(err, brackets.ErrNoVenues) {
			return nil, fmt.Errorf("%w: %w", ErrNoVenuesConfigured, err)
		}
		return nil, err
	}
	return schedule, nil
}

func (s *schedulerService) planVenues(logger *slog.Logger, venues []models.Venue, fixtures []brackets.Fixture, config map[string]string) (*brackets.VenuePlan, error) {
	plan, err := brackets.PlanVenues(venues, brackets.ModalityNames(fixtures), config)
	if err != nil {
		if errors.Is(err, brackets.ErrNoVenues) {
			return nil, fmt.Errorf("%w: %w", ErrNoVenuesConfigured, err)
		}
		return nil, err
	}
	for _, w := range plan.Warnings {
		logger.Warn("venue substituted", slog.String("detail", w))
	}
	if len(plan.Warnings) > 0 {
		s.deps.Metrics.IncVenueFallbacks(len(plan.Warnings))
	}
	return plan, nil
}

func (s *schedulerService) loadTournament(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.deps.Tournaments.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTournamentNotFound, id)
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", id, err)
	}
	return t, nil
}

func (s *schedulerService) listVenues(ctx context.Context) ([]models.Venue, error) {
	venues, err := s.deps.Venues.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	if len(venues) == 0 {
		return nil, ErrNoVenuesConfigured
	}
	return venues, nil
}

// finish records the outcome of an operation. Invariant failures are logged
// at error level with their kind so alerts can tell them from user errors.
func (s *schedulerService) finish(operation string, logger *slog.Logger, started time.Time, err error) {
	s.deps.Metrics.ObserveGenerationDuration(operation, time.Since(started).Seconds())
	if err == nil {
		s.deps.Metrics.IncGenerations(operation, "ok")
		return
	}

	kind := ErrorKind(err)
	s.deps.Metrics.IncGenerations(operation, kind)
	if IsUserError(err) {
		logger.Warn("operation rejected", slog.String("kind", kind), slog.String("detail", err.Error()))
		return
	}
	if kind == KindInternalInvariantFailure {
		s.deps.Metrics.IncInvariantFailures()
		logger.Error("scheduler invariant violated", slog.String("kind", kind), slog.Any("error", err))
		return
	}
	logger.Error("operation failed", slog.String("kind", kind), slog.Any("error", err))
}

func (s *schedulerService) broadcast(tournamentID int, event string, payload interface{}) {
	if s.deps.Broadcaster == nil {
		return
	}
	s.deps.Broadcaster.BroadcastToTournament(tournamentID, event, payload)
}

func validateScope(modalityID int, gender models.Gender) error {
	if modalityID <= 0 {
		return fmt.Errorf("%w: modality_id is required", ErrInvalidParameters)
	}
	if !gender.IsValid() {
		return fmt.Errorf("%w: gender must be male or female, got %q", ErrInvalidParameters, string(gender))
	}
	return nil
}

func cycleStats(schedule *brackets.Schedule) map[string]brackets.CycleStat {
	out := make(map[string]brackets.CycleStat, len(schedule.Cycles))
	for modality, stat := range schedule.Cycles {
		out[modality] = *stat
	}
	return out
}

func countWithResult(matches []models.Match) int {
	n := 0
	for _, m := range matches {
		if m.HasResult() {
			n++
		}
	}
	return n
}

func matchPointers(matches []models.Match) []*models.Match {
	out := make([]*models.Match, len(matches))
	for i := range matches {
		out[i] = &matches[i]
	}
	return out
}

func (s *schedulerService) ListMatches(ctx context.Context, filter repositories.MatchFilter) ([]models.Match, error) {
	if filter.TournamentID <= 0 {
		return nil, fmt.Errorf("%w: tournament_id is required", ErrInvalidParameters)
	}
	if filter.Gender != nil && !filter.Gender.IsValid() {
		return nil, fmt.Errorf("%w: unknown gender %q", ErrInvalidParameters, string(*filter.Gender))
	}
	if filter.Phase != nil && !filter.Phase.IsValid() {
		return nil, fmt.Errorf("%w: unknown phase %q", ErrInvalidParameters, string(*filter.Phase))
	}
	if _, err := s.loadTournament(ctx, filter.TournamentID); err != nil {
		return nil, err
	}
	matches, err := s.deps.Matches.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", filter.TournamentID, err)
	}
	return matches, nil
}

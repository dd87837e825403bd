package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/school-tournament/metrics"
	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/repositories"
	"github.com/Dosada05/school-tournament/storage"
)

var errStoreDown = errors.New("store is down")

// memStore is an in-memory stand-in for the PostgreSQL repositories. A
// transaction snapshots the matches and restores them when fn fails.
type memStore struct {
	mu          sync.Mutex
	txMu        sync.Mutex
	tournaments map[int]models.Tournament
	groups      []models.Group
	venues      []models.Venue
	modalities  map[int]string
	matches     []models.Match
	nextID      int
	failCreate  error
	scopes      []repositories.ScopeKey
}

func newMemStore() *memStore {
	return &memStore{
		tournaments: map[int]models.Tournament{1: {ID: 1, Name: "Jogos Escolares", Year: 2026, Status: models.StatusActive}},
		modalities:  map[int]string{},
		nextID:      1,
	}
}

func (s *memStore) snapshot() []models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Match, len(s.matches))
	copy(out, s.matches)
	return out
}

func (s *memStore) addVenues(names ...string) {
	for _, name := range names {
		s.venues = append(s.venues, models.Venue{ID: len(s.venues) + 1, Name: name})
	}
}

// addGroup registers a group whose teams get consecutive ids from firstTeamID.
func (s *memStore) addGroup(id, modalityID int, modality, name string, gender models.Gender, firstTeamID, size int) {
	s.modalities[modalityID] = modality
	groupID := id
	g := models.Group{ID: id, Name: name, TournamentID: 1, ModalityID: modalityID, ModalityName: modality}
	for i := 0; i < size; i++ {
		g.Teams = append(g.Teams, models.Team{
			ID:           firstTeamID + i,
			Name:         name,
			Gender:       gender,
			ModalityID:   modalityID,
			TournamentID: 1,
			GroupID:      &groupID,
		})
	}
	for i := range s.groups {
		if s.groups[i].ID == id {
			s.groups[i].Teams = append(s.groups[i].Teams, g.Teams...)
			return
		}
	}
	s.groups = append(s.groups, g)
}

func (s *memStore) insert(m models.Match) models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.nextID
	s.nextID++
	if m.ModalityName == "" {
		m.ModalityName = s.modalities[m.ModalityID]
	}
	s.matches = append(s.matches, m)
	return m
}

func (s *memStore) update(id int, fn func(m *models.Match)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.matches {
		if s.matches[i].ID == id {
			fn(&s.matches[i])
		}
	}
}

func (s *memStore) WithinScope(ctx context.Context, scope repositories.ScopeKey, fn func(ctx context.Context, exec repositories.SQLExecutor) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.scopes = append(s.scopes, scope)
	backup := make([]models.Match, len(s.matches))
	copy(backup, s.matches)
	nextID := s.nextID
	s.mu.Unlock()

	if err := fn(ctx, nil); err != nil {
		s.mu.Lock()
		s.matches = backup
		s.nextID = nextID
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Tournament, error) {
	t, ok := s.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (s *memStore) ListWithTeams(_ context.Context, _ repositories.SQLExecutor, tournamentID int, modalityID *int) ([]models.Group, error) {
	out := make([]models.Group, 0)
	for _, g := range s.groups {
		if g.TournamentID != tournamentID || (modalityID != nil && g.ModalityID != *modalityID) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

type memVenues struct{ store *memStore }

func (v memVenues) List(_ context.Context, _ repositories.SQLExecutor) ([]models.Venue, error) {
	return append([]models.Venue(nil), v.store.venues...), nil
}

type memMatches struct{ store *memStore }

func matchesFilter(m models.Match, f repositories.MatchFilter) bool {
	if m.TournamentID != f.TournamentID {
		return false
	}
	if f.ModalityID != nil && m.ModalityID != *f.ModalityID {
		return false
	}
	if f.Gender != nil && m.Gender != *f.Gender {
		return false
	}
	if f.Type != nil && m.Type != *f.Type {
		return false
	}
	if f.Phase != nil && (m.Phase == nil || *m.Phase != *f.Phase) {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			found = found || st == m.Status
		}
		if !found {
			return false
		}
	}
	if len(f.GroupIDs) > 0 {
		found := false
		for _, id := range f.GroupIDs {
			found = found || (m.GroupID != nil && *m.GroupID == id)
		}
		if !found {
			return false
		}
	}
	return true
}

func (r memMatches) List(_ context.Context, _ repositories.SQLExecutor, f repositories.MatchFilter) ([]models.Match, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]models.Match, 0)
	for _, m := range r.store.matches {
		if matchesFilter(m, f) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memMatches) MaxOrder(_ context.Context, _ repositories.SQLExecutor, tournamentID int, matchType *models.MatchType) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	max := 0
	for _, m := range r.store.matches {
		if m.TournamentID == tournamentID && (matchType == nil || m.Type == *matchType) && m.Order > max {
			max = m.Order
		}
	}
	return max, nil
}

func (r memMatches) CreateBatch(_ context.Context, _ repositories.SQLExecutor, matches []*models.Match) error {
	for i, m := range matches {
		if r.store.failCreate != nil && i == len(matches)-1 {
			return r.store.failCreate
		}
		created := r.store.insert(*m)
		m.ID = created.ID
		m.CreatedAt = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	}
	return nil
}

func (r memMatches) UpdateSchedule(_ context.Context, _ repositories.SQLExecutor, matches []models.Match) error {
	for _, m := range matches {
		updated := m
		r.store.update(m.ID, func(stored *models.Match) {
			stored.Order = updated.Order
			stored.VenueID = updated.VenueID
			stored.ScheduledAt = updated.ScheduledAt
		})
	}
	return nil
}

func (r memMatches) Delete(_ context.Context, _ repositories.SQLExecutor, f repositories.MatchFilter) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.matches[:0:0]
	var deleted int64
	for _, m := range r.store.matches {
		if matchesFilter(m, f) {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	r.store.matches = kept
	return deleted, nil
}

type broadcastEvent struct {
	TournamentID int
	Type         string
	Payload      interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (b *recordingBroadcaster) BroadcastToTournament(tournamentID int, eventType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{TournamentID: tournamentID, Type: eventType, Payload: payload})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.Type
	}
	return out
}

type memUploader struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	err       error
	deleteErr error
}

func (u *memUploader) Upload(_ context.Context, key string, _ string, reader io.Reader) (*storage.UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.objects == nil {
		u.objects = make(map[string][]byte)
	}
	u.objects[key] = body
	return &storage.UploadResult{Key: key, Location: "mem://" + key}, nil
}

func (u *memUploader) Delete(_ context.Context, key string) error {
	if u.deleteErr != nil {
		return u.deleteErr
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *memUploader) GetPublicURL(key string) string {
	return "https://cdn.example.test/" + key
}

var fixedNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type harness struct {
	store       *memStore
	metrics     *metrics.Mock
	broadcaster *recordingBroadcaster
	uploader    *memUploader
	logs        *bytes.Buffer
	service     SchedulerService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := newMemStore()
	h := &harness{
		store:       store,
		metrics:     metrics.NewMock(),
		broadcaster: &recordingBroadcaster{},
		uploader:    &memUploader{},
		logs:        &bytes.Buffer{},
	}
	logger := slog.New(slog.NewJSONHandler(h.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h.service = NewSchedulerService(Dependencies{
		Transactor:  store,
		Tournaments: store,
		Groups:      store,
		Venues:      memVenues{store},
		Matches:     memMatches{store},
		Classifier:  NewPointsClassifier(),
		Metrics:     h.metrics,
		Broadcaster: h.broadcaster,
		Snapshots:   NewSnapshotPublisher(h.uploader, logger),
		Logger:      logger,
	}, Settings{
		SlotDuration:       30 * time.Minute,
		EliminationSpacing: 45 * time.Minute,
		Now:                func() time.Time { return fixedNow },
	})
	return h
}

func intPtr(v int) *int { return &v }

func filterFor(tournamentID int, matchType *models.MatchType, phase *models.Phase) repositories.MatchFilter {
	return repositories.MatchFilter{TournamentID: tournamentID, Type: matchType, Phase: phase}
}

package services

import (
	"sync"

	"github.com/Dosada05/school-tournament/repositories"
)

// scopeLocks serializes regenerations inside one process. Tournament-wide
// work holds the tournament lock exclusively; scoped work shares it and holds
// the scope lock. The database transaction takes the same locks again for
// other instances.
//
// Entries are reference counted and dropped once nobody holds or waits on
// them, so the maps only track tournaments with work in flight.
type scopeLocks struct {
	mu          sync.Mutex
	tournaments map[int]*tournamentLock
	scopes      map[repositories.ScopeKey]*scopeLock
}

type tournamentLock struct {
	sync.RWMutex
	refs int
}

type scopeLock struct {
	sync.Mutex
	refs int
}

func newScopeLocks() *scopeLocks {
	return &scopeLocks{
		tournaments: make(map[int]*tournamentLock),
		scopes:      make(map[repositories.ScopeKey]*scopeLock),
	}
}

// lock blocks until scope is free and returns the matching unlock.
func (l *scopeLocks) lock(scope repositories.ScopeKey) func() {
	l.mu.Lock()
	tournament, ok := l.tournaments[scope.TournamentID]
	if !ok {
		tournament = &tournamentLock{}
		l.tournaments[scope.TournamentID] = tournament
	}
	tournament.refs++
	var scoped *scopeLock
	if !scope.TournamentWide() {
		scoped, ok = l.scopes[scope]
		if !ok {
			scoped = &scopeLock{}
			l.scopes[scope] = scoped
		}
		scoped.refs++
	}
	l.mu.Unlock()

	if scoped == nil {
		tournament.Lock()
		return func() {
			tournament.Unlock()
			l.release(scope, tournament, nil)
		}
	}
	tournament.RLock()
	scoped.Lock()
	return func() {
		scoped.Unlock()
		tournament.RUnlock()
		l.release(scope, tournament, scoped)
	}
}

func (l *scopeLocks) release(scope repositories.ScopeKey, tournament *tournamentLock, scoped *scopeLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if scoped != nil {
		scoped.refs--
		if scoped.refs == 0 {
			delete(l.scopes, scope)
		}
	}
	tournament.refs--
	if tournament.refs == 0 {
		delete(l.tournaments, scope.TournamentID)
	}
}


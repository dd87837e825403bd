package services

import (
	"errors"

	"github.com/Dosada05/school-tournament/brackets"
	"github.com/Dosada05/school-tournament/repositories"
)

// Scheduler errors. Each maps to one machine-readable Kind*.
var (
	ErrInvalidParameters         = errors.New("invalid parameters")
	ErrTournamentNotFound        = errors.New("tournament not found")
	ErrNoGroupsFound             = errors.New("no groups found, run the draw first")
	ErrNoVenuesConfigured        = errors.New("no venues configured, register a venue first")
	ErrPreviousPhaseIncomplete   = errors.New("previous phase has unfinished matches")
	ErrInsufficientTeams         = errors.New("not enough teams")
	ErrInsufficientTeamsForPhase = errors.New("not enough teams for the phase")
	ErrNoNextPhase               = errors.New("no next phase")
	ErrScheduleAlreadyExists     = errors.New("group schedule already exists")
	ErrRegenerationNotConfirmed  = errors.New("regeneration would discard played matches and was not confirmed")
	ErrInternalInvariantFailure  = errors.New("internal invariant failure")
)

const (
	KindInvalidParameters         = "InvalidParameters"
	KindTournamentNotFound        = "TournamentNotFound"
	KindNoGroupsFound             = "NoGroupsFound"
	KindNoVenuesConfigured        = "NoVenuesConfigured"
	KindPreviousPhaseIncomplete   = "PreviousPhaseIncomplete"
	KindInsufficientTeams         = "InsufficientTeams"
	KindInsufficientTeamsForPhase = "InsufficientTeamsForPhase"
	KindNoNextPhase               = "NoNextPhase"
	KindScheduleAlreadyExists     = "ScheduleAlreadyExists"
	KindRegenerationNotConfirmed  = "RegenerationNotConfirmed"
	KindInternalInvariantFailure  = "InternalInvariantFailure"
	KindInternal                  = "InternalError"
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidParameters, KindInvalidParameters},
	{ErrTournamentNotFound, KindTournamentNotFound},
	{ErrNoGroupsFound, KindNoGroupsFound},
	{ErrNoVenuesConfigured, KindNoVenuesConfigured},
	{ErrPreviousPhaseIncomplete, KindPreviousPhaseIncomplete},
	{ErrInsufficientTeamsForPhase, KindInsufficientTeamsForPhase},
	{ErrInsufficientTeams, KindInsufficientTeams},
	{ErrNoNextPhase, KindNoNextPhase},
	{ErrScheduleAlreadyExists, KindScheduleAlreadyExists},
	{ErrRegenerationNotConfirmed, KindRegenerationNotConfirmed},
	{ErrInternalInvariantFailure, KindInternalInvariantFailure},

	// Errors of the lower layers that reach callers unwrapped.
	{repositories.ErrTournamentNotFound, KindTournamentNotFound},
	{brackets.ErrNoVenues, KindNoVenuesConfigured},
	{brackets.ErrNoNextPhase, KindNoNextPhase},
	{brackets.ErrPhaseRegression, KindInvalidParameters},
	{brackets.ErrSlotCeilingReached, KindInternalInvariantFailure},
}

// ErrorKind returns the machine-readable kind of err, KindInternal for
// anything unexpected and "" for nil.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// IsUserError reports whether err is the caller's fault rather than a defect
// or an infrastructure failure.
func IsUserError(err error) bool {
	switch ErrorKind(err) {
	case "", KindInternal, KindInternalInvariantFailure:
		return false
	}
	return true
}

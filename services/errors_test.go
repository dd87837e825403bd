package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dosada05/school-tournament/brackets"
	"github.com/Dosada05/school-tournament/repositories"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("%w: 3 seeds", ErrInsufficientTeamsForPhase), KindInsufficientTeamsForPhase},
		{fmt.Errorf("%w: 1 seed", ErrInsufficientTeams), KindInsufficientTeams},
		{fmt.Errorf("%w: %w", ErrInvalidParameters, brackets.ErrPhaseRegression), KindInvalidParameters},
		{brackets.ErrPhaseRegression, KindInvalidParameters},
		{fmt.Errorf("wrap: %w", brackets.ErrSlotCeilingReached), KindInternalInvariantFailure},
		{repositories.ErrTournamentNotFound, KindTournamentNotFound},
		{brackets.ErrNoVenues, KindNoVenuesConfigured},
		{ErrScheduleAlreadyExists, KindScheduleAlreadyExists},
		{errors.New("connection reset"), KindInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorKind(tt.err), "%v", tt.err)
	}
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(ErrPreviousPhaseIncomplete))
	assert.False(t, IsUserError(ErrInternalInvariantFailure))
	assert.False(t, IsUserError(errors.New("boom")))
	assert.False(t, IsUserError(nil))
}

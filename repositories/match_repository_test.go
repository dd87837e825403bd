package repositories

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/school-tournament/models"
)

func TestMatchFilterWhere(t *testing.T) {
	modality := 3
	gender := models.GenderFemale
	matchType := models.MatchTypeElimination
	phase := models.PhaseSemifinals

	var sb strings.Builder
	args := MatchFilter{
		TournamentID: 9,
		ModalityID:   &modality,
		Gender:       &gender,
		Type:         &matchType,
		Phase:        &phase,
		Statuses:     []models.MatchStatus{models.StatusFinished},
		GroupIDs:     []int{4, 5},
	}.where(&sb, "m.")

	assert.Equal(t,
		" WHERE m.tournament_id = $1 AND m.modality_id = $2 AND m.gender = $3 AND m.type = $4"+
			" AND m.phase = $5 AND m.status::text = ANY($6) AND m.group_id = ANY($7)",
		sb.String())
	require.Len(t, args, 7)
	assert.Equal(t, 9, args[0])
	assert.Equal(t, "female", args[2])
	assert.Equal(t, "semifinals", args[4])
}

func TestMatchFilterWhere_TournamentOnly(t *testing.T) {
	var sb strings.Builder
	args := MatchFilter{TournamentID: 2}.where(&sb, "")
	assert.Equal(t, " WHERE tournament_id = $1", sb.String())
	assert.Equal(t, []interface{}{2}, args)
}

func TestScopeKey(t *testing.T) {
	whole := TournamentScope(4)
	assert.True(t, whole.TournamentWide())
	assert.Equal(t, "tournament:4", whole.String())
	assert.Zero(t, whole.advisoryObjectID())

	seen := map[int32]ScopeKey{}
	for modality := 1; modality <= 6; modality++ {
		for _, g := range []models.Gender{models.GenderMale, models.GenderFemale} {
			k := ScopeKey{TournamentID: 4, ModalityID: modality, Gender: g}
			assert.False(t, k.TournamentWide())
			id := k.advisoryObjectID()
			prev, dup := seen[id]
			assert.False(t, dup, "%s collides with %s", k, prev)
			seen[id] = k
		}
	}
}

func TestHandleMatchError(t *testing.T) {
	r := &postgresMatchRepository{}

	tests := []struct {
		err  error
		want error
	}{
		{&pq.Error{Code: "23503", Constraint: "matches_home_team_id_fkey"}, ErrMatchTeamInvalid},
		{&pq.Error{Code: "23503", Constraint: "matches_venue_id_fkey"}, ErrMatchVenueInvalid},
		{&pq.Error{Code: "23503", Constraint: "matches_group_id_fkey"}, ErrMatchGroupInvalid},
		{fmt.Errorf("insert: %w", &pq.Error{Code: "23514", Constraint: "matches_distinct_teams"}), ErrMatchShapeViolation},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, r.handleMatchError(tt.err), tt.want)
	}

	plain := errors.New("boom")
	assert.Equal(t, plain, r.handleMatchError(plain))
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/school-tournament/metrics"
	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/realtime"
)

// sixteenTeamFutsal registers four male futsal groups of four (teams 1-16)
// where team 4 already beat team 1 3-0.
func sixteenTeamFutsal(h *harness) {
	h.store.addVenues("Quadra A", "Quadra B")
	h.store.addGroup(1, 1, "Futsal", "A", models.GenderMale, 1, 4)
	h.store.addGroup(2, 1, "Futsal", "B", models.GenderMale, 5, 4)
	h.store.addGroup(3, 1, "Futsal", "C", models.GenderMale, 9, 4)
	h.store.addGroup(4, 1, "Futsal", "D", models.GenderMale, 13, 4)
	h.store.insert(models.Match{
		TournamentID: 1, ModalityID: 1, Gender: models.GenderMale, Type: models.MatchTypeGroup,
		GroupID: intPtr(1), HomeTeamID: 1, AwayTeamID: 4, Order: 1,
		Status: models.StatusFinished, HomeScore: intPtr(0), AwayScore: intPtr(3),
	})
}

func pairsOf(matches []models.Match) [][2]int {
	out := make([][2]int, len(matches))
	for i, m := range matches {
		out[i] = [2]int{m.HomeTeamID, m.AwayTeamID}
	}
	return out
}

func TestGenerateNextPhase_QuarterfinalsThenSemifinals(t *testing.T) {
	h := newHarness(t)
	sixteenTeamFutsal(h)
	ctx := context.Background()
	req := NextPhaseRequest{TournamentID: 1, ModalityID: 1, Gender: models.GenderMale}

	qf, err := h.service.GenerateNextPhase(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseQuarterfinals, qf.Phase)
	assert.Nil(t, qf.PreviousPhase)
	assert.Equal(t, 8, qf.SeedCount)
	assert.Equal(t, []int{4, 5, 9, 13, 2, 6, 10, 14}, qf.Seeds)
	require.Len(t, qf.Matches, 4)
	assert.Equal(t, [][2]int{{4, 5}, {9, 13}, {2, 6}, {10, 14}}, pairsOf(qf.Matches))
	assert.Empty(t, qf.Warnings)

	for i, m := range qf.Matches {
		assert.Equal(t, models.MatchTypeElimination, m.Type)
		assert.Equal(t, models.StatusScheduled, m.Status)
		require.NotNil(t, m.Phase)
		assert.Equal(t, models.PhaseQuarterfinals, *m.Phase)
		assert.Equal(t, 2+i, m.Order, "orders continue after the group stage")
		assert.Equal(t, fixedNow.Add(time.Duration(i)*45*time.Minute), m.ScheduledAt)
		require.NotNil(t, m.VenueID)
		assert.Equal(t, i%2+1, *m.VenueID, "venues rotate in registration order")
	}

	before := h.store.snapshot()
	_, err = h.service.GenerateNextPhase(ctx, req)
	require.ErrorIs(t, err, ErrPreviousPhaseIncomplete)
	assert.Equal(t, KindPreviousPhaseIncomplete, ErrorKind(err))
	assert.Equal(t, before, h.store.snapshot())

	results := []struct {
		home, away int
		winner     *int
	}{
		{0, 0, intPtr(5)},
		{2, 1, nil},
		{1, 1, intPtr(2)},
		{0, 2, nil},
	}
	for i, r := range results {
		r := r
		h.store.update(qf.Matches[i].ID, func(m *models.Match) {
			m.Status = models.StatusFinished
			m.HomeScore = intPtr(r.home)
			m.AwayScore = intPtr(r.away)
			m.WinnerTeamID = r.winner
		})
	}

	sf, err := h.service.GenerateNextPhase(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseSemifinals, sf.Phase)
	require.NotNil(t, sf.PreviousPhase)
	assert.Equal(t, models.PhaseQuarterfinals, *sf.PreviousPhase)
	assert.Equal(t, []int{5, 9, 2, 14}, sf.Seeds)
	assert.Equal(t, [][2]int{{5, 9}, {2, 14}}, pairsOf(sf.Matches))
	assert.Equal(t, 6, sf.Matches[0].Order)

	assert.Equal(t, 2, h.metrics.Generations(metrics.OpNextPhase, "ok"))
	assert.Equal(t, 1, h.metrics.Generations(metrics.OpNextPhase, KindPreviousPhaseIncomplete))
	assert.Equal(t, 6, h.metrics.MatchesWritten(metrics.OpNextPhase))
	assert.Equal(t, []string{realtime.EventPhaseGenerated, realtime.EventPhaseGenerated}, h.broadcaster.types())
	assert.Contains(t, h.uploader.objects, SnapshotKey(1, SnapshotPhase, sf.RunID))
	assert.Contains(t, h.uploader.objects, CurrentSnapshotKey(1, PhaseSnapshotName(1, models.GenderMale)))
	assert.Equal(t, "https://cdn.example.test/"+SnapshotKey(1, SnapshotPhase, sf.RunID), sf.SnapshotURL)
}

func TestGenerateNextPhase_FailureLeavesStoreUnchanged(t *testing.T) {
	h := newHarness(t)
	h.store.addVenues("Ginásio")
	h.store.addGroup(1, 2, "Volleyball", "A", models.GenderFemale, 1, 4)
	before := h.store.snapshot()

	_, err := h.service.GenerateNextPhase(context.Background(), NextPhaseRequest{
		TournamentID: 1, ModalityID: 2, Gender: models.GenderFemale,
	})
	require.ErrorIs(t, err, ErrInsufficientTeamsForPhase)
	assert.Contains(t, err.Error(), "needs 8 teams, got 4")
	assert.Equal(t, before, h.store.snapshot())
}

func TestGenerateNextPhase_RequestedPhase(t *testing.T) {
	h := newHarness(t)
	h.store.addVenues("Ginásio")
	h.store.addGroup(1, 2, "Volleyball", "A", models.GenderFemale, 1, 4)
	ctx := context.Background()
	semis := models.PhaseSemifinals

	res, err := h.service.GenerateNextPhase(ctx, NextPhaseRequest{TournamentID: 1, ModalityID: 2, Gender: models.GenderFemale, Phase: &semis})
	require.NoError(t, err)
	assert.Equal(t, models.PhaseSemifinals, res.Phase)
	assert.Equal(t, [][2]int{{1, 2}, {3, 4}}, pairsOf(res.Matches))
	assert.Len(t, res.Warnings, 0)

	quarters := models.PhaseQuarterfinals
	_, err = h.service.GenerateNextPhase(ctx, NextPhaseRequest{TournamentID: 1, ModalityID: 2, Gender: models.GenderFemale, Phase: &quarters})
	require.ErrorIs(t, err, ErrInvalidParameters)
}

func TestGenerateNextPhase_NoNextPhaseAfterFinal(t *testing.T) {
	h := newHarness(t)
	h.store.addVenues("Ginásio")
	h.store.addGroup(1, 2, "Volleyball", "A", models.GenderFemale, 1, 2)
	ctx := context.Background()
	final := models.PhaseFinal
	req := NextPhaseRequest{TournamentID: 1, ModalityID: 2, Gender: models.GenderFemale, Phase: &final}

	res, err := h.service.GenerateNextPhase(ctx, req)
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)

	req.Phase = nil
	_, err = h.service.GenerateNextPhase(ctx, req)
	require.ErrorIs(t, err, ErrNoNextPhase)
	assert.Equal(t, KindNoNextPhase, ErrorKind(err))
}

func TestGenerateNextPhase_Validation(t *testing.T) {
	unknown := models.Phase("round_of_64")
	tests := []struct {
		name     string
		req      NextPhaseRequest
		noVenues bool
		want     error
	}{
		{"missing tournament", NextPhaseRequest{ModalityID: 1, Gender: models.GenderMale}, false, ErrInvalidParameters},
		{"missing modality", NextPhaseRequest{TournamentID: 1, Gender: models.GenderMale}, false, ErrInvalidParameters},
		{"bad gender", NextPhaseRequest{TournamentID: 1, ModalityID: 1, Gender: "mixed"}, false, ErrInvalidParameters},
		{"unknown phase", NextPhaseRequest{TournamentID: 1, ModalityID: 1, Gender: models.GenderMale, Phase: &unknown}, false, ErrInvalidParameters},
		{"unknown tournament", NextPhaseRequest{TournamentID: 99, ModalityID: 1, Gender: models.GenderMale}, false, ErrTournamentNotFound},
		{"no venues", NextPhaseRequest{TournamentID: 1, ModalityID: 1, Gender: models.GenderMale}, true, ErrNoVenuesConfigured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if !tt.noVenues {
				h.store.addVenues("Quadra")
			}
			_, err := h.service.GenerateNextPhase(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, h.store.scopes, "no transaction may start")
		})
	}
}

func TestGenerateNextPhase_GroupsOfOtherGenderAreIgnored(t *testing.T) {
	h := newHarness(t)
	h.store.addVenues("Quadra")
	h.store.addGroup(1, 1, "Futsal", "A", models.GenderFemale, 1, 4)

	_, err := h.service.GenerateNextPhase(context.Background(), NextPhaseRequest{TournamentID: 1, ModalityID: 1, Gender: models.GenderMale})
	require.ErrorIs(t, err, ErrNoGroupsFound)
}

func TestResetEliminations(t *testing.T) {
	h := newHarness(t)
	sixteenTeamFutsal(h)
	ctx := context.Background()

	qf, err := h.service.GenerateNextPhase(ctx, NextPhaseRequest{TournamentID: 1, ModalityID: 1, Gender: models.GenderMale})
	require.NoError(t, err)
	h.store.update(qf.Matches[0].ID, func(m *models.Match) {
		m.Status = models.StatusFinished
		m.HomeScore, m.AwayScore = intPtr(1), intPtr(0)
	})

	reset := ResetRequest{TournamentID: 1, ModalityID: 1, Gender: models.GenderMale}
	before := h.store.snapshot()
	_, err = h.service.ResetEliminations(ctx, reset)
	require.ErrorIs(t, err, ErrRegenerationNotConfirmed)
	assert.Equal(t, before, h.store.snapshot())

	reset.ConfirmDestructive = true
	res, err := h.service.ResetEliminations(ctx, reset)
	require.NoError(t, err)
	assert.Equal(t, 4, res.MatchesDeleted)
	assert.Len(t, h.store.snapshot(), 1, "the group match survives")
	assert.Contains(t, h.broadcaster.types(), realtime.EventEliminationsReset)
	current := CurrentSnapshotKey(1, PhaseSnapshotName(1, models.GenderMale))
	assert.Equal(t, []string{current, CurrentSnapshotKey(1, SnapshotReorganize)}, h.uploader.deleted)
	assert.NotContains(t, h.uploader.objects, current)
	assert.Contains(t, h.uploader.objects, SnapshotKey(1, SnapshotPhase, qf.RunID))

	again, err := h.service.GenerateNextPhase(ctx, NextPhaseRequest{TournamentID: 1, ModalityID: 1, Gender: models.GenderMale})
	require.NoError(t, err)
	assert.Equal(t, models.PhaseQuarterfinals, again.Phase)
}

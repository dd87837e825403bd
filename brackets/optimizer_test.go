package brackets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/school-tournament/models"
)

var testBase = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func pool(modalityID int, modality string, gender models.Gender, firstTeam, teams, keyOffset int) []Fixture {
	ids := make([]int, teams)
	for i := range ids {
		ids[i] = firstTeam + i
	}
	return FixturesFromRounds(GenerateRoundRobin(ids), keyOffset, modalityID, modality, gender, nil)
}

func twoVenues(t *testing.T, fixtures []Fixture) *VenuePlan {
	t.Helper()
	plan, err := PlanVenues([]models.Venue{{ID: 1, Name: "Quadra"}, {ID: 2, Name: "Ginásio"}}, ModalityNames(fixtures), nil)
	require.NoError(t, err)
	return plan
}

func oneVenue(t *testing.T, fixtures []Fixture) *VenuePlan {
	t.Helper()
	plan, err := PlanVenues([]models.Venue{{ID: 1, Name: "Quadra"}}, ModalityNames(fixtures), nil)
	require.NoError(t, err)
	return plan
}

func mixedPools() []Fixture {
	var all []Fixture
	all = append(all, pool(1, "Futsal", models.GenderMale, 1, 6, len(all))...)
	all = append(all, pool(1, "Futsal", models.GenderFemale, 11, 5, len(all))...)
	all = append(all, pool(2, "Volleyball", models.GenderMale, 21, 4, len(all))...)
	all = append(all, pool(2, "Volleyball", models.GenderFemale, 31, 4, len(all))...)
	return all
}

func assertSlotInvariants(t *testing.T, fixtures []Fixture, schedule *Schedule) {
	t.Helper()
	require.Len(t, schedule.Placements, len(fixtures))

	placed := make(map[int]bool)
	for _, p := range schedule.Placements {
		assert.False(t, placed[p.Key], "fixture %d placed twice", p.Key)
		placed[p.Key] = true
	}

	remaining := map[models.Gender]int{}
	for _, f := range fixtures {
		remaining[f.Gender]++
	}
	for i, slot := range schedule.Slots() {
		require.NotEmpty(t, slot, "slot %d is empty", i)
		require.LessOrEqual(t, len(slot), 2)

		bothPools := remaining[models.GenderMale] > 0 && remaining[models.GenderFemale] > 0
		if len(slot) == 2 {
			assert.NotEqual(t, slot[0].Venue.ID, slot[1].Venue.ID, "slot %d reuses a venue", i)
			assert.False(t, slot[0].sharesTeam(slot[1].Fixture), "slot %d double-books a team", i)
		}
		if bothPools {
			require.Len(t, slot, 2, "slot %d should pair both genders", i)
			assert.NotEqual(t, slot[0].Gender, slot[1].Gender, "slot %d should pair both genders", i)
		} else {
			assert.Len(t, slot, 1, "slot %d has a single gender left", i)
		}
		for _, p := range slot {
			remaining[p.Gender]--
		}
	}
}

func TestOptimizeSlots_Invariants(t *testing.T) {
	fixtures := mixedPools()
	schedule, err := OptimizeSlots(fixtures, twoVenues(t, fixtures), OptimizerConfig{BaseTime: testBase})
	require.NoError(t, err)

	assertSlotInvariants(t, fixtures, schedule)
	assert.Greater(t, schedule.DiverseSlots, 0)
	assert.InDelta(t, float64(schedule.DiverseSlots)/float64(schedule.PairedSlots), schedule.DiversityRatio(), 1e-9)
	assert.Contains(t, schedule.Cycles, "futsal")
	assert.Contains(t, schedule.Cycles, "volleyball")
	assert.Equal(t, 25, schedule.Cycles["futsal"].Male+schedule.Cycles["futsal"].Female)
}

func TestOptimizeSlots_OrderAndTime(t *testing.T) {
	fixtures := mixedPools()
	schedule, err := OptimizeSlots(fixtures, twoVenues(t, fixtures), OptimizerConfig{
		BaseTime:     testBase,
		FirstOrder:   10,
		SlotDuration: 15 * time.Minute,
	})
	require.NoError(t, err)

	for i, p := range schedule.Placements {
		assert.Equal(t, 10+i, p.Order)
		assert.Equal(t, testBase.Add(time.Duration(p.Slot)*15*time.Minute), p.ScheduledAt)
		if i > 0 {
			assert.GreaterOrEqual(t, p.Slot, schedule.Placements[i-1].Slot)
		}
	}
}

func TestOptimizeSlots_GenderBlocks(t *testing.T) {
	var fixtures []Fixture
	fixtures = append(fixtures, pool(1, "Futsal", models.GenderMale, 1, 6, 0)...)
	fixtures = append(fixtures, pool(1, "Futsal", models.GenderFemale, 11, 6, len(fixtures))...)

	schedule, err := OptimizeSlots(fixtures, oneVenue(t, fixtures), OptimizerConfig{BaseTime: testBase})
	require.NoError(t, err)
	require.Len(t, schedule.Placements, 30)
	assert.Equal(t, 30, schedule.SlotCount)

	for i, p := range schedule.Placements {
		want := models.GenderFemale
		if (i/5)%2 == 1 {
			want = models.GenderMale
		}
		assert.Equal(t, want, p.Gender, "position %d", i)
	}
	stat := schedule.Cycles["futsal"]
	assert.Equal(t, 6, stat.CompletedCycles)
	assert.Zero(t, stat.AlternationBreaks)
}

func TestOptimizeSlots_StartGenderOverride(t *testing.T) {
	var fixtures []Fixture
	fixtures = append(fixtures, pool(2, "Volleyball", models.GenderMale, 1, 4, 0)...)
	fixtures = append(fixtures, pool(2, "Volleyball", models.GenderFemale, 11, 4, len(fixtures))...)

	schedule, err := OptimizeSlots(fixtures, oneVenue(t, fixtures), OptimizerConfig{BaseTime: testBase})
	require.NoError(t, err)
	assert.Equal(t, models.GenderMale, schedule.Placements[0].Gender)

	schedule, err = OptimizeSlots(fixtures, oneVenue(t, fixtures), OptimizerConfig{
		BaseTime:     testBase,
		StartGenders: map[string]models.Gender{"VOLLEYBALL": models.GenderFemale},
	})
	require.NoError(t, err)
	assert.Equal(t, models.GenderFemale, schedule.Placements[0].Gender)
}

func TestOptimizeSlots_AlternationBreaksAreCounted(t *testing.T) {
	var fixtures []Fixture
	fixtures = append(fixtures, pool(1, "Futsal", models.GenderFemale, 1, 3, 0)...)
	fixtures = append(fixtures, pool(1, "Futsal", models.GenderMale, 11, 6, len(fixtures))...)

	schedule, err := OptimizeSlots(fixtures, oneVenue(t, fixtures), OptimizerConfig{BaseTime: testBase})
	require.NoError(t, err)
	require.Len(t, schedule.Placements, 18)
	// Three girls matches open the first block; the two missing ones and
	// the whole third block are played by boys instead.
	assert.Equal(t, 7, schedule.Cycles["futsal"].AlternationBreaks)
}

func TestOptimizeSlots_SingleGenderPlaysAlone(t *testing.T) {
	var fixtures []Fixture
	fixtures = append(fixtures, pool(1, "Futsal", models.GenderMale, 1, 4, 0)...)
	fixtures = append(fixtures, pool(2, "Handball", models.GenderMale, 11, 4, len(fixtures))...)

	schedule, err := OptimizeSlots(fixtures, twoVenues(t, fixtures), OptimizerConfig{BaseTime: testBase})
	require.NoError(t, err)
	assertSlotInvariants(t, fixtures, schedule)
	assert.Equal(t, 12, schedule.SlotCount)
	assert.Zero(t, schedule.PairedSlots)
	assert.Zero(t, schedule.DiversityRatio())
	for i, slot := range schedule.Slots() {
		assert.Len(t, slot, 1, "slot %d", i)
		assert.Equal(t, testBase.Add(time.Duration(i)*DefaultSlotDuration), slot[0].ScheduledAt)
	}
}

func TestOptimizeSlots_TailAfterGenderExhausted(t *testing.T) {
	var fixtures []Fixture
	fixtures = append(fixtures, pool(1, "Futsal", models.GenderFemale, 1, 3, 0)...)
	fixtures = append(fixtures, pool(1, "Futsal", models.GenderMale, 11, 4, len(fixtures))...)
	fixtures = append(fixtures, pool(2, "Volleyball", models.GenderMale, 21, 3, len(fixtures))...)

	schedule, err := OptimizeSlots(fixtures, twoVenues(t, fixtures), OptimizerConfig{BaseTime: testBase})
	require.NoError(t, err)
	assertSlotInvariants(t, fixtures, schedule)

	// 3 girls' fixtures pair with 3 boys' ones, the other 6 boys' fixtures play alone.
	assert.Equal(t, 3, schedule.PairedSlots)
	assert.Equal(t, 9, schedule.SlotCount)
	for _, slot := range schedule.Slots()[3:] {
		require.Len(t, slot, 1)
		assert.Equal(t, models.GenderMale, slot[0].Gender)
	}
}

func TestOptimizeSlots_LargeInputConverges(t *testing.T) {
	modalities := []string{"Futsal", "Volleyball", "Handball", "Basketball"}
	var fixtures []Fixture
	for i, m := range modalities {
		fixtures = append(fixtures, pool(i+1, m, models.GenderMale, 1000*(i+1), 11, len(fixtures))...)
		fixtures = append(fixtures, pool(i+1, m, models.GenderFemale, 1000*(i+1)+500, 11, len(fixtures))...)
	}
	require.Len(t, fixtures, 440)

	schedule, err := OptimizeSlots(fixtures, twoVenues(t, fixtures), OptimizerConfig{BaseTime: testBase})
	require.NoError(t, err)
	assertSlotInvariants(t, fixtures, schedule)
	assert.Equal(t, 220, schedule.SlotCount)
}

func TestOptimizeSlots_Edges(t *testing.T) {
	_, err := OptimizeSlots(mixedPools(), nil, OptimizerConfig{})
	require.ErrorIs(t, err, ErrNoVenues)

	schedule, err := OptimizeSlots(nil, twoVenues(t, nil), OptimizerConfig{BaseTime: testBase})
	require.NoError(t, err)
	assert.Zero(t, schedule.SlotCount)
	assert.Zero(t, schedule.DiversityRatio())
}

package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/school-tournament/models"
)

func groupFixtures(n int) []Fixture {
	return FixturesFromRounds(GenerateRoundRobin(teamIDs(n)), 0, 1, "Futsal", models.GenderMale, nil)
}

func TestSequenceForRest_GreedyInvariant(t *testing.T) {
	for n := 3; n <= 9; n++ {
		input := groupFixtures(n)
		ordered := SequenceForRest(input)
		require.Len(t, ordered, len(input))

		lp := LastPlayed{}
		remaining := append([]Fixture(nil), ordered...)
		for pos, chosen := range ordered {
			chosenScore := RestScore(chosen, pos, lp, pos+1)
			for _, other := range remaining[1:] {
				assert.GreaterOrEqual(t, chosenScore, RestScore(other, pos, lp, pos+1),
					"n=%d position %d picked a less rested fixture", n, pos)
			}
			remaining = remaining[1:]
			lp = lp.Place(chosen, pos)
		}
	}
}

func TestSequenceForRest_FiveTeams(t *testing.T) {
	ordered := SequenceForRest(groupFixtures(5))
	require.Len(t, ordered, 10)
	assert.False(t, ordered[0].sharesTeam(ordered[1]), "first two slots reuse a team")

	keys := make(map[int]bool)
	for _, f := range ordered {
		keys[f.Key] = true
	}
	assert.Len(t, keys, 10)
}

func TestSequenceForRest_Deterministic(t *testing.T) {
	input := groupFixtures(6)
	assert.Equal(t, SequenceForRest(input), SequenceForRest(input))
}

func TestLastPlayed_PlaceIsPure(t *testing.T) {
	lp := LastPlayed{1: 0}
	next := lp.Place(Fixture{HomeID: 1, AwayID: 2}, 3)

	assert.Equal(t, LastPlayed{1: 0}, lp)
	assert.Equal(t, LastPlayed{1: 3, 2: 3}, next)
}

func TestRestScore(t *testing.T) {
	lp := LastPlayed{1: 2, 2: 4}
	assert.Equal(t, 1, RestScore(Fixture{HomeID: 1, AwayID: 2}, 5, lp, 100))
	assert.Equal(t, 3, RestScore(Fixture{HomeID: 1, AwayID: 9}, 5, lp, 100))
	assert.Equal(t, 100, RestScore(Fixture{HomeID: 8, AwayID: 9}, 5, lp, 100))
}

func TestPickMostRested(t *testing.T) {
	lp := LastPlayed{1: 0, 2: 0, 3: 1}
	candidates := []Fixture{
		{HomeID: 1, AwayID: 3},
		{HomeID: 1, AwayID: 2},
		{HomeID: 4, AwayID: 5},
	}
	assert.Equal(t, 1, PickMostRested(candidates, 2, LastPlayed{1: 0, 2: 0, 3: 1, 4: 0}, 10), "first of the ties wins")
	assert.Equal(t, 2, PickMostRested(candidates, 2, lp, 10))
	assert.Equal(t, -1, PickMostRested(nil, 0, lp, 10))
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func score(v int) *int { return &v }

func TestMatch_Winner(t *testing.T) {
	tests := []struct {
		name   string
		match  Match
		winner int
		ok     bool
	}{
		{"no result", Match{HomeTeamID: 1, AwayTeamID: 2}, 0, false},
		{"home wins", Match{HomeTeamID: 1, AwayTeamID: 2, HomeScore: score(2), AwayScore: score(0)}, 1, true},
		{"away wins", Match{HomeTeamID: 1, AwayTeamID: 2, HomeScore: score(0), AwayScore: score(1)}, 2, true},
		{"draw", Match{HomeTeamID: 1, AwayTeamID: 2, HomeScore: score(1), AwayScore: score(1)}, 0, false},
		{"marker beats score", Match{HomeTeamID: 1, AwayTeamID: 2, HomeScore: score(1), AwayScore: score(1), WinnerTeamID: score(2)}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winner, ok := tt.match.Winner()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.winner, winner)
		})
	}
}

func TestMatch_HasResult(t *testing.T) {
	assert.False(t, Match{Status: StatusScheduled}.HasResult())
	assert.True(t, Match{Status: StatusInProgress}.HasResult())
	assert.True(t, Match{Status: StatusFinished}.HasResult())
	assert.True(t, Match{Status: StatusScheduled, HomeScore: score(0)}.HasResult())
}

func TestParseGender(t *testing.T) {
	for _, in := range []string{"male", "M", " masculino "} {
		g, err := ParseGender(in)
		assert.NoError(t, err)
		assert.Equal(t, GenderMale, g)
	}
	g, err := ParseGender("Feminino")
	assert.NoError(t, err)
	assert.Equal(t, GenderFemale, g)
	assert.Equal(t, GenderMale, g.Opposite())

	_, err = ParseGender("mixed")
	assert.Error(t, err)
}

package brackets

import "math/rand"

// byeTeamID pads odd groups. Team IDs are database serials, so it can never
// collide with a real team.
const byeTeamID = -1

type Pairing struct {
	HomeID int
	AwayID int
}

// Round is one matchday of a round-robin. ByeTeamID is set when the group
// has an odd number of teams and someone sits out.
type Round struct {
	Index     int
	Pairings  []Pairing
	ByeTeamID *int
}

// GenerateRoundRobin builds a single round-robin with the circle method.
// Position i meets position last-i; after every round the first team stays
// and the others rotate by one. Fewer than two teams yields no rounds.
func GenerateRoundRobin(teamIDs []int) []Round {
	if len(teamIDs) < 2 {
		return nil
	}

	circle := make([]int, len(teamIDs), len(teamIDs)+1)
	copy(circle, teamIDs)
	if len(circle)%2 != 0 {
		circle = append(circle, byeTeamID)
	}

	n := len(circle)
	rounds := make([]Round, 0, n-1)
	for r := 0; r < n-1; r++ {
		round := Round{Index: r + 1, Pairings: make([]Pairing, 0, n/2)}
		for i := 0; i < n/2; i++ {
			home, away := circle[i], circle[n-1-i]
			switch {
			case home == byeTeamID:
				bye := away
				round.ByeTeamID = &bye
				continue
			case away == byeTeamID:
				bye := home
				round.ByeTeamID = &bye
				continue
			}
			round.Pairings = append(round.Pairings, Pairing{HomeID: home, AwayID: away})
		}
		rounds = append(rounds, round)
		circle = rotate(circle)
	}
	return rounds
}

// rotate keeps the first position fixed and moves the last element to
// position one.
func rotate(circle []int) []int {
	n := len(circle)
	if n < 3 {
		return circle
	}
	out := make([]int, 0, n)
	out = append(out, circle[0], circle[n-1])
	out = append(out, circle[1:n-1]...)
	return out
}

// ShuffleTeams returns a shuffled copy so that redoing a draw of the same
// group yields different pairings. The input is left untouched.
func ShuffleTeams(teamIDs []int, rng *rand.Rand) []int {
	out := make([]int, len(teamIDs))
	copy(out, teamIDs)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

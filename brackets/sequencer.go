package brackets

// LastPlayed maps a team to the position (or slot) of its latest placed
// match. Placement steps never mutate it; they return an updated copy.
type LastPlayed map[int]int

// Place records that both teams of f played at position.
func (lp LastPlayed) Place(f Fixture, position int) LastPlayed {
	next := make(LastPlayed, len(lp)+2)
	for team, pos := range lp {
		next[team] = pos
	}
	for _, team := range f.Teams() {
		next[team] = position
	}
	return next
}

func (lp LastPlayed) restOf(teamID, position, neverPlayed int) int {
	last, ok := lp[teamID]
	if !ok {
		return neverPlayed
	}
	return position - last
}

// RestScore is the rest of the more tired team of f if it were placed at
// position. Teams without a match score neverPlayed.
func RestScore(f Fixture, position int, lp LastPlayed, neverPlayed int) int {
	return min(lp.restOf(f.HomeID, position, neverPlayed), lp.restOf(f.AwayID, position, neverPlayed))
}

// PickMostRested returns the index of the candidate with the highest
// RestScore, the first one on ties, or -1 for no candidates.
func PickMostRested(candidates []Fixture, position int, lp LastPlayed, neverPlayed int) int {
	best, bestScore := -1, 0
	for i, c := range candidates {
		score := RestScore(c, position, lp, neverPlayed)
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// SequenceForRest orders fixtures greedily so that, at each position, the
// chosen match is the one whose teams rested the longest. A team that has not
// played yet counts as last seen at position -1. The result is locally greedy,
// not a global optimum; O(P²) is fine for a school tournament.
func SequenceForRest(fixtures []Fixture) []Fixture {
	pending := make([]Fixture, len(fixtures))
	copy(pending, fixtures)

	ordered := make([]Fixture, 0, len(fixtures))
	lp := LastPlayed{}
	for position := 0; len(pending) > 0; position++ {
		idx := PickMostRested(pending, position, lp, position+1)
		chosen := pending[idx]
		pending = append(pending[:idx], pending[idx+1:]...)

		ordered = append(ordered, chosen)
		lp = lp.Place(chosen, position)
	}
	return ordered
}

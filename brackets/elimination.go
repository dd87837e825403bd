package brackets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Dosada05/school-tournament/models"
)

var (
	ErrNoNextPhase     = errors.New("no next elimination phase")
	ErrPhaseRegression = errors.New("requested phase does not come after the last created phase")
)

// DefaultFirstPhase is used when no elimination phase exists and the caller
// did not ask for a specific one.
const DefaultFirstPhase = models.PhaseQuarterfinals

// DistinctPhases lists the phases present in matches in creation order
// (ascending match ID). Group-stage matches are ignored.
func DistinctPhases(matches []models.Match) []models.Phase {
	sorted := make([]models.Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	seen := make(map[models.Phase]bool)
	out := make([]models.Phase, 0, 4)
	for _, m := range sorted {
		if m.Phase == nil || seen[*m.Phase] {
			continue
		}
		seen[*m.Phase] = true
		out = append(out, *m.Phase)
	}
	return out
}

// PhaseTransition is the outcome of resolving which phase to generate.
// Previous is nil when the bracket starts from the group stage.
type PhaseTransition struct {
	Target   models.Phase
	Previous *models.Phase
}

func (t PhaseTransition) IsFirst() bool {
	return t.Previous == nil
}

// ResolveTargetPhase picks the phase to generate from the phases already
// created and an optional explicit request. The request must be a valid phase.
func ResolveTargetPhase(existing []models.Phase, requested *models.Phase) (PhaseTransition, error) {
	if len(existing) == 0 {
		if requested != nil {
			return PhaseTransition{Target: *requested}, nil
		}
		return PhaseTransition{Target: DefaultFirstPhase}, nil
	}

	last := existing[len(existing)-1]
	if !last.IsValid() {
		return PhaseTransition{}, fmt.Errorf("%w: last phase %q is not recognized", ErrNoNextPhase, string(last))
	}

	if requested != nil && !containsPhase(existing, *requested) {
		if !requested.After(last) {
			return PhaseTransition{}, fmt.Errorf("%w: %s requested after %s", ErrPhaseRegression, *requested, last)
		}
		return PhaseTransition{Target: *requested, Previous: &last}, nil
	}

	next, err := last.Next()
	if err != nil {
		return PhaseTransition{}, fmt.Errorf("%w: %v", ErrNoNextPhase, err)
	}
	return PhaseTransition{Target: next, Previous: &last}, nil
}

func containsPhase(phases []models.Phase, p models.Phase) bool {
	for _, candidate := range phases {
		if candidate == p {
			return true
		}
	}
	return false
}

// InterleaveStandings seeds a first elimination phase from per-group tables:
// every group's 1st place in group order, then every 2nd place, and so on.
// A capacity above zero truncates the result.
func InterleaveStandings(groups [][]models.Standing, capacity int) []models.Standing {
	seeds := make([]models.Standing, 0)
	for position := 0; ; position++ {
		found := false
		for _, table := range groups {
			if position >= len(table) {
				continue
			}
			found = true
			seeds = append(seeds, table[position])
		}
		if !found {
			break
		}
	}
	if capacity > 0 && len(seeds) > capacity {
		seeds = seeds[:capacity]
	}
	return seeds
}

// Winners collects the advancing team of every finished match, in match
// order. Matches without a winner are skipped.
func Winners(matches []models.Match) []int {
	sorted := make([]models.Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].ID < sorted[j].ID
	})

	winners := make([]int, 0, len(sorted))
	for _, m := range sorted {
		if m.Status != models.StatusFinished {
			continue
		}
		if w, ok := m.Winner(); ok {
			winners = append(winners, w)
		}
	}
	return winners
}

// PairSeeds pairs seed 0 with seed 1, seed 2 with seed 3 and so on. An odd
// trailing seed is dropped.
func PairSeeds(seeds []int) []Pairing {
	pairs := make([]Pairing, 0, len(seeds)/2)
	for i := 0; i+1 < len(seeds); i += 2 {
		pairs = append(pairs, Pairing{HomeID: seeds[i], AwayID: seeds[i+1]})
	}
	return pairs
}

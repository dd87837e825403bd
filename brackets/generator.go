package brackets

import "github.com/Dosada05/school-tournament/models"

// Fixture is a pairing that still has to be placed in time and space.
// Key is opaque to the algorithms; callers use it to find their own record
// (an index for new fixtures, a match ID when reorganizing).
type Fixture struct {
	Key        int
	HomeID     int
	AwayID     int
	ModalityID int
	Modality   string
	Gender     models.Gender
	GroupID    *int
	Round      int
}

// Teams returns both sides of the fixture.
func (f Fixture) Teams() [2]int {
	return [2]int{f.HomeID, f.AwayID}
}

func (f Fixture) sharesTeam(other Fixture) bool {
	return f.HomeID == other.HomeID || f.HomeID == other.AwayID ||
		f.AwayID == other.HomeID || f.AwayID == other.AwayID
}

// FixturesFromRounds flattens generated rounds into fixtures of one group.
// Keys continue from keyOffset so fixtures of several groups never collide.
func FixturesFromRounds(rounds []Round, keyOffset, modalityID int, modality string, gender models.Gender, groupID *int) []Fixture {
	out := make([]Fixture, 0)
	for _, r := range rounds {
		for _, p := range r.Pairings {
			out = append(out, Fixture{
				Key:        keyOffset + len(out),
				HomeID:     p.HomeID,
				AwayID:     p.AwayID,
				ModalityID: modalityID,
				Modality:   modality,
				Gender:     gender,
				GroupID:    groupID,
				Round:      r.Index,
			})
		}
	}
	return out
}

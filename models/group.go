package models

// Group is a draw bucket of teams inside one (tournament, modality) pair.
type Group struct {
	ID           int    `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	ModalityID   int    `json:"modality_id" db:"modality_id"`

	ModalityName string `json:"modality_name,omitempty" db:"-"`
	Teams        []Team `json:"teams,omitempty" db:"-"`
}

// TeamsByGender splits the roster keeping the draw order inside each category.
func (g Group) TeamsByGender() map[Gender][]Team {
	out := make(map[Gender][]Team, 2)
	for _, t := range g.Teams {
		out[t.Gender] = append(out[t.Gender], t)
	}
	return out
}

// HasGender reports whether any team of the group competes in gender.
func (g Group) HasGender(gender Gender) bool {
	for _, t := range g.Teams {
		if t.Gender == gender {
			return true
		}
	}
	return false
}

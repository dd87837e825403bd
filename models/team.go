package models

import (
	"fmt"
	"strings"
)

// Gender is the category a team competes in.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// Opposite returns the other category. An invalid value maps to itself.
func (g Gender) Opposite() Gender {
	switch g {
	case GenderMale:
		return GenderFemale
	case GenderFemale:
		return GenderMale
	}
	return g
}

// ParseGender accepts the canonical values and the short forms used by the
// registration spreadsheets (m/f, masculino/feminino).
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "masculino":
		return GenderMale, nil
	case "female", "f", "feminino":
		return GenderFemale, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

type Team struct {
	ID           int    `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Course       string `json:"course" db:"course"`
	Room         string `json:"room" db:"room"`
	Gender       Gender `json:"gender" db:"gender"`
	ModalityID   int    `json:"modality_id" db:"modality_id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	GroupID      *int   `json:"group_id,omitempty" db:"group_id"`
}

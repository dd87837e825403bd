package models

import (
	"errors"
	"fmt"
)

// Phase is an elimination round. The zero value means group stage.
type Phase string

const (
	PhaseRoundOf16     Phase = "round_of_16"
	PhaseQuarterfinals Phase = "quarterfinals"
	PhaseSemifinals    Phase = "semifinals"
	PhaseFinal         Phase = "final"
)

var (
	ErrTerminalPhase = errors.New("phase is terminal")
	ErrUnknownPhase  = errors.New("unknown phase")
)

// phaseOrder is the only legal progression; brackets never walk it backwards.
var phaseOrder = []Phase{PhaseRoundOf16, PhaseQuarterfinals, PhaseSemifinals, PhaseFinal}

var phaseCapacity = map[Phase]int{
	PhaseRoundOf16:     16,
	PhaseQuarterfinals: 8,
	PhaseSemifinals:    4,
	PhaseFinal:         2,
}

// Phases returns the progression in order.
func Phases() []Phase {
	out := make([]Phase, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}

func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPhase, s)
	}
	return p, nil
}

func (p Phase) IsValid() bool {
	_, ok := phaseCapacity[p]
	return ok
}

// Capacity is the number of teams the phase is played with.
func (p Phase) Capacity() int {
	return phaseCapacity[p]
}

// Index is the position of the phase in the progression, -1 if unknown.
func (p Phase) Index() int {
	for i, candidate := range phaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Next returns the phase that follows p.
func (p Phase) Next() (Phase, error) {
	idx := p.Index()
	if idx < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownPhase, string(p))
	}
	if idx == len(phaseOrder)-1 {
		return "", fmt.Errorf("%w: %s", ErrTerminalPhase, p)
	}
	return phaseOrder[idx+1], nil
}

// After reports whether p comes strictly later than other in the progression.
func (p Phase) After(other Phase) bool {
	return p.Index() > other.Index()
}

// Label is the display name used on printed brackets.
func (p Phase) Label() string {
	switch p {
	case PhaseRoundOf16:
		return "Round of 16"
	case PhaseQuarterfinals:
		return "Quarterfinals"
	case PhaseSemifinals:
		return "Semifinals"
	case PhaseFinal:
		return "Final"
	}
	return "Group stage"
}

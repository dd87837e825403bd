package brackets

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Dosada05/school-tournament/models"
)

// ErrSlotCeilingReached means the slot loop did not converge. Every slot
// places at least one fixture, so hitting it is a defect, not bad input.
var ErrSlotCeilingReached = errors.New("slot optimizer iteration ceiling reached")

// neverPlayedRest ranks teams without a match above any real rest value.
const neverPlayedRest = math.MaxInt32

// slotCapacity is the number of matches played at the same time.
const slotCapacity = 2

const (
	DefaultBlockSize    = 5
	DefaultMaxSlots     = 1000
	DefaultSlotDuration = 30 * time.Minute
)

// DefaultStartGenders is the gender each modality opens its first block with
// when the caller does not say otherwise.
func DefaultStartGenders() map[string]models.Gender {
	return map[string]models.Gender{
		"futsal":     models.GenderFemale,
		"volleyball": models.GenderMale,
		"handball":   models.GenderFemale,
		"basketball": models.GenderMale,
	}
}

type OptimizerConfig struct {
	BlockSize          int
	MaxSlots           int
	SlotDuration       time.Duration
	StartGenders       map[string]models.Gender
	DefaultStartGender models.Gender
	BaseTime           time.Time
	FirstOrder         int
}

func (c OptimizerConfig) withDefaults() OptimizerConfig {
	if c.BlockSize <= 0 {
		c.BlockSize = DefaultBlockSize
	}
	if c.MaxSlots <= 0 {
		c.MaxSlots = DefaultMaxSlots
	}
	if c.SlotDuration <= 0 {
		c.SlotDuration = DefaultSlotDuration
	}
	if c.StartGenders == nil {
		c.StartGenders = DefaultStartGenders()
	}
	normalized := make(map[string]models.Gender, len(c.StartGenders))
	for modality, g := range c.StartGenders {
		normalized[normalizeName(modality)] = g
	}
	c.StartGenders = normalized
	if !c.DefaultStartGender.IsValid() {
		c.DefaultStartGender = models.GenderMale
	}
	if c.BaseTime.IsZero() {
		c.BaseTime = time.Now()
	}
	if c.FirstOrder <= 0 {
		c.FirstOrder = 1
	}
	return c
}

func (c OptimizerConfig) startGender(modality string) models.Gender {
	if g, ok := c.StartGenders[normalizeName(modality)]; ok && g.IsValid() {
		return g
	}
	return c.DefaultStartGender
}

type Placement struct {
	Fixture
	Slot        int
	Order       int
	Venue       models.Venue
	ScheduledAt time.Time
}

// CycleStat tracks the gender blocks of one modality.
// AlternationBreaks counts matches placed against the expected block gender,
// which happens when the expected pool is exhausted or a slot needs the other
// gender to stay mixed.
type CycleStat struct {
	Male              int `json:"male"`
	Female            int `json:"female"`
	CompletedCycles   int `json:"completed_cycles"`
	AlternationBreaks int `json:"alternation_breaks"`
}

func (c *CycleStat) total() int {
	return c.Male + c.Female
}

type Schedule struct {
	Placements   []Placement
	SlotCount    int
	PairedSlots  int
	DiverseSlots int
	Cycles       map[string]*CycleStat
	Warnings     []string
}

// DiversityRatio is the share of two-match slots that mix two modalities.
func (s *Schedule) DiversityRatio() float64 {
	if s.PairedSlots == 0 {
		return 0
	}
	return float64(s.DiverseSlots) / float64(s.PairedSlots)
}

// Slots groups placements by slot index.
func (s *Schedule) Slots() [][]Placement {
	out := make([][]Placement, s.SlotCount)
	for _, p := range s.Placements {
		out[p.Slot] = append(out[p.Slot], p)
	}
	return out
}

type slotOptimizer struct {
	cfg     OptimizerConfig
	plan    *VenuePlan
	pending []Fixture
	lp      LastPlayed
	cycles  map[string]*CycleStat
}

// OptimizeSlots merges the fixtures of every group, modality and gender into
// one timeline of slots. A slot holds one match per venue, at most two. The
// rules, by priority:
//  1. a slot pairs one male and one female match while both pools last;
//  2. the second match of a slot prefers another modality than the first;
//  3. each modality plays blocks of BlockSize matches of one gender, starting
//     with its configured gender, before switching;
//  4. among what is left, the teams with the longest rest play first.
//
// The heuristic is greedy per slot; it does not search for a global optimum.
func OptimizeSlots(fixtures []Fixture, plan *VenuePlan, cfg OptimizerConfig) (*Schedule, error) {
	if plan == nil || plan.Len() == 0 {
		return nil, ErrNoVenues
	}
	cfg = cfg.withDefaults()

	o := &slotOptimizer{
		cfg:     cfg,
		plan:    plan,
		pending: make([]Fixture, len(fixtures)),
		lp:      LastPlayed{},
		cycles:  make(map[string]*CycleStat),
	}
	copy(o.pending, fixtures)

	ceiling := max(cfg.MaxSlots, len(fixtures))
	capacity := min(slotCapacity, plan.Len())

	schedule := &Schedule{Cycles: o.cycles, Warnings: append([]string(nil), plan.Warnings...)}
	for slot := 0; len(o.pending) > 0; slot++ {
		if slot >= ceiling {
			return nil, fmt.Errorf("%w: %d fixtures pending after %d slots", ErrSlotCeilingReached, len(o.pending), slot)
		}

		taken := make(map[int]bool, capacity)
		first, ok := o.fill(slot, nil, taken)
		if !ok {
			return nil, fmt.Errorf("%w: slot %d could not place any of %d fixtures", ErrSlotCeilingReached, slot, len(o.pending))
		}
		placed := []Placement{first}

		if capacity > 1 && o.hasPending(first.Gender.Opposite()) {
			if second, ok := o.fill(slot, &first.Fixture, taken); ok {
				placed = append(placed, second)
				schedule.PairedSlots++
				if normalizeName(first.Modality) != normalizeName(second.Modality) {
					schedule.DiverseSlots++
				}
			}
		}
		schedule.Placements = append(schedule.Placements, placed...)
		schedule.SlotCount = slot + 1
	}

	for i := range schedule.Placements {
		p := &schedule.Placements[i]
		p.Order = cfg.FirstOrder + i
		p.ScheduledAt = cfg.BaseTime.Add(time.Duration(p.Slot) * cfg.SlotDuration)
	}
	for _, stat := range o.cycles {
		stat.CompletedCycles = stat.total() / cfg.BlockSize
	}
	return schedule, nil
}

// fill chooses and places one fixture in slot. With a partner already in the
// slot, the pool holds only fixtures of the partner's opposite gender that
// share no team with it.
func (o *slotOptimizer) fill(slot int, partner *Fixture, taken map[int]bool) (Placement, bool) {
	pool := o.candidatePool(partner)
	if len(pool) == 0 {
		return Placement{}, false
	}

	var excludeModality string
	if partner != nil {
		excludeModality = partner.Modality
	}
	idx := o.choose(pool, slot, excludeModality)
	chosen := o.pending[idx]

	venue, ok := o.plan.Assign(chosen.Modality, taken)
	if !ok {
		return Placement{}, false
	}
	taken[venue.ID] = true

	o.pending = append(o.pending[:idx], o.pending[idx+1:]...)
	o.lp = o.lp.Place(chosen, slot)
	o.record(chosen)

	return Placement{Fixture: chosen, Slot: slot, Venue: venue}, true
}

// candidatePool returns indexes into pending.
func (o *slotOptimizer) candidatePool(partner *Fixture) []int {
	all := make([]int, 0, len(o.pending))
	for i, f := range o.pending {
		if partner != nil && f.sharesTeam(*partner) {
			continue
		}
		all = append(all, i)
	}
	if partner == nil {
		return all
	}

	other := partner.Gender.Opposite()
	opposite := make([]int, 0, len(all))
	for _, i := range all {
		if o.pending[i].Gender == other {
			opposite = append(opposite, i)
		}
	}
	return opposite
}

func (o *slotOptimizer) hasPending(gender models.Gender) bool {
	for _, f := range o.pending {
		if f.Gender == gender {
			return true
		}
	}
	return false
}

// choose applies rules 2 to 4 to pool and returns an index into pending.
func (o *slotOptimizer) choose(pool []int, slot int, excludeModality string) int {
	candidates := pool
	if excludeModality != "" {
		if diverse := o.filter(candidates, func(f Fixture) bool {
			return normalizeName(f.Modality) != normalizeName(excludeModality)
		}); len(diverse) > 0 {
			candidates = diverse
		}
	}

	if expected := o.filter(candidates, func(f Fixture) bool {
		return f.Gender == o.expectedGender(f.Modality)
	}); len(expected) > 0 {
		candidates = expected
	}

	fixtures := make([]Fixture, len(candidates))
	for i, idx := range candidates {
		fixtures[i] = o.pending[idx]
	}
	return candidates[PickMostRested(fixtures, slot, o.lp, neverPlayedRest)]
}

func (o *slotOptimizer) filter(pool []int, keep func(Fixture) bool) []int {
	out := make([]int, 0, len(pool))
	for _, idx := range pool {
		if keep(o.pending[idx]) {
			out = append(out, idx)
		}
	}
	return out
}

// expectedGender is the gender of the block the modality is currently in.
func (o *slotOptimizer) expectedGender(modality string) models.Gender {
	start := o.cfg.startGender(modality)
	stat, ok := o.cycles[normalizeName(modality)]
	if !ok {
		return start
	}
	if (stat.total()/o.cfg.BlockSize)%2 == 0 {
		return start
	}
	return start.Opposite()
}

func (o *slotOptimizer) record(f Fixture) {
	key := normalizeName(f.Modality)
	if f.Gender != o.expectedGender(f.Modality) {
		o.stat(key).AlternationBreaks++
	}
	stat := o.stat(key)
	switch f.Gender {
	case models.GenderMale:
		stat.Male++
	case models.GenderFemale:
		stat.Female++
	}
}

func (o *slotOptimizer) stat(key string) *CycleStat {
	stat, ok := o.cycles[key]
	if !ok {
		stat = &CycleStat{}
		o.cycles[key] = stat
	}
	return stat
}

// ModalityNames lists the distinct modality names of fixtures in first-seen
// order.
func ModalityNames(fixtures []Fixture) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, f := range fixtures {
		key := normalizeName(f.Modality)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f.Modality)
	}
	return out
}

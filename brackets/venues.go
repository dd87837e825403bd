package brackets

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Dosada05/school-tournament/models"
)

var ErrNoVenues = errors.New("no venues registered")

// VenuePlan decides where each modality is played.
type VenuePlan struct {
	venues     []models.Venue
	byModality map[string]models.Venue
	Warnings   []string
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PlanVenues maps every modality to a venue. The caller's config (modality
// name -> venue name, case-insensitive) wins; unconfigured modalities are
// spread over the venues in registration order, sorted by modality name so
// the mapping is stable. A configured venue that does not exist falls back to
// the first registered venue and is reported in Warnings.
func PlanVenues(venues []models.Venue, modalities []string, config map[string]string) (*VenuePlan, error) {
	if len(venues) == 0 {
		return nil, ErrNoVenues
	}

	ordered := make([]models.Venue, len(venues))
	copy(ordered, venues)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	venueByName := make(map[string]models.Venue, len(ordered))
	for _, v := range ordered {
		key := normalizeName(v.Name)
		if _, dup := venueByName[key]; !dup {
			venueByName[key] = v
		}
	}

	configured := make(map[string]string, len(config))
	for modality, venue := range config {
		configured[normalizeName(modality)] = venue
	}

	names := make([]string, 0, len(modalities))
	seen := make(map[string]bool, len(modalities))
	for _, m := range modalities {
		key := normalizeName(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, key)
	}
	sort.Strings(names)

	plan := &VenuePlan{venues: ordered, byModality: make(map[string]models.Venue, len(names))}
	for i, modality := range names {
		wanted, ok := configured[modality]
		if !ok || strings.TrimSpace(wanted) == "" {
			plan.byModality[modality] = ordered[i%len(ordered)]
			continue
		}
		venue, found := venueByName[normalizeName(wanted)]
		if !found {
			venue = ordered[0]
			plan.Warnings = append(plan.Warnings,
				fmt.Sprintf("venue %q configured for %s does not exist, using %q", wanted, modality, venue.Name))
		}
		plan.byModality[modality] = venue
	}
	return plan, nil
}

// Len is the number of registered venues, i.e. matches a slot can hold.
func (p *VenuePlan) Len() int {
	return len(p.venues)
}

// Preferred returns the venue mapped to modality, or the first registered
// venue for a modality the plan was not built with.
func (p *VenuePlan) Preferred(modality string) models.Venue {
	if v, ok := p.byModality[normalizeName(modality)]; ok {
		return v
	}
	return p.venues[0]
}

// Assign returns the preferred venue of modality unless it is already taken
// in the slot, in which case the first free venue is used.
func (p *VenuePlan) Assign(modality string, taken map[int]bool) (models.Venue, bool) {
	preferred := p.Preferred(modality)
	if !taken[preferred.ID] {
		return preferred, true
	}
	for _, v := range p.venues {
		if !taken[v.ID] {
			return v, true
		}
	}
	return models.Venue{}, false
}

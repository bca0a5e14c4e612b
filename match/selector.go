package match

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"dld_finder/models"
)

// relaxStep is one entry in the filter relaxation chain. Steps run in order
// until one yields candidates; each step only broadens or shifts the filter,
// never both tightens and broadens.
type relaxStep struct {
	Name       string
	UseProject bool
	UseArea    bool
	UseRooms   bool
}

// relaxationSteps is the fixed fallback chain: start with every known
// filter, drop the room count first, then the area, and finally fall back to
// area-only for listings whose project is named differently in the dataset.
var relaxationSteps = []relaxStep{
	{Name: "project+area+rooms", UseProject: true, UseArea: true, UseRooms: true},
	{Name: "project+area", UseProject: true, UseArea: true},
	{Name: "project", UseProject: true},
	{Name: "area", UseArea: true},
}

// Selector narrows the full dataset to a scorable candidate set using cheap
// substring/prefix filters. Full pairwise scoring against millions of rows
// is infeasible per request, so this bound is load-bearing.
type Selector struct {
	dataset Dataset
	limit   int
}

// NewSelector creates a Selector. limit caps the rows fetched per filter
// step; zero means the store default.
func NewSelector(dataset Dataset, limit int) *Selector {
	return &Selector{dataset: dataset, limit: limit}
}

// Select returns the candidate set for the normalized attributes. An empty
// set after the whole relaxation chain is a valid result, not an error.
func (s *Selector) Select(ctx context.Context, attrs models.NormalizedAttributes) ([]models.RegistrationRecord, error) {
	project := strings.Join(attrs.ProjectTokens, " ")
	area := strings.Join(attrs.AreaTokens, " ")
	rooms := roomsFilter(attrs.Bedrooms)

	var lastSpec *FilterSpec
	for _, step := range relaxationSteps {
		spec := FilterSpec{Limit: s.limit}
		if step.UseProject {
			spec.ProjectToken = project
		}
		if step.UseArea {
			spec.AreaToken = area
		}
		if step.UseRooms {
			spec.Rooms = rooms
		}

		// A step is skipped when a filter it depends on is unknown, or
		// when dropping an unknown filter left the spec unchanged.
		if (step.UseProject && spec.ProjectToken == "") ||
			(step.UseArea && spec.AreaToken == "") ||
			(step.UseRooms && spec.Rooms == "") {
			continue
		}
		if lastSpec != nil && *lastSpec == spec {
			continue
		}
		lastSpec = &spec

		records, err := s.dataset.Query(ctx, spec)
		if err != nil {
			return nil, fmt.Errorf("candidate query (%s): %w", step.Name, err)
		}
		if len(records) > 0 {
			return dedupeRecords(records), nil
		}
	}

	return nil, nil
}

// roomsFilter maps a bedroom count to the dataset's rooms_en text prefix.
// DLD stores studios as "Studio" and bedroom counts as "2 B/R" style text.
func roomsFilter(bedrooms *int) string {
	if bedrooms == nil {
		return ""
	}
	if *bedrooms == 0 {
		return "Studio"
	}
	return strconv.Itoa(*bedrooms)
}

// dedupeRecords drops rows that share a record key, keeping first-seen
// order. Overlapping name columns can return the same unit more than once.
func dedupeRecords(records []models.RegistrationRecord) []models.RegistrationRecord {
	seen := make(map[string]bool, len(records))
	out := records[:0]
	for _, rec := range records {
		key := rec.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}

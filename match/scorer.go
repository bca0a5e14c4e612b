package match

import (
	"sort"

	"dld_finder/models"
	"dld_finder/normalize"
)

// sqmToSqFt converts the dataset's actual_area (square metres) to the
// square feet listings advertise.
const sqmToSqFt = 10.764

// Field names reported in ScoredMatch.MatchedFields.
const (
	FieldProject  = "project"
	FieldArea     = "area"
	FieldBedrooms = "bedrooms"
	FieldSize     = "size"
)

// Weights are the per-field scoring weights. They are tunable policy, loaded
// from config rather than fixed here.
type Weights struct {
	Project  float64 `yaml:"project"`
	Area     float64 `yaml:"area"`
	Bedrooms float64 `yaml:"bedrooms"`
	Size     float64 `yaml:"size"`

	// SizeTolerance is the relative band inside which sizes count as
	// equal; closeness decays linearly to zero at twice the band.
	SizeTolerance float64 `yaml:"size_tolerance"`
}

// DefaultWeights returns the recommended weights: project name dominates,
// area follows, bedrooms and size confirm.
func DefaultWeights() Weights {
	return Weights{
		Project:       0.40,
		Area:          0.30,
		Bedrooms:      0.15,
		Size:          0.15,
		SizeTolerance: 0.15,
	}
}

// Scorer computes weighted per-field similarity between normalized listing
// attributes and candidate records. Pure and deterministic: identical inputs
// always produce identical scores and ordering.
type Scorer struct {
	norm    *normalize.Normalizer
	weights Weights
}

func NewScorer(norm *normalize.Normalizer, weights Weights) *Scorer {
	return &Scorer{norm: norm, weights: weights}
}

// Score ranks the candidate set against the listing attributes, descending
// by score with record key as the stable tie-break. Fields missing on either
// side contribute to neither numerator nor denominator, so incomplete
// listings are never penalized for what they omit.
func (s *Scorer) Score(attrs models.NormalizedAttributes, candidates []models.RegistrationRecord) []models.ScoredMatch {
	matches := make([]models.ScoredMatch, 0, len(candidates))
	for _, rec := range candidates {
		matches = append(matches, s.scoreRecord(attrs, rec))
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Record.Key() < matches[j].Record.Key()
	})

	return matches
}

func (s *Scorer) scoreRecord(attrs models.NormalizedAttributes, rec models.RegistrationRecord) models.ScoredMatch {
	var num, denom float64
	var fields []string

	if sim, ok := s.projectSimilarity(attrs, rec); ok {
		num += s.weights.Project * sim
		denom += s.weights.Project
		if sim > 0 {
			fields = append(fields, FieldProject)
		}
	}

	if sim, ok := s.areaSimilarity(attrs, rec); ok {
		num += s.weights.Area * sim
		denom += s.weights.Area
		if sim > 0 {
			fields = append(fields, FieldArea)
		}
	}

	if sim, ok := bedroomAgreement(attrs.Bedrooms, rec); ok {
		num += s.weights.Bedrooms * sim
		denom += s.weights.Bedrooms
		if sim > 0 {
			fields = append(fields, FieldBedrooms)
		}
	}

	if sim, ok := s.sizeSimilarity(attrs.SizeSqFt, rec); ok {
		num += s.weights.Size * sim
		denom += s.weights.Size
		if sim > 0 {
			fields = append(fields, FieldSize)
		}
	}

	score := 0.0
	if denom > 0 {
		score = num / denom
	}

	return models.ScoredMatch{Record: rec, Score: score, MatchedFields: fields}
}

// projectSimilarity compares the listing's project tokens against every
// project name variant the record carries, bilingual included, and keeps
// the best. ok is false when either side has no project name at all.
func (s *Scorer) projectSimilarity(attrs models.NormalizedAttributes, rec models.RegistrationRecord) (float64, bool) {
	return s.bestNameSimilarity(attrs.ProjectTokens,
		rec.ProjectNameEn, rec.ProjectNameAr, rec.MasterProjectEn, rec.MasterProjectAr)
}

func (s *Scorer) areaSimilarity(attrs models.NormalizedAttributes, rec models.RegistrationRecord) (float64, bool) {
	return s.bestNameSimilarity(attrs.AreaTokens, rec.AreaNameEn, rec.AreaNameAr)
}

func (s *Scorer) bestNameSimilarity(queryTokens []string, names ...string) (float64, bool) {
	if len(queryTokens) == 0 {
		return 0, false
	}

	best := 0.0
	present := false
	for _, name := range names {
		candTokens := s.norm.Tokens(name)
		if len(candTokens) == 0 {
			continue
		}
		present = true
		if sim := nameSimilarity(queryTokens, candTokens); sim > best {
			best = sim
		}
	}
	return best, present
}

// bedroomAgreement is binary: 1 when the listing's bedroom count equals the
// record's rooms value, 0 on a confirmed mismatch. Unknown on either side
// excludes the field entirely.
func bedroomAgreement(bedrooms *int, rec models.RegistrationRecord) (float64, bool) {
	if bedrooms == nil {
		return 0, false
	}

	recRooms := normalize.ParseBedrooms(rec.RoomsEn)
	if recRooms == nil {
		recRooms = normalize.ParseBedrooms(rec.Rooms)
	}
	if recRooms == nil {
		return 0, false
	}

	if *bedrooms == *recRooms {
		return 1, true
	}
	return 0, true
}

// sizeSimilarity compares the listing size (sqft) with the record's actual
// area (sqm). Malformed record values drop the field rather than failing
// the candidate.
func (s *Scorer) sizeSimilarity(sizeSqFt *float64, rec models.RegistrationRecord) (float64, bool) {
	if sizeSqFt == nil || *sizeSqFt <= 0 {
		return 0, false
	}

	recSqm := normalize.ParseSize(rec.ActualArea)
	if recSqm == nil {
		return 0, false
	}

	return sizeCloseness(*sizeSqFt, *recSqm*sqmToSqFt, s.weights.SizeTolerance), true
}

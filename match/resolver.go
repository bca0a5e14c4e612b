package match

import (
	"dld_finder/models"
)

// Thresholds are the acceptance and separation policy for turning ranked
// scores into a decision. Tunable via config; the zero value is not usable,
// call DefaultThresholds.
type Thresholds struct {
	// MinScore is the minimum acceptance score; below it a candidate is
	// not considered a match at all.
	MinScore float64 `yaml:"min_score"`

	// SeparationMargin is the gap between best and second-best score
	// required to declare the best a unique match.
	SeparationMargin float64 `yaml:"separation_margin"`

	// MaxMatches caps how many ranked candidates an ambiguous result
	// carries.
	MaxMatches int `yaml:"max_matches"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MinScore:         0.5,
		SeparationMargin: 0.15,
		MaxMatches:       10,
	}
}

// Resolver is a stateless, single-shot classifier over a ranked score list.
type Resolver struct {
	thresholds Thresholds
}

func NewResolver(thresholds Thresholds) *Resolver {
	return &Resolver{thresholds: thresholds}
}

// Resolve classifies ranked matches (descending score) into a MatchResult.
//   - nothing at or above MinScore: MatchNone, empty matches
//   - a single acceptable candidate, or the best leading the runner-up by
//     at least SeparationMargin: MatchUnique with that one match
//   - otherwise: MatchAmbiguous with every acceptable candidate inside the
//     margin of the best, ranked
func (r *Resolver) Resolve(ranked []models.ScoredMatch) models.MatchResult {
	accepted := make([]models.ScoredMatch, 0, len(ranked))
	for _, m := range ranked {
		if m.Score >= r.thresholds.MinScore {
			accepted = append(accepted, m)
		}
	}

	if len(accepted) == 0 {
		return models.MatchResult{Status: models.MatchNone, Matches: []models.ScoredMatch{}}
	}

	if len(accepted) == 1 || accepted[0].Score-accepted[1].Score >= r.thresholds.SeparationMargin {
		return models.MatchResult{Status: models.MatchUnique, Matches: accepted[:1]}
	}

	// Everything within the margin of the top candidate stays in the
	// ambiguous set for the caller to present as choices.
	cutoff := accepted[0].Score - r.thresholds.SeparationMargin
	ambiguous := make([]models.ScoredMatch, 0, len(accepted))
	for _, m := range accepted {
		if m.Score > cutoff {
			ambiguous = append(ambiguous, m)
		}
		if r.thresholds.MaxMatches > 0 && len(ambiguous) >= r.thresholds.MaxMatches {
			break
		}
	}

	return models.MatchResult{Status: models.MatchAmbiguous, Matches: ambiguous}
}

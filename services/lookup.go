package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"dld_finder/match"
	"dld_finder/models"
	"dld_finder/normalize"
	"dld_finder/scraper"
)

// LookupService runs the full listing-to-registry pipeline: fetch the
// listing, normalize its attributes, pull candidates from the dataset,
// score them, and resolve the result.
type LookupService struct {
	handler  scraper.Handler
	norm     *normalize.Normalizer
	selector *match.Selector
	scorer   *match.Scorer
	resolver *match.Resolver
}

func NewLookupService(handler scraper.Handler, norm *normalize.Normalizer, selector *match.Selector, scorer *match.Scorer, resolver *match.Resolver) *LookupService {
	return &LookupService{
		handler:  handler,
		norm:     norm,
		selector: selector,
		scorer:   scorer,
		resolver: resolver,
	}
}

// FindMatch resolves a listing URL against the registry dataset.
func (s *LookupService) FindMatch(ctx context.Context, url string) (*models.MatchResult, error) {
	reqID := uuid.New().String()[:8]
	start := time.Now()
	log.Printf("[lookup %s] fetching %s", reqID, url)

	attrs, err := s.handler.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}

	return s.lookupAttributes(ctx, reqID, start, attrs)
}

// FindMatchAttributes resolves already-extracted listing attributes, for
// callers that bypass the scraper (manual entry, cached listings).
func (s *LookupService) FindMatchAttributes(ctx context.Context, attrs models.ListingAttributes) (*models.MatchResult, error) {
	reqID := uuid.New().String()[:8]
	return s.lookupAttributes(ctx, reqID, time.Now(), attrs)
}

func (s *LookupService) lookupAttributes(ctx context.Context, reqID string, start time.Time, attrs models.ListingAttributes) (*models.MatchResult, error) {
	normalized := s.norm.Normalize(attrs)
	log.Printf("[lookup %s] normalized: project=%v area=%v beds=%s size=%s",
		reqID, normalized.ProjectTokens, normalized.AreaTokens,
		fmtIntPtr(normalized.Bedrooms), fmtFloatPtr(normalized.SizeSqFt))

	candidates, err := s.selector.Select(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("select candidates: %w", err)
	}
	log.Printf("[lookup %s] %d candidates", reqID, len(candidates))

	scored := s.scorer.Score(normalized, candidates)
	result := s.resolver.Resolve(scored)

	log.Printf("[lookup %s] status=%s matches=%d in %s",
		reqID, result.Status, len(result.Matches), time.Since(start).Round(time.Millisecond))
	return &result, nil
}

func fmtIntPtr(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func fmtFloatPtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f", *v)
}

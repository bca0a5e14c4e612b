package scraper

import (
	"context"
	"net/http"

	"dld_finder/models"
)

// Handler fetches a listing URL and extracts its attributes. Failures come
// back as *models.ScrapeError; the caller decides whether to retry.
type Handler interface {
	ID() string
	Fetch(ctx context.Context, url string) (models.ListingAttributes, error)
}

// NewHandler picks the handler for a listing URL. Property Finder is the
// only supported site today.
func NewHandler(client *http.Client) Handler {
	return NewPropertyFinderHandler(client)
}

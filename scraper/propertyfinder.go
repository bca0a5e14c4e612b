package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"dld_finder/models"
	"dld_finder/normalize"
)

var (
	titleSuffixRegex = regexp.MustCompile(`\s*\|\s*Property Finder.*$`)
	bedroomsRegex    = regexp.MustCompile(`(?i)(\d+)\s*(?:Bed(?:room)?s?|BR)\b`)
	sqftRegex        = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*sq\.?\s*ft\b`)
	zoneNameRegex    = regexp.MustCompile(`Zone\s*name\s*[:\s]*([A-Za-z][A-Za-z\d ]+)`)
	addressRegex     = regexp.MustCompile(`([\w ]+(?:,\s*[\w ]+){2,3},\s*Dubai)`)
)

// propertyTypes are the type slugs that appear in Property Finder URLs.
var propertyTypes = []string{"villa", "apartment", "townhouse", "penthouse", "duplex", "studio"}

// PropertyFinderHandler scrapes propertyfinder.ae listing pages. The pages
// are static HTML with JSON-LD structured data, so a plain HTTP client with
// browser headers is enough.
type PropertyFinderHandler struct {
	client *http.Client
}

func NewPropertyFinderHandler(client *http.Client) *PropertyFinderHandler {
	if client == nil {
		client = http.DefaultClient
	}
	return &PropertyFinderHandler{client: client}
}

func (h *PropertyFinderHandler) ID() string {
	return "propertyfinder"
}

// Fetch downloads and parses a listing page. Network or parse failures are
// wrapped in *models.ScrapeError.
func (h *PropertyFinderHandler) Fetch(ctx context.Context, url string) (models.ListingAttributes, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.ListingAttributes{}, &models.ScrapeError{URL: url, Err: err}
	}
	setBrowserHeaders(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return models.ListingAttributes{}, &models.ScrapeError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ListingAttributes{}, &models.ScrapeError{
			URL: url,
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return models.ListingAttributes{}, &models.ScrapeError{URL: url, Err: err}
	}

	return parseListingPage(url, doc), nil
}

// setBrowserHeaders makes the request look like a desktop browser; the site
// blocks obvious bots.
func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", "https://www.google.com/")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

// parseListingPage extracts listing attributes from the page. Extraction is
// layered: URL slug first (always available), then JSON-LD structured data,
// then page-text regex fallbacks for anything still missing.
func parseListingPage(url string, doc *goquery.Document) models.ListingAttributes {
	attrs := models.ListingAttributes{SourceURL: url}

	parseURLSlug(url, &attrs)
	parseJSONLD(doc, &attrs)

	title := pageTitle(doc)
	text := doc.Text()

	if attrs.Bedrooms == nil {
		if m := bedroomsRegex.FindStringSubmatch(text); m != nil {
			attrs.Bedrooms = normalize.ParseBedrooms(m[0])
		} else if strings.Contains(strings.ToLower(title), "studio") {
			attrs.BedroomsText = "studio"
		}
	}

	if attrs.SizeSqFt == nil {
		if m := sqftRegex.FindStringSubmatch(text); m != nil {
			attrs.SizeSqFt = normalize.ParseSize(m[1])
		}
	}

	// The regulatory info block carries the DLD zone name, which maps
	// straight onto the dataset's area_name_en.
	if m := zoneNameRegex.FindStringSubmatch(text); m != nil {
		attrs.ZoneName = strings.TrimSpace(m[1])
	}

	// Address line: "Marina Heights, Marina Promenade, Dubai Marina, Dubai".
	if m := addressRegex.FindStringSubmatch(text); m != nil {
		parts := strings.Split(m[1], ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) >= 3 {
			attrs.SubCommunity = parts[0]
			attrs.Community = parts[1]
			attrs.MasterCommunity = parts[2]
		}
	}

	if attrs.ProjectName == "" {
		attrs.ProjectName = firstOf(attrs.SubCommunity, attrs.Community, title)
	}
	if attrs.AreaName == "" {
		attrs.AreaName = firstOf(attrs.ZoneName, attrs.MasterCommunity)
	}

	return attrs
}

// parseURLSlug extracts what it can from the URL itself, which survives even
// when the page layout changes: property type and the location path between
// "dubai" and the trailing listing ID.
func parseURLSlug(url string, attrs *models.ListingAttributes) {
	slug := strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".html")
	if idx := strings.LastIndex(slug, "/"); idx >= 0 {
		slug = slug[idx+1:]
	}
	parts := strings.Split(slug, "-")

	for _, pt := range propertyTypes {
		for _, part := range parts {
			if part == pt {
				attrs.PropertyType = strings.ToUpper(pt[:1]) + pt[1:]
				break
			}
		}
		if attrs.PropertyType != "" {
			break
		}
	}

	for i, part := range parts {
		if part == "dubai" && i+1 < len(parts)-1 {
			attrs.AreaName = strings.Join(parts[i+1:len(parts)-1], " ")
			break
		}
	}
}

// ldProperty is the subset of the JSON-LD payload the matcher cares about.
type ldProperty struct {
	Name    string `json:"name"`
	Address struct {
		StreetAddress   string `json:"streetAddress"`
		AddressLocality string `json:"addressLocality"`
	} `json:"address"`
	NumberOfRooms json.RawMessage `json:"numberOfRooms"`
	FloorSize     struct {
		Value json.RawMessage `json:"value"`
	} `json:"floorSize"`
}

func parseJSONLD(doc *goquery.Document, attrs *models.ListingAttributes) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}

		var items []ldProperty
		if strings.HasPrefix(raw, "[") {
			if json.Unmarshal([]byte(raw), &items) != nil {
				return
			}
		} else {
			var item ldProperty
			if json.Unmarshal([]byte(raw), &item) != nil {
				return
			}
			items = []ldProperty{item}
		}

		for _, item := range items {
			if item.Name != "" && attrs.ProjectName == "" {
				attrs.ProjectName = item.Name
			}
			if item.Address.AddressLocality != "" && attrs.AreaName == "" {
				attrs.AreaName = item.Address.AddressLocality
			}
			if attrs.Bedrooms == nil && len(item.NumberOfRooms) > 0 {
				attrs.Bedrooms = normalize.ParseBedrooms(rawScalar(item.NumberOfRooms))
			}
			if attrs.SizeSqFt == nil && len(item.FloorSize.Value) > 0 {
				attrs.SizeSqFt = normalize.ParseSize(rawScalar(item.FloorSize.Value))
			}
		}
	})
}

// rawScalar renders a JSON scalar (string or number) as plain text.
func rawScalar(raw json.RawMessage) string {
	return strings.Trim(string(raw), `"`)
}

func pageTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	return titleSuffixRegex.ReplaceAllString(title, "")
}

func firstOf(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

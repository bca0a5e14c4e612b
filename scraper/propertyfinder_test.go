package scraper

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"dld_finder/models"
)

func parseSlugAttrs(url string) models.ListingAttributes {
	var attrs models.ListingAttributes
	parseURLSlug(url, &attrs)
	return attrs
}

func loadFixture(t *testing.T, name string) *goquery.Document {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to parse fixture %s: %v", name, err)
	}
	return doc
}

func TestParseListingPage_JSONLD(t *testing.T) {
	doc := loadFixture(t, "propertyfinder_jsonld.html")
	url := "https://www.propertyfinder.ae/en/plp/buy/apartment-for-sale-dubai-dubai-marina-12345.html"

	attrs := parseListingPage(url, doc)

	if attrs.SourceURL != url {
		t.Fatalf("unexpected source url %s", attrs.SourceURL)
	}
	if attrs.PropertyType != "Apartment" {
		t.Fatalf("expected property type Apartment, got %q", attrs.PropertyType)
	}
	if attrs.ProjectName != "Marina Heights" {
		t.Fatalf("expected project Marina Heights, got %q", attrs.ProjectName)
	}
	if attrs.AreaName != "dubai marina" {
		t.Fatalf("expected area from slug, got %q", attrs.AreaName)
	}
	if attrs.Bedrooms == nil || *attrs.Bedrooms != 2 {
		t.Fatalf("expected 2 bedrooms, got %v", attrs.Bedrooms)
	}
	if attrs.SizeSqFt == nil || *attrs.SizeSqFt != 1250 {
		t.Fatalf("expected size 1250, got %v", attrs.SizeSqFt)
	}
	if attrs.ZoneName != "Marsa Dubai" {
		t.Fatalf("expected zone Marsa Dubai, got %q", attrs.ZoneName)
	}
	if attrs.SubCommunity != "Marina Heights" || attrs.Community != "Marina Promenade" || attrs.MasterCommunity != "Dubai Marina" {
		t.Fatalf("unexpected address parts: %q / %q / %q",
			attrs.SubCommunity, attrs.Community, attrs.MasterCommunity)
	}
}

func TestParseListingPage_RegexFallbacks(t *testing.T) {
	doc := loadFixture(t, "propertyfinder_fallback.html")
	url := "https://www.propertyfinder.ae/en/plp/buy/studio-for-sale-dubai-dubai-marina-784512.html"

	attrs := parseListingPage(url, doc)

	if attrs.PropertyType != "Studio" {
		t.Fatalf("expected property type Studio, got %q", attrs.PropertyType)
	}
	if attrs.Bedrooms != nil {
		t.Fatalf("expected no numeric bedrooms, got %v", attrs.Bedrooms)
	}
	if attrs.BedroomsText != "studio" {
		t.Fatalf("expected studio bedrooms text, got %q", attrs.BedroomsText)
	}
	if attrs.SizeSqFt == nil || *attrs.SizeSqFt != 450 {
		t.Fatalf("expected size 450 from page text, got %v", attrs.SizeSqFt)
	}
	if attrs.SubCommunity != "Marina Gate 1" || attrs.Community != "Marina Gate" {
		t.Fatalf("unexpected address parts: %q / %q", attrs.SubCommunity, attrs.Community)
	}
	// With no JSON-LD name, the project falls back to the sub-community.
	if attrs.ProjectName != "Marina Gate 1" {
		t.Fatalf("expected project Marina Gate 1, got %q", attrs.ProjectName)
	}
}

func TestParseURLSlug(t *testing.T) {
	cases := []struct {
		url      string
		wantType string
		wantArea string
	}{
		{
			"https://www.propertyfinder.ae/en/plp/buy/villa-for-sale-dubai-arabian-ranches-2-99.html",
			"Villa", "arabian ranches 2",
		},
		{
			"https://www.propertyfinder.ae/en/plp/rent/penthouse-for-rent-dubai-palm-jumeirah-42.html",
			"Penthouse", "palm jumeirah",
		},
		{
			"https://www.propertyfinder.ae/en/plp/buy/plot-12.html",
			"", "",
		},
	}

	for _, tc := range cases {
		attrs := parseSlugAttrs(tc.url)
		if attrs.PropertyType != tc.wantType {
			t.Fatalf("%s: expected type %q, got %q", tc.url, tc.wantType, attrs.PropertyType)
		}
		if attrs.AreaName != tc.wantArea {
			t.Fatalf("%s: expected area %q, got %q", tc.url, tc.wantArea, attrs.AreaName)
		}
	}
}

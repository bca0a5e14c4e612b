package models

// ListingAttributes holds the raw attributes scraped from a listing page.
// Text fields are kept as extracted; numeric fields are nil when the page
// did not expose them. Constructed once per lookup and never mutated.
type ListingAttributes struct {
	ProjectName     string   `json:"project_name"`
	AreaName        string   `json:"area_name"`
	PropertyType    string   `json:"property_type"`
	SubCommunity    string   `json:"sub_community"`
	Community       string   `json:"community"`
	MasterCommunity string   `json:"master_community"`
	ZoneName        string   `json:"zone_name"`
	Bedrooms        *int     `json:"bedrooms"`
	BedroomsText    string   `json:"bedrooms_text,omitempty"`
	SizeSqFt        *float64 `json:"size_sqft"`
	SizeText        string   `json:"size_text,omitempty"`
	SourceURL       string   `json:"source_url"`
}

// NormalizedAttributes is the canonical, comparable form of ListingAttributes.
// All token slices are lowercased, diacritic-stripped and alias-canonicalized.
type NormalizedAttributes struct {
	ProjectTokens []string `json:"project_tokens"`
	AreaTokens    []string `json:"area_tokens"`
	PropertyType  string   `json:"property_type"`
	Bedrooms      *int     `json:"bedrooms"`
	SizeSqFt      *float64 `json:"size_sqft"`
	SourceURL     string   `json:"source_url"`
}

package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"dld_finder/models"
)

var (
	multiSpaceRegex = regexp.MustCompile(`\s+`)
	nonTokenRegex   = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	numberRegex     = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
	bedroomRegex    = regexp.MustCompile(`(?i)\b(\d+)\s*(?:\+\s*\d+\s*)?(?:bed(?:room)?s?|br|b/r)\b`)
)

// stopTokens are marketing and filler words stripped from project and area
// names before comparison. Mirrors the noise list the listing sites pad
// titles with.
var stopTokens = map[string]bool{
	"for": true, "sale": true, "rent": true, "in": true, "at": true,
	"a": true, "an": true, "the": true, "of": true, "on": true, "by": true,
	"to": true, "from": true, "and": true, "with": true, "buy": true,
	"bed": true, "bedroom": true, "bedrooms": true, "bathroom": true,
	"bathrooms": true, "br": true, "aed": true, "sqft": true, "sq": true,
	"ft": true, "uae": true, "property": true, "elegant": true,
	"luxury": true, "luxurious": true, "beautiful": true, "stunning": true,
	"spacious": true, "brand": true, "new": true, "modern": true,
	"exclusive": true, "premium": true, "amazing": true, "gorgeous": true,
}

// Normalizer canonicalizes listing attributes into comparable tokens. It is
// pure: construction loads the alias table once, after which Normalize does
// no I/O and is safe for concurrent use.
type Normalizer struct {
	aliases map[string]string
}

// New creates a Normalizer with the given alias table merged over the
// built-in defaults. Keys and values are themselves normalized so lookups
// stay idempotent.
func New(aliases map[string]string) *Normalizer {
	merged := make(map[string]string, len(defaultAliases)+len(aliases))
	for k, v := range defaultAliases {
		merged[k] = v
	}
	for k, v := range aliases {
		merged[cleanText(k)] = cleanText(v)
	}
	return &Normalizer{aliases: merged}
}

// Normalize produces the canonical form of the scraped attributes. It never
// fails; unparseable numeric fields come back nil.
func (n *Normalizer) Normalize(attrs models.ListingAttributes) models.NormalizedAttributes {
	project := firstNonEmpty(attrs.ProjectName, attrs.SubCommunity, attrs.Community)
	area := firstNonEmpty(attrs.AreaName, attrs.ZoneName, attrs.MasterCommunity)

	out := models.NormalizedAttributes{
		ProjectTokens: n.Tokens(project),
		AreaTokens:    n.Tokens(area),
		PropertyType:  cleanText(attrs.PropertyType),
		SourceURL:     attrs.SourceURL,
	}

	if attrs.Bedrooms != nil {
		v := *attrs.Bedrooms
		out.Bedrooms = &v
	} else if b := ParseBedrooms(attrs.BedroomsText); b != nil {
		out.Bedrooms = b
	}

	if attrs.SizeSqFt != nil && *attrs.SizeSqFt > 0 {
		v := *attrs.SizeSqFt
		out.SizeSqFt = &v
	} else if s := ParseSize(attrs.SizeText); s != nil {
		out.SizeSqFt = s
	}

	return out
}

// Tokens splits free text into canonical comparison tokens: lowercased,
// diacritic-stripped, alias-mapped, stopwords removed. Tokenizing already
// canonical text yields the same tokens.
func (n *Normalizer) Tokens(text string) []string {
	cleaned := cleanText(text)
	if cleaned == "" {
		return nil
	}

	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if mapped, ok := n.aliases[tok]; ok {
			tok = mapped
		}
		// Alias values may expand to several tokens.
		for _, part := range strings.Fields(tok) {
			if stopTokens[part] {
				continue
			}
			tokens = append(tokens, part)
		}
	}
	return tokens
}

// cleanText lowercases, strips punctuation and Arabic diacritics, and
// collapses whitespace.
func cleanText(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = stripArabicMarks(text)
	text = nonTokenRegex.ReplaceAllString(text, " ")
	text = multiSpaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// stripArabicMarks removes harakat, Quranic annotation marks and tatweel so
// that vocalized and unvocalized spellings compare equal.
func stripArabicMarks(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 0x0610 && r <= 0x061A:
		case r >= 0x064B && r <= 0x065F:
		case r == 0x0670:
		case r == 0x0640: // tatweel
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseBedrooms extracts a bedroom count from free text. "Studio" counts as
// zero bedrooms; returns nil when nothing parseable is found.
func ParseBedrooms(text string) *int {
	if text == "" {
		return nil
	}
	if strings.Contains(strings.ToLower(text), "studio") {
		zero := 0
		return &zero
	}
	m := bedroomRegex.FindStringSubmatch(text)
	if m == nil {
		// Bare number, e.g. "3".
		trimmed := strings.TrimSpace(text)
		if v, err := strconv.Atoi(trimmed); err == nil && v >= 0 && v < 50 {
			return &v
		}
		return nil
	}
	v, err := strconv.Atoi(m[1])
	if err != nil || v < 0 || v >= 50 {
		return nil
	}
	return &v
}

// ParseSize extracts the first numeric substring as a size value. It is
// unit-agnostic; callers decide what the number means.
func ParseSize(text string) *float64 {
	if text == "" {
		return nil
	}
	m := numberRegex.FindString(text)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

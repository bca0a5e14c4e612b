package normalize

import (
	"reflect"
	"testing"

	"dld_finder/models"
)

func TestTokens_StripsNoiseAndStopwords(t *testing.T) {
	n := New(nil)

	tokens := n.Tokens("Luxurious 2BHK Apartment for Sale in Marina Heights!")
	want := []string{"2bhk", "apartment", "marina", "heights"}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("expected %v, got %v", want, tokens)
	}
}

func TestTokens_AliasExpansion(t *testing.T) {
	n := New(nil)

	tokens := n.Tokens("JBR Tower 3")
	want := []string{"jumeirah", "beach", "residence", "tower", "3"}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("expected %v, got %v", want, tokens)
	}
}

func TestTokens_CustomAliasOverridesDefault(t *testing.T) {
	n := New(map[string]string{"JBR": "jbr walk"})

	tokens := n.Tokens("JBR")
	want := []string{"jbr", "walk"}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("expected %v, got %v", want, tokens)
	}
}

func TestTokens_ArabicDiacriticsStripped(t *testing.T) {
	n := New(nil)

	// "مَرِينَا" with harakat must tokenize the same as plain "مارينا".
	vocalized := n.Tokens("مَرْسَى دبي")
	plain := n.Tokens("مرسى دبي")
	if !reflect.DeepEqual(vocalized, plain) {
		t.Fatalf("expected %v, got %v", plain, vocalized)
	}
	if len(plain) == 0 || plain[0] != "marina" {
		t.Fatalf("expected marina alias, got %v", plain)
	}
}

func TestTokens_Idempotent(t *testing.T) {
	n := New(nil)

	first := n.Tokens("Burj Khalifa, Downtown Dubai - Apt. 1204")
	second := n.Tokens(joinTokens(first))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("tokenizing canonical text changed it: %v vs %v", first, second)
	}
}

func joinTokens(tokens []string) string {
	out := ""
	for i, tok := range tokens {
		if i > 0 {
			out += " "
		}
		out += tok
	}
	return out
}

func TestParseBedrooms(t *testing.T) {
	cases := []struct {
		in   string
		want *int
	}{
		{"Studio Apartment", intPtr(0)},
		{"studio", intPtr(0)},
		{"2 Bedrooms", intPtr(2)},
		{"3 BR", intPtr(3)},
		{"1 B/R", intPtr(1)},
		{"2 + 1 Bedrooms", intPtr(2)},
		{"4", intPtr(4)},
		{"", nil},
		{"penthouse", nil},
		{"99 bedrooms", nil},
	}

	for _, tc := range cases {
		got := ParseBedrooms(tc.in)
		if (got == nil) != (tc.want == nil) {
			t.Fatalf("ParseBedrooms(%q): expected %v, got %v", tc.in, fmtPtr(tc.want), fmtPtr(got))
		}
		if got != nil && *got != *tc.want {
			t.Fatalf("ParseBedrooms(%q): expected %d, got %d", tc.in, *tc.want, *got)
		}
	}
}

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,250 sqft", 1250, true},
		{"850.5", 850.5, true},
		{"Area: 2,044.25 sq. ft.", 2044.25, true},
		{"", 0, false},
		{"unknown", 0, false},
	}

	for _, tc := range cases {
		got := ParseSize(tc.in)
		if tc.ok != (got != nil) {
			t.Fatalf("ParseSize(%q): expected ok=%v, got %v", tc.in, tc.ok, fmtFloat(got))
		}
		if got != nil && *got != tc.want {
			t.Fatalf("ParseSize(%q): expected %v, got %v", tc.in, tc.want, *got)
		}
	}
}

func TestNormalize_FieldFallbacks(t *testing.T) {
	n := New(nil)

	attrs := models.ListingAttributes{
		SubCommunity:    "Marina Heights Tower",
		Community:       "Dubai Marina",
		MasterCommunity: "Dubai Marina",
		BedroomsText:    "2 Bedrooms",
		SizeText:        "1,250 sqft",
	}

	norm := n.Normalize(attrs)
	if !reflect.DeepEqual(norm.ProjectTokens, []string{"marina", "heights", "tower"}) {
		t.Fatalf("unexpected project tokens: %v", norm.ProjectTokens)
	}
	if !reflect.DeepEqual(norm.AreaTokens, []string{"dubai", "marina"}) {
		t.Fatalf("unexpected area tokens: %v", norm.AreaTokens)
	}
	if norm.Bedrooms == nil || *norm.Bedrooms != 2 {
		t.Fatalf("expected 2 bedrooms, got %v", fmtPtr(norm.Bedrooms))
	}
	if norm.SizeSqFt == nil || *norm.SizeSqFt != 1250 {
		t.Fatalf("expected size 1250, got %v", fmtFloat(norm.SizeSqFt))
	}
}

func TestNormalize_ExplicitValuesWin(t *testing.T) {
	n := New(nil)

	beds := 3
	size := 900.0
	attrs := models.ListingAttributes{
		ProjectName:  "Marina Heights",
		Bedrooms:     &beds,
		BedroomsText: "Studio",
		SizeSqFt:     &size,
		SizeText:     "1,250 sqft",
	}

	norm := n.Normalize(attrs)
	if norm.Bedrooms == nil || *norm.Bedrooms != 3 {
		t.Fatalf("expected explicit 3 bedrooms, got %v", fmtPtr(norm.Bedrooms))
	}
	if norm.SizeSqFt == nil || *norm.SizeSqFt != 900 {
		t.Fatalf("expected explicit size 900, got %v", fmtFloat(norm.SizeSqFt))
	}
}

func TestNormalize_EmptyListing(t *testing.T) {
	n := New(nil)

	norm := n.Normalize(models.ListingAttributes{})
	if norm.ProjectTokens != nil || norm.AreaTokens != nil {
		t.Fatalf("expected nil token slices, got %v / %v", norm.ProjectTokens, norm.AreaTokens)
	}
	if norm.Bedrooms != nil || norm.SizeSqFt != nil {
		t.Fatalf("expected nil numeric fields")
	}
}

func intPtr(v int) *int { return &v }

func fmtPtr(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func fmtFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

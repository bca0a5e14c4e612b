package match

import "testing"

func TestTokenOverlap(t *testing.T) {
	cases := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"marina", "heights"}, []string{"marina", "heights"}, 1},
		{"subset of longer name", []string{"marina", "heights"}, []string{"marina", "heights", "tower", "1"}, 1},
		{"partial", []string{"marina", "heights"}, []string{"marina", "promenade"}, 0.5},
		{"disjoint", []string{"burj", "khalifa"}, []string{"palm", "jumeirah"}, 0},
		{"empty side", nil, []string{"marina"}, 0},
		{"repeated tokens count once", []string{"marina", "marina"}, []string{"marina"}, 1},
	}

	for _, tc := range cases {
		if got := tokenOverlap(tc.a, tc.b); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestNameSimilarity_TypoTolerance(t *testing.T) {
	// No shared tokens, but near-identical spelling. Jaro-Winkler should
	// carry the comparison where overlap cannot.
	sim := nameSimilarity([]string{"marina", "hieghts"}, []string{"marina", "heights"})
	if sim <= 0.5 {
		t.Fatalf("expected high similarity for a one-letter swap, got %v", sim)
	}
}

func TestNameSimilarity_SymmetricBounds(t *testing.T) {
	a := []string{"dubai", "marina"}
	b := []string{"marina", "heights", "tower"}

	sim := nameSimilarity(a, b)
	if sim < 0 || sim > 1 {
		t.Fatalf("similarity out of range: %v", sim)
	}
	if nameSimilarity(nil, b) != 0 {
		t.Fatalf("expected 0 for empty query")
	}
}

func TestSizeCloseness(t *testing.T) {
	const tol = 0.15

	cases := []struct {
		name string
		a, b float64
		want float64
	}{
		{"equal", 1000, 1000, 1},
		{"inside band", 1000, 1150, 1},
		{"twice the band", 1000, 2000, 0},
		{"beyond twice the band", 500, 5000, 0},
		{"halfway through decay", 775, 1000, 0.5},
		{"zero size", 0, 1000, 0},
	}

	for _, tc := range cases {
		got := sizeCloseness(tc.a, tc.b, tol)
		if !closeTo(got, tc.want, 1e-9) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestSizeCloseness_OrderIndependent(t *testing.T) {
	if sizeCloseness(1000, 1300, 0.15) != sizeCloseness(1300, 1000, 0.15) {
		t.Fatalf("closeness must not depend on argument order")
	}
}

func closeTo(a, b, eps float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= eps
}

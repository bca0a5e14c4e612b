package models

// MatchStatus classifies the outcome of a lookup.
type MatchStatus string

const (
	MatchUnique    MatchStatus = "unique"
	MatchAmbiguous MatchStatus = "ambiguous"
	MatchNone      MatchStatus = "none"
)

// ScoredMatch pairs a registration record with its similarity score and the
// names of the listing fields that contributed to it.
type ScoredMatch struct {
	Record        RegistrationRecord `json:"record"`
	Score         float64            `json:"score"`
	MatchedFields []string           `json:"matched_fields"`
}

// MatchResult is the outcome of one lookup. Matches are ordered by
// descending score; for MatchUnique it contains exactly one entry, for
// MatchNone it is empty.
type MatchResult struct {
	Status  MatchStatus   `json:"status"`
	Matches []ScoredMatch `json:"matches"`
}

// SnapshotMeta describes one verified dataset snapshot.
type SnapshotMeta struct {
	Path        string   `json:"path"`
	RowCount    int64    `json:"row_count"`
	ColumnCount int      `json:"column_count"`
	Columns     []string `json:"columns"`
}

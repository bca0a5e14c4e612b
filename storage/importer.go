package storage

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const insertBatchSize = 25000

// indexColumns get an index in the built snapshot so coarse candidate
// filters stay cheap against millions of rows. Name columns are indexed
// case-insensitively.
var indexColumns = []string{
	"project_name_en",
	"project_name_ar",
	"master_project_en",
	"master_project_ar",
	"area_name_en",
	"area_name_ar",
	"rooms_en",
	"unit_number",
	"land_number",
	"building_number",
	"property_type_en",
	"zone_id",
	"area_id",
	"property_id",
	"is_free_hold",
}

var columnSanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9_]`)
var underscoreRunRegex = regexp.MustCompile(`_+`)

// ImportStats summarizes one CSV-to-snapshot conversion.
type ImportStats struct {
	Columns   []string
	RowCount  int64
	EmptyRows int64
	Duration  time.Duration
}

// ImportCSV converts the raw units CSV into a queryable SQLite snapshot at
// dbPath. Columns are detected dynamically from the header and every value
// is stored as TEXT, so no row is lost to type coercion. The source CSV has
// duplicate property_ids, so the table deliberately carries no primary key.
func ImportCSV(csvPath, dbPath string) (*ImportStats, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := sanitizeColumns(header)

	// Build into a scratch file so a crash never leaves a half-written
	// snapshot at the destination path.
	tmpPath := dbPath + ".tmp"
	os.Remove(tmpPath)

	db, err := sql.Open("sqlite3", tmpPath+"?_journal_mode=OFF&_synchronous=OFF")
	if err != nil {
		return nil, fmt.Errorf("create db: %w", err)
	}
	defer db.Close()

	stats, err := buildSnapshot(db, reader, columns)
	if err != nil {
		os.Remove(tmpPath)
		return nil, err
	}

	if err := db.Close(); err != nil {
		return nil, fmt.Errorf("close db: %w", err)
	}
	if err := os.Rename(tmpPath, dbPath); err != nil {
		return nil, fmt.Errorf("move snapshot into place: %w", err)
	}

	if err := verifyBuilt(dbPath, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func buildSnapshot(db *sql.DB, reader *csv.Reader, columns []string) (*ImportStats, error) {
	start := time.Now()

	colDefs := make([]string, len(columns))
	for i, col := range columns {
		colDefs[i] = fmt.Sprintf("%q TEXT", col)
	}
	if _, err := db.Exec(`CREATE TABLE units (` + strings.Join(colDefs, ", ") + `)`); err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = fmt.Sprintf("%q", col)
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf("INSERT INTO units (%s) VALUES (%s)",
		strings.Join(quoted, ", "), strings.Join(placeholders, ", "))

	stats := &ImportStats{Columns: columns}
	batch := make([][]interface{}, 0, insertBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin batch: %w", err)
		}
		stmt, err := tx.Prepare(insertSQL)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("prepare insert: %w", err)
		}
		for _, row := range batch {
			if _, err := stmt.Exec(row...); err != nil {
				stmt.Close()
				tx.Rollback()
				return fmt.Errorf("insert row: %w", err)
			}
		}
		stmt.Close()
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit batch: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		// Pad or trim to the header width; malformed rows are kept,
		// not dropped.
		values := make([]interface{}, len(columns))
		empty := true
		for i := range columns {
			v := ""
			if i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			if v != "" {
				empty = false
			}
			values[i] = v
		}
		if empty {
			stats.EmptyRows++
			continue
		}

		batch = append(batch, values)
		stats.RowCount++

		if len(batch) >= insertBatchSize {
			if err := flush(); err != nil {
				return nil, err
			}
			log.Printf("import: %d rows", stats.RowCount)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	for _, col := range indexColumns {
		if !containsColumn(columns, col) {
			continue
		}
		idxSQL := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s ON units(%q)", col, col)
		if strings.HasSuffix(col, "_en") || strings.HasSuffix(col, "_ar") {
			idxSQL = fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s ON units(%q COLLATE NOCASE)", col, col)
		}
		if _, err := db.Exec(idxSQL); err != nil {
			return nil, fmt.Errorf("create index on %s: %w", col, err)
		}
	}

	if _, err := db.Exec(`ANALYZE`); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// verifyBuilt re-opens the finished snapshot and checks the stored counts
// match what the import saw, the same check the lookup store repeats when it
// adopts the file.
func verifyBuilt(dbPath string, stats *ImportStats) error {
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("reopen snapshot: %w", err)
	}
	defer db.Close()

	meta, err := verifySnapshot(db, dbPath)
	if err != nil {
		return fmt.Errorf("built snapshot failed verification: %w", err)
	}
	if meta.RowCount != stats.RowCount {
		return fmt.Errorf("row count mismatch: imported %d, stored %d", stats.RowCount, meta.RowCount)
	}
	if meta.ColumnCount != len(stats.Columns) {
		return fmt.Errorf("column count mismatch: imported %d, stored %d", len(stats.Columns), meta.ColumnCount)
	}
	return nil
}

// sanitizeColumns makes header names safe SQLite identifiers and dedupes
// repeats the way the source exports occasionally produce them.
func sanitizeColumns(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, 0, len(header))
	for _, raw := range header {
		col := strings.ToLower(strings.TrimSpace(raw))
		col = columnSanitizeRegex.ReplaceAllString(col, "_")
		col = strings.Trim(underscoreRunRegex.ReplaceAllString(col, "_"), "_")
		if col == "" {
			col = "col_unknown"
		}
		if n, dup := seen[col]; dup {
			seen[col] = n + 1
			col = fmt.Sprintf("%s_%d", col, n+1)
		} else {
			seen[col] = 0
		}
		out = append(out, col)
	}
	return out
}

func containsColumn(columns []string, col string) bool {
	for _, c := range columns {
		if c == col {
			return true
		}
	}
	return false
}

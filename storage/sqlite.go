package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"

	"dld_finder/match"
	"dld_finder/models"
)

const defaultQueryLimit = 200

// snapshot is one verified, immutable copy of the units dataset. It is
// never mutated after adoption; refresh replaces the whole snapshot.
type snapshot struct {
	db   *sql.DB
	meta models.SnapshotMeta
}

// SQLiteDataset serves lookups from the current dataset snapshot. The
// snapshot is held behind an atomic pointer: readers always see either the
// fully-old or fully-new snapshot, never a mix, and the read path takes no
// locks.
type SQLiteDataset struct {
	current atomic.Pointer[snapshot]
	limit   int
}

// NewSQLiteDataset creates a dataset store. If path is non-empty the
// snapshot at that path is adopted immediately; otherwise queries return
// models.ErrDatasetUnavailable until Adopt succeeds.
func NewSQLiteDataset(path string) (*SQLiteDataset, error) {
	s := &SQLiteDataset{limit: defaultQueryLimit}
	if path != "" {
		if _, err := s.Adopt(path); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Adopt opens the snapshot file read-only, verifies its integrity and swaps
// it in atomically. The previous snapshot is closed after the swap;
// database/sql lets queries already running on it finish first. On any
// verification failure the current snapshot stays in place.
func (s *SQLiteDataset) Adopt(path string) (models.SnapshotMeta, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return models.SnapshotMeta{}, fmt.Errorf("open snapshot: %w", err)
	}

	meta, err := verifySnapshot(db, path)
	if err != nil {
		db.Close()
		return models.SnapshotMeta{}, fmt.Errorf("verify snapshot %s: %w", path, err)
	}

	old := s.current.Swap(&snapshot{db: db, meta: meta})
	if old != nil {
		old.db.Close()
	}
	return meta, nil
}

// verifySnapshot is the load-time integrity check: the units table must hold
// at least one row and carry every expected column. Queries never re-check.
func verifySnapshot(db *sql.DB, path string) (models.SnapshotMeta, error) {
	var rowCount int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM units`).Scan(&rowCount); err != nil {
		return models.SnapshotMeta{}, fmt.Errorf("count rows: %w", err)
	}
	if rowCount == 0 {
		return models.SnapshotMeta{}, fmt.Errorf("units table is empty")
	}

	rows, err := db.Query(`PRAGMA table_info(units)`)
	if err != nil {
		return models.SnapshotMeta{}, fmt.Errorf("table info: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	var columns []string
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return models.SnapshotMeta{}, err
		}
		present[name] = true
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return models.SnapshotMeta{}, err
	}

	var missing []string
	for _, col := range models.RecordColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return models.SnapshotMeta{}, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	return models.SnapshotMeta{
		Path:        path,
		RowCount:    rowCount,
		ColumnCount: len(columns),
		Columns:     columns,
	}, nil
}

// Close releases the current snapshot, if any.
func (s *SQLiteDataset) Close() error {
	if snap := s.current.Swap(nil); snap != nil {
		return snap.db.Close()
	}
	return nil
}

// Query returns candidate records matching the coarse filter, ordered by
// record identity so results are reproducible across runs.
func (s *SQLiteDataset) Query(ctx context.Context, filter match.FilterSpec) ([]models.RegistrationRecord, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, models.ErrDatasetUnavailable
	}

	query := `SELECT ` + strings.Join(models.RecordColumns, ", ") + ` FROM units WHERE 1=1`
	var args []interface{}

	if filter.ProjectToken != "" {
		query += ` AND (LOWER(project_name_en) LIKE ? OR project_name_ar LIKE ?
			OR LOWER(master_project_en) LIKE ? OR master_project_ar LIKE ?)`
		pattern := "%" + strings.ToLower(filter.ProjectToken) + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if filter.AreaToken != "" {
		query += ` AND (LOWER(area_name_en) LIKE ? OR area_name_ar LIKE ?)`
		pattern := "%" + strings.ToLower(filter.AreaToken) + "%"
		args = append(args, pattern, pattern)
	}
	if filter.Rooms != "" {
		query += ` AND (rooms_en LIKE ? OR rooms LIKE ?)`
		prefix := filter.Rooms + "%"
		args = append(args, prefix, prefix)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = s.limit
	}
	query += ` ORDER BY property_id, unit_number, land_number LIMIT ?`
	args = append(args, limit)

	rows, err := snap.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query units: %w", err)
	}
	defer rows.Close()

	var records []models.RegistrationRecord
	for rows.Next() {
		var rec models.RegistrationRecord
		if err := rows.Scan(rec.ScanDest()...); err != nil {
			return nil, fmt.Errorf("scan unit row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Metadata reports the current snapshot's integrity counters.
func (s *SQLiteDataset) Metadata(ctx context.Context) (models.SnapshotMeta, error) {
	snap := s.current.Load()
	if snap == nil {
		return models.SnapshotMeta{}, models.ErrDatasetUnavailable
	}
	return snap.meta, nil
}

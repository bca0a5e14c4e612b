package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"dld_finder/match"
	"dld_finder/models"
)

// testRow builds a full-width CSV row from the sparse column values a test
// cares about.
func testRow(values map[string]string) []string {
	row := make([]string, len(models.RecordColumns))
	for i, col := range models.RecordColumns {
		row[i] = values[col]
	}
	return row
}

func writeUnitsCSV(t *testing.T, dir string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(dir, "units.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create csv: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.RecordColumns); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush csv: %v", err)
	}
	return path
}

func sampleRows() [][]string {
	return [][]string{
		testRow(map[string]string{
			"property_id":     "1001",
			"unit_number":     "1204",
			"project_name_en": "Marina Heights",
			"area_name_en":    "Marsa Dubai",
			"rooms_en":        "2 B/R",
			"actual_area":     "116.13",
		}),
		testRow(map[string]string{
			"property_id":     "1002",
			"unit_number":     "1304",
			"project_name_en": "Marina Heights",
			"area_name_en":    "Marsa Dubai",
			"rooms_en":        "3 B/R",
			"actual_area":     "160.00",
		}),
		testRow(map[string]string{
			"property_id":     "2001",
			"unit_number":     "101",
			"project_name_en": "Burj Vista",
			"area_name_en":    "Burj Khalifa",
			"rooms_en":        "Studio",
			"actual_area":     "45.50",
		}),
		testRow(nil), // all-empty rows are skipped, not imported
	}
}

func buildTestSnapshot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	csvPath := writeUnitsCSV(t, dir, sampleRows())
	dbPath := filepath.Join(dir, "units.db")

	stats, err := ImportCSV(csvPath, dbPath)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if stats.RowCount != 3 {
		t.Fatalf("expected 3 rows imported, got %d", stats.RowCount)
	}
	if stats.EmptyRows != 1 {
		t.Fatalf("expected 1 empty row skipped, got %d", stats.EmptyRows)
	}
	if len(stats.Columns) != len(models.RecordColumns) {
		t.Fatalf("expected %d columns, got %d", len(models.RecordColumns), len(stats.Columns))
	}
	return dbPath
}

func TestImportAndQueryRoundTrip(t *testing.T) {
	dbPath := buildTestSnapshot(t)

	ds, err := NewSQLiteDataset(dbPath)
	if err != nil {
		t.Fatalf("open dataset: %v", err)
	}
	defer ds.Close()

	ctx := context.Background()

	meta, err := ds.Metadata(ctx)
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta.RowCount != 3 {
		t.Fatalf("expected 3 rows in metadata, got %d", meta.RowCount)
	}
	if meta.ColumnCount != len(models.RecordColumns) {
		t.Fatalf("expected %d columns in metadata, got %d", len(models.RecordColumns), meta.ColumnCount)
	}

	records, err := ds.Query(ctx, match.FilterSpec{ProjectToken: "marina heights"})
	if err != nil {
		t.Fatalf("query by project: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 marina heights units, got %d", len(records))
	}
	if records[0].PropertyID != "1001" || records[1].PropertyID != "1002" {
		t.Fatalf("expected ordered ids 1001, 1002, got %s, %s",
			records[0].PropertyID, records[1].PropertyID)
	}
	if records[0].ActualArea != "116.13" {
		t.Fatalf("expected actual_area preserved as text, got %q", records[0].ActualArea)
	}
}

func TestQueryFilters(t *testing.T) {
	dbPath := buildTestSnapshot(t)

	ds, err := NewSQLiteDataset(dbPath)
	if err != nil {
		t.Fatalf("open dataset: %v", err)
	}
	defer ds.Close()

	ctx := context.Background()

	records, err := ds.Query(ctx, match.FilterSpec{
		ProjectToken: "marina heights",
		AreaToken:    "marsa dubai",
		Rooms:        "2",
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 1 || records[0].PropertyID != "1001" {
		t.Fatalf("expected only the 2 B/R unit, got %v", recordIDs(records))
	}

	records, err = ds.Query(ctx, match.FilterSpec{Rooms: "Studio"})
	if err != nil {
		t.Fatalf("query studio: %v", err)
	}
	if len(records) != 1 || records[0].PropertyID != "2001" {
		t.Fatalf("expected the studio unit, got %v", recordIDs(records))
	}

	records, err = ds.Query(ctx, match.FilterSpec{ProjectToken: "no such project"})
	if err != nil {
		t.Fatalf("query miss: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %v", recordIDs(records))
	}

	records, err = ds.Query(ctx, match.FilterSpec{ProjectToken: "marina", Limit: 1})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected limit to cap results, got %d", len(records))
	}
}

func TestQueryUnavailableDataset(t *testing.T) {
	ds, err := NewSQLiteDataset("")
	if err != nil {
		t.Fatalf("new dataset: %v", err)
	}

	_, err = ds.Query(context.Background(), match.FilterSpec{ProjectToken: "marina"})
	if !errors.Is(err, models.ErrDatasetUnavailable) {
		t.Fatalf("expected ErrDatasetUnavailable, got %v", err)
	}
	_, err = ds.Metadata(context.Background())
	if !errors.Is(err, models.ErrDatasetUnavailable) {
		t.Fatalf("expected ErrDatasetUnavailable from metadata, got %v", err)
	}
}

func TestAdoptRejectsBadSnapshot(t *testing.T) {
	dbPath := buildTestSnapshot(t)

	ds, err := NewSQLiteDataset(dbPath)
	if err != nil {
		t.Fatalf("open dataset: %v", err)
	}
	defer ds.Close()

	// A snapshot missing expected columns must be rejected and the
	// current snapshot must keep serving.
	dir := t.TempDir()
	badCSV := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(badCSV, []byte("property_id\n1\n"), 0644); err != nil {
		t.Fatalf("write bad csv: %v", err)
	}
	badDB := filepath.Join(dir, "bad.db")
	if _, err := ImportCSV(badCSV, badDB); err == nil {
		t.Fatalf("expected import verification to reject a single-column csv")
	}

	before, err := ds.Metadata(context.Background())
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}

	if _, err := ds.Adopt(filepath.Join(dir, "missing.db")); err == nil {
		t.Fatalf("expected adopt of a missing file to fail")
	}

	after, err := ds.Metadata(context.Background())
	if err != nil {
		t.Fatalf("metadata after failed adopt: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("failed adopt must not disturb the current snapshot")
	}
}

func TestSanitizeColumns(t *testing.T) {
	in := []string{"Property ID", "AREA_NAME_EN", "rooms (en)", "rooms (en)", ""}
	want := []string{"property_id", "area_name_en", "rooms_en", "rooms_en_1", "col_unknown"}

	got := sanitizeColumns(in)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func recordIDs(records []models.RegistrationRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.PropertyID
	}
	return ids
}

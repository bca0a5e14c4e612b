package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"dld_finder/match"
	"dld_finder/models"
)

// PostgresDataset serves the units dataset from Postgres. Used when the
// snapshot is maintained server-side (the table is replaced wholesale by the
// refresh pipeline); this process only ever reads.
type PostgresDataset struct {
	pool  *pgxpool.Pool
	meta  models.SnapshotMeta
	limit int
}

// NewPostgresDataset connects, pings and runs the same load-time integrity
// verification the SQLite store does.
func NewPostgresDataset(ctx context.Context, connString string) (*PostgresDataset, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	d := &PostgresDataset{pool: pool, limit: defaultQueryLimit}
	if err := d.verify(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("verify dataset: %w", err)
	}
	return d, nil
}

func (d *PostgresDataset) Close() {
	d.pool.Close()
}

func (d *PostgresDataset) verify(ctx context.Context) error {
	rows, err := d.pool.Query(ctx, `
		SELECT column_name FROM information_schema.columns
		WHERE table_name = 'units'
		ORDER BY ordinal_position`)
	if err != nil {
		return fmt.Errorf("column check: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		present[name] = true
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, col := range models.RecordColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	var rowCount int64
	if err := d.pool.QueryRow(ctx, `SELECT COUNT(*) FROM units`).Scan(&rowCount); err != nil {
		return fmt.Errorf("count rows: %w", err)
	}
	if rowCount == 0 {
		return fmt.Errorf("units table is empty")
	}

	d.meta = models.SnapshotMeta{
		Path:        "postgres",
		RowCount:    rowCount,
		ColumnCount: len(columns),
		Columns:     columns,
	}
	return nil
}

// Query mirrors SQLiteDataset.Query with Postgres placeholders.
func (d *PostgresDataset) Query(ctx context.Context, filter match.FilterSpec) ([]models.RegistrationRecord, error) {
	query := `SELECT ` + strings.Join(models.RecordColumns, ", ") + ` FROM units WHERE 1=1`
	var args []interface{}
	argNum := 1

	next := func() string {
		placeholder := fmt.Sprintf("$%d", argNum)
		argNum++
		return placeholder
	}

	if filter.ProjectToken != "" {
		pattern := "%" + strings.ToLower(filter.ProjectToken) + "%"
		query += fmt.Sprintf(` AND (LOWER(project_name_en) LIKE %s OR project_name_ar LIKE %s
			OR LOWER(master_project_en) LIKE %s OR master_project_ar LIKE %s)`,
			next(), next(), next(), next())
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if filter.AreaToken != "" {
		pattern := "%" + strings.ToLower(filter.AreaToken) + "%"
		query += fmt.Sprintf(` AND (LOWER(area_name_en) LIKE %s OR area_name_ar LIKE %s)`, next(), next())
		args = append(args, pattern, pattern)
	}
	if filter.Rooms != "" {
		prefix := filter.Rooms + "%"
		query += fmt.Sprintf(` AND (rooms_en LIKE %s OR rooms LIKE %s)`, next(), next())
		args = append(args, prefix, prefix)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = d.limit
	}
	query += fmt.Sprintf(` ORDER BY property_id, unit_number, land_number LIMIT %s`, next())
	args = append(args, limit)

	rows, err := d.pool.Query(ctx, query, args...)
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

// Metadata reports the verification counters captured at connect time.
func (d *PostgresDataset) Metadata(ctx context.Context) (models.SnapshotMeta, error) {
	return d.meta, nil
}

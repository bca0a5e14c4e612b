package refresh

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dld_finder/storage"
)

// sqliteMagic is the first 16 bytes of every SQLite database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// Refresher downloads published dataset snapshots and swaps them into a
// live SQLite dataset without interrupting in-flight lookups.
type Refresher struct {
	client  *http.Client
	dataset *storage.SQLiteDataset
	url     string
	dbPath  string
}

func New(client *http.Client, dataset *storage.SQLiteDataset, snapshotURL, dbPath string) *Refresher {
	return &Refresher{
		client:  client,
		dataset: dataset,
		url:     snapshotURL,
		dbPath:  dbPath,
	}
}

// Run fetches the latest snapshot, verifies it, and adopts it. The new
// file lands next to dbPath under a temporary name and is renamed into
// place only after it passes verification.
func (r *Refresher) Run(ctx context.Context) error {
	if r.url == "" {
		return fmt.Errorf("no snapshot url configured")
	}

	start := time.Now()
	log.Printf("[refresh] downloading snapshot from %s", r.url)

	tmpPath := r.dbPath + ".download"
	size, err := r.download(ctx, tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("download snapshot: %w", err)
	}

	if err := checkHeader(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("verify snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, r.dbPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("install snapshot: %w", err)
	}

	meta, err := r.dataset.Adopt(r.dbPath)
	if err != nil {
		return fmt.Errorf("adopt snapshot: %w", err)
	}

	log.Printf("[refresh] snapshot adopted: %d rows, %d columns, %.1f MB in %s",
		meta.RowCount, meta.ColumnCount, float64(size)/(1024*1024), time.Since(start).Round(time.Second))
	return nil
}

func (r *Refresher) download(ctx context.Context, dstPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return 0, err
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	var body io.Reader = resp.Body
	if isGzip(r.url, resp.Header.Get("Content-Type")) {
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return 0, fmt.Errorf("open gzip stream: %w", err)
		}
		defer gr.Close()
		body = gr
	}

	n, err := io.Copy(dst, body)
	if err != nil {
		return 0, err
	}
	if err := dst.Sync(); err != nil {
		return 0, err
	}
	return n, nil
}

func isGzip(url, contentType string) bool {
	if strings.HasSuffix(url, ".gz") {
		return true
	}
	return strings.Contains(contentType, "gzip")
}

func checkHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]byte, len(sqliteMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if !bytes.Equal(header, sqliteMagic) {
		return fmt.Errorf("not a sqlite database")
	}
	return nil
}

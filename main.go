package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dld_finder/config"
	"dld_finder/httputil"
	"dld_finder/logging"
	"dld_finder/match"
	"dld_finder/models"
	"dld_finder/normalize"
	"dld_finder/refresh"
	"dld_finder/scheduler"
	"dld_finder/scraper"
	"dld_finder/services"
	"dld_finder/storage"
)

var (
	lookupURL  = flag.String("lookup", "", "Resolve a listing URL and exit")
	importCSV  = flag.String("import", "", "Build a snapshot from a registry CSV export and exit")
	refreshNow = flag.Bool("refresh", false, "Download the latest snapshot and exit")
	publish    = flag.Bool("publish", false, "Upload the local snapshot after import")
	asJSON     = flag.Bool("json", false, "Print lookup results as JSON")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogPath)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting dld_finder...")

	ctx := context.Background()

	if *importCSV != "" {
		runImport(ctx, cfg, *importCSV)
		return
	}

	clients := httputil.NewClients(time.Duration(cfg.Scraper.TimeoutSeconds) * time.Second)

	dataset, sqliteDataset, err := openDataset(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open dataset: %v", err)
	}

	var refresher *refresh.Refresher
	if sqliteDataset != nil {
		refresher = refresh.New(clients.Download, sqliteDataset, cfg.Refresh.SnapshotURL, cfg.Dataset.SQLitePath)
	}

	if *refreshNow {
		if refresher == nil {
			log.Fatal("Refresh requires the sqlite backend")
		}
		if err := refresher.Run(ctx); err != nil {
			log.Fatalf("Refresh failed: %v", err)
		}
		return
	}

	aliases, err := normalize.LoadAliases(cfg.Matching.AliasesPath)
	if err != nil {
		log.Fatalf("Failed to load aliases: %v", err)
	}

	norm := normalize.New(aliases)
	selector := match.NewSelector(dataset, cfg.Dataset.QueryLimit)
	scorer := match.NewScorer(norm, cfg.Matching.Weights)
	resolver := match.NewResolver(cfg.Matching.Thresholds)
	handler := scraper.NewHandler(clients.Scraping)

	lookup := services.NewLookupService(handler, norm, selector, scorer, resolver)

	if *lookupURL != "" {
		result, err := lookup.FindMatch(ctx, *lookupURL)
		if err != nil {
			log.Fatalf("Lookup failed: %v", err)
		}
		printResult(result)
		return
	}

	// Daemon mode: keep the dataset fresh on a schedule. Lookups arrive
	// through LookupService from embedding callers.
	if refresher == nil {
		log.Fatal("Daemon mode requires the sqlite backend")
	}

	sched := scheduler.New(refresher, cfg.Refresh.Cron, 0)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()
	log.Println("Goodbye!")
}

func openDataset(ctx context.Context, cfg *config.Config) (match.Dataset, *storage.SQLiteDataset, error) {
	switch cfg.Dataset.Backend {
	case "postgres":
		pg, err := storage.NewPostgresDataset(ctx, cfg.Dataset.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		log.Println("Dataset backend: postgres")
		return pg, nil, nil
	case "sqlite", "":
		path := cfg.Dataset.SQLitePath
		if _, err := os.Stat(path); err != nil {
			// No snapshot yet. Start empty and let a refresh populate it.
			log.Printf("No snapshot at %s, dataset starts unavailable", path)
			path = ""
		}
		ds, err := storage.NewSQLiteDataset(path)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Dataset backend: sqlite (%s)", cfg.Dataset.SQLitePath)
		return ds, ds, nil
	default:
		return nil, nil, fmt.Errorf("unknown dataset backend %q", cfg.Dataset.Backend)
	}
}

func runImport(ctx context.Context, cfg *config.Config, csvPath string) {
	log.Printf("Importing %s into %s", csvPath, cfg.Dataset.SQLitePath)
	stats, err := storage.ImportCSV(csvPath, cfg.Dataset.SQLitePath)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Import complete: %d rows, %d columns, %d empty rows skipped, took %s",
		stats.RowCount, len(stats.Columns), stats.EmptyRows, stats.Duration.Round(time.Second))

	if *publish {
		if !cfg.Publish.Enabled {
			log.Fatal("Publishing is not enabled, set PUBLISH_ENABLED=true")
		}
		uploader, err := storage.NewSnapshotUploader(ctx, storage.S3Config{
			Bucket:          cfg.Publish.Bucket,
			Region:          cfg.Publish.Region,
			Endpoint:        cfg.Publish.Endpoint,
			AccessKeyID:     cfg.Publish.AccessKeyID,
			SecretAccessKey: cfg.Publish.SecretAccessKey,
		})
		if err != nil {
			log.Fatalf("Failed to create uploader: %v", err)
		}
		if err := uploader.UploadSnapshot(ctx, cfg.Dataset.SQLitePath, cfg.Publish.Key); err != nil {
			log.Fatalf("Upload failed: %v", err)
		}
		log.Printf("Snapshot published: %s", uploader.PublicURL(cfg.Publish.Key))
	}
}

func printResult(result *models.MatchResult) {
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatalf("Encode result: %v", err)
		}
		return
	}

	fmt.Printf("Status: %s\n", result.Status)
	for i, m := range result.Matches {
		fmt.Printf("%2d. score=%.3f property=%s unit=%s project=%s area=%s rooms=%s area_sqm=%s\n",
			i+1, m.Score, m.Record.PropertyID, m.Record.UnitNumber,
			m.Record.ProjectNameEn, m.Record.AreaNameEn, m.Record.RoomsEn, m.Record.ActualArea)
	}
}

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"dld_finder/match"
)

type Config struct {
	Dataset  DatasetConfig
	Refresh  RefreshConfig
	Publish  PublishConfig
	Scraper  ScraperConfig
	Matching MatchingConfig
	LogLevel string
	LogPath  string
}

type DatasetConfig struct {
	Backend     string // "sqlite" or "postgres"
	SQLitePath  string
	PostgresDSN string
	QueryLimit  int
}

type RefreshConfig struct {
	SnapshotURL string
	Cron        string
}

type PublishConfig struct {
	Enabled         bool
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Key             string
}

type ScraperConfig struct {
	TimeoutSeconds int
	DelayMS        int
}

type MatchingConfig struct {
	Weights     match.Weights    `yaml:"weights"`
	Thresholds  match.Thresholds `yaml:"thresholds"`
	AliasesPath string           `yaml:"aliases_path"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Dataset: DatasetConfig{
			Backend:     getEnv("DATASET_BACKEND", "sqlite"),
			SQLitePath:  getEnv("DB_PATH", "dld_units.db"),
			PostgresDSN: os.Getenv("POSTGRES_DSN"),
			QueryLimit:  getEnvInt("QUERY_LIMIT", 0),
		},
		Refresh: RefreshConfig{
			SnapshotURL: os.Getenv("SNAPSHOT_URL"),
			Cron:        getEnv("REFRESH_CRON", "0 4 * * *"),
		},
		Publish: PublishConfig{
			Enabled:         os.Getenv("PUBLISH_ENABLED") == "true",
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			Key:             getEnv("S3_SNAPSHOT_KEY", "dld_units.db.gz"),
		},
		Scraper: ScraperConfig{
			TimeoutSeconds: getEnvInt("SCRAPE_TIMEOUT_SECONDS", 15),
			DelayMS:        getEnvInt("SCRAPE_DELAY_MS", 500),
		},
		Matching: MatchingConfig{
			Weights:    match.DefaultWeights(),
			Thresholds: match.DefaultThresholds(),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogPath:  getEnv("LOG_PATH", "logs/dld_finder.log"),
	}

	if err := cfg.loadMatchingConfig(getEnv("MATCHING_CONFIG", "config/matching.yaml")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadMatchingConfig overlays weights, thresholds, and the alias table path
// from a YAML file. A missing file keeps the defaults.
func (c *Config) loadMatchingConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return yaml.Unmarshal(data, &c.Matching)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

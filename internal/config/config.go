package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress      string   `env:"SERVER_ADDRESS" envDefault:":8080"`
	Environment        string   `env:"ENVIRONMENT" envDefault:"development"`
	MaxUploadSizeMB    int64    `env:"MAX_UPLOAD_SIZE_MB" envDefault:"10"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	Sync    SyncConfig
	Loyalty LoyaltyConfig
}

type SyncConfig struct {
	// Sinks lists the enabled mirrors: csv, json, sheets, gcs, mongo.
	Sinks   []string      `env:"SYNC_SINKS" envSeparator:","`
	Timeout time.Duration `env:"SYNC_TIMEOUT" envDefault:"10s"`

	CSVPath  string `env:"SYNC_CSV_PATH" envDefault:"./data/inventory.csv"`
	JSONPath string `env:"SYNC_JSON_PATH" envDefault:"./data/inventory.json"`

	SpreadsheetID         string `env:"SHEETS_SPREADSHEET_ID"`
	SheetName             string `env:"SHEETS_SHEET_NAME" envDefault:"Inventory"`
	SheetsCredentialsFile string `env:"SHEETS_CREDENTIALS_FILE"`

	GCSBucket string `env:"GCS_BUCKET"`
	GCSObject string `env:"GCS_OBJECT" envDefault:"inventory.csv"`

	MongoURI        string `env:"MONGO_URI"`
	MongoDB         string `env:"MONGO_DB" envDefault:"shopkeeper"`
	MongoCollection string `env:"MONGO_COLLECTION" envDefault:"inventory"`
}

type LoyaltyConfig struct {
	CardVisits int `env:"LOYALTY_CARD_VISITS" envDefault:"10"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Sync.Sinks = normalizeSinks(cfg.Sync.Sinks)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MaxUploadSizeMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE_MB must be positive")
	}
	if c.Sync.Timeout <= 0 {
		return fmt.Errorf("SYNC_TIMEOUT must be positive")
	}
	for _, sink := range c.Sync.Sinks {
		switch sink {
		case "csv", "json":
		case "sheets":
			if c.Sync.SpreadsheetID == "" {
				return fmt.Errorf("sheets sink requires SHEETS_SPREADSHEET_ID")
			}
		case "gcs":
			if c.Sync.GCSBucket == "" {
				return fmt.Errorf("gcs sink requires GCS_BUCKET")
			}
		case "mongo":
			if c.Sync.MongoURI == "" {
				return fmt.Errorf("mongo sink requires MONGO_URI")
			}
		default:
			return fmt.Errorf("unknown sync sink %q", sink)
		}
	}
	return nil
}

// normalizeSinks trims and lowercases SYNC_SINKS entries and drops blanks,
// so "csv, Sheets," means csv and sheets.
func normalizeSinks(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

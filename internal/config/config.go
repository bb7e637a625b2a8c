package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultRemoteURL      = "http://localhost:8787"
	DefaultTimeout        = 30 * time.Second
	DefaultCSVTimeLayout  = "2006/1/2 15:04:05"
	DefaultDocHostAddr    = ":8787"
	DefaultExportFileName = "qr-history.csv"
)

// Config holds the runtime settings shared by every scanlog binary
type Config struct {
	DBPath        string
	RemoteURL     string
	Token         string // overrides the stored credential when set
	Timeout       time.Duration
	CSVTimeLayout string
	ExportFile    string // default export file name
	LogLevel      string
	DocHostAddr   string
	DocHostToken  string
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already present in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load reads the configuration from SCANLOG_* environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:        DBPath(),
		RemoteURL:     envOr("SCANLOG_REMOTE_URL", DefaultRemoteURL),
		Token:         os.Getenv("SCANLOG_TOKEN"),
		Timeout:       DefaultTimeout,
		CSVTimeLayout: envOr("SCANLOG_CSV_TIME_LAYOUT", DefaultCSVTimeLayout),
		ExportFile:    envOr("SCANLOG_EXPORT_FILE", DefaultExportFileName),
		LogLevel:      envOr("SCANLOG_LOG_LEVEL", "info"),
		DocHostAddr:   envOr("SCANLOG_DOCHOST_ADDR", DefaultDocHostAddr),
		DocHostToken:  os.Getenv("SCANLOG_DOCHOST_TOKEN"),
	}

	if raw := os.Getenv("SCANLOG_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config error: SCANLOG_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has usable values
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("config error: timeout must be positive")
	}
	if !strings.HasPrefix(c.RemoteURL, "http://") && !strings.HasPrefix(c.RemoteURL, "https://") {
		return fmt.Errorf("config error: remote URL must be http(s): %s", c.RemoteURL)
	}
	if c.DBPath == "" {
		return fmt.Errorf("config error: database path is empty")
	}
	return nil
}

// DBPath returns the database path from SCANLOG_DB,
// falling back to $XDG_DATA_HOME/scanlog/scanlog.db.
func DBPath() string {
	if env := os.Getenv("SCANLOG_DB"); env != "" {
		return ExpandHome(env)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "scanlog", "scanlog.db")
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

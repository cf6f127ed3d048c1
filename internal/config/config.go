package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port         string
	DBDSN        string
	TemplatesDir string
	LogFile      string

	// lumberjack rotation for LogFile
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	ScannerInput  string // "" or "stdin"
	MaxImageBytes int
	SeedDemo      bool
	OperatorEmail string
	OperatorPass  string
}

func Load() Config {
	cfg := Config{
		Port:          env("PORT", "8080"),
		DBDSN:         env("DB_DSN", "novastock.db"), // sqlite file in working dir
		TemplatesDir:  env("TEMPLATES_DIR", "./web/templates"),
		LogFile:       os.Getenv("LOG_FILE"),
		LogMaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: envInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: envInt("LOG_MAX_AGE_DAYS", 28),
		ScannerInput:  os.Getenv("SCANNER_INPUT"),
		MaxImageBytes: envInt("MAX_IMAGE_BYTES", defaultMaxImageBytes),
		SeedDemo:      os.Getenv("SEED_DEMO") == "1",
		OperatorEmail: env("OPERATOR_EMAIL", "operator@novastock.test"),
		OperatorPass:  env("OPERATOR_PASSWORD", "Passw0rd!"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s TEMPLATES_DIR=%s LOG_FILE=%s SCANNER_INPUT=%s",
		cfg.Port, cfg.DBDSN, cfg.TemplatesDir, cfg.LogFile, cfg.ScannerInput)
	return cfg
}

const defaultMaxImageBytes = 5 << 20

// ImageLimit is the photo upload cap; unset or zero means the default.
func (c Config) ImageLimit() int {
	if c.MaxImageBytes <= 0 {
		return defaultMaxImageBytes
	}
	return c.MaxImageBytes
}

// BodyLimit leaves room for the form fields sent alongside a photo.
func (c Config) BodyLimit() int { return c.ImageLimit() + 1<<20 }

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("[config] ignoring %s=%q: not a non-negative integer", key, v)
		return def
	}
	return n
}

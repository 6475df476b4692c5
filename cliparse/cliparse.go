// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKey     string

	// CodeLength is the length of generated access codes.
	CodeLength    int
	QuestionsFile string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// MailEnabled reports whether an SMTP server is configured
func (c Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("soulmate", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or SQLite file")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or pgx)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Admin key (prefer env)")

	fs.IntVar(&cfg.CodeLength, "code-length", 0, "Access code length")
	fs.StringVar(&cfg.QuestionsFile, "questions", "", "Questionnaire YAML (embedded default when empty)")

	fs.StringVar(&cfg.SMTPHost, "smtp-host", "", "SMTP host (mail disabled when empty)")
	fs.IntVar(&cfg.SMTPPort, "smtp-port", 0, "SMTP port (465 = implicit TLS)")
	fs.StringVar(&cfg.SMTPUser, "smtp-user", "", "SMTP user")
	fs.StringVar(&cfg.SMTPPass, "smtp-pass", "", "SMTP password (prefer env)")
	fs.StringVar(&cfg.SMTPFrom, "smtp-from", "", "Sender address (defaults to SMTP user)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	var err error
	if cfg.Port, err = envInt(cfg.Port, "PORT", 3318); err != nil {
		return Config{}, err
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	cfg.DatabaseType = envString(cfg.DatabaseType, "DATABASE_TYPE", "sqlite")
	switch cfg.DatabaseType {
	case "sqlite", "postgres", "pgx":
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	cfg.AdminKey = envString(cfg.AdminKey, "ADMIN_KEY", "")
	if cfg.AdminKey == "" {
		return Config{}, errors.New("ADMIN_KEY required")
	}

	if cfg.CodeLength, err = envInt(cfg.CodeLength, "ACCESS_CODE_LENGTH", 6); err != nil {
		return Config{}, err
	}
	if cfg.CodeLength < 4 || cfg.CodeLength > 32 {
		return Config{}, fmt.Errorf("access code length must be between 4 and 32, got %d", cfg.CodeLength)
	}
	cfg.QuestionsFile = envString(cfg.QuestionsFile, "QUESTIONS_FILE", "")

	cfg.SMTPHost = envString(cfg.SMTPHost, "SMTP_HOST", "")
	if cfg.SMTPPort, err = envInt(cfg.SMTPPort, "SMTP_PORT", 587); err != nil {
		return Config{}, err
	}
	cfg.SMTPUser = envString(cfg.SMTPUser, "SMTP_USER", "")
	cfg.SMTPPass = envString(cfg.SMTPPass, "SMTP_PASS", "")
	cfg.SMTPFrom = envString(cfg.SMTPFrom, "SMTP_FROM", cfg.SMTPUser)

	return cfg, nil
}

func envString(current, key, def string) string {
	if current != "" {
		return current
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(current int, key string, def int) (int, error) {
	if current != 0 {
		return current, nil
	}
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

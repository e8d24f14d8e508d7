// Package config resolves runtime settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator"
	"github.com/joho/godotenv"
)

// Supported graph backends.
const (
	BackendSQLite   = "sqlite"
	BackendNeo4j    = "neo4j"
	BackendPostgres = "postgres"
)

// Config holds every externalized setting.
type Config struct {
	Backend string `validate:"required,oneof=sqlite neo4j postgres"`
	// DBPath is the SQLite file; empty means discover it.
	DBPath string

	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	DatabaseURL string

	APIURL    string        `validate:"required,url"`
	BaseURL   string        `validate:"required,url"`
	DataDir   string        `validate:"required"`
	RateLimit time.Duration `validate:"min=0"`
	UserAgent string        `validate:"required"`

	Debug bool

	// EnvFile reports whether a .env file was read. Load runs before the
	// logger is configured, so callers log this themselves.
	EnvFile bool `validate:"-"`
}

var validate = validator.New()

// LoadEnv reads .env into the process environment if the file exists and
// reports whether it did. Variables already set win.
func LoadEnv() bool {
	return godotenv.Load() == nil
}

// Load returns the configuration from the environment with defaults applied.
func Load() *Config {
	envFile := LoadEnv()
	return &Config{
		EnvFile:       envFile,
		Backend:       GetEnvString("WIKIGRAPH_BACKEND", BackendSQLite),
		DBPath:        GetEnv("WIKIGRAPH_DB"),
		Neo4jURI:      GetEnvString("NEO4J_URI", "neo4j://localhost:7687"),
		Neo4jUser:     GetEnvString("NEO4J_USER", "neo4j"),
		Neo4jPassword: GetEnv("NEO4J_PASSWORD"),
		Neo4jDatabase: GetEnvString("NEO4J_DATABASE", "neo4j"),
		DatabaseURL:   GetEnv("DATABASE_URL"),
		APIURL:        GetEnvString("WIKI_API_URL", "https://sustainabilitymethods.org/api.php"),
		BaseURL:       GetEnvString("WIKI_BASE_URL", "https://sustainabilitymethods.org/index.php/"),
		DataDir:       GetEnvString("WIKIGRAPH_DATA", "./data"),
		RateLimit:     time.Duration(GetEnvInt("WIKI_RATE_LIMIT_MS", 200)) * time.Millisecond,
		UserAgent:     GetEnvString("WIKI_USER_AGENT", "wikigraph/1.0"),
		Debug:         GetEnvBool("DEBUG", false),
	}
}

// Validate checks field formats and the credentials the selected backend
// needs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Backend {
	case BackendNeo4j:
		if c.Neo4jPassword == "" {
			return errors.New("invalid config: NEO4J_PASSWORD is required for the neo4j backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("invalid config: DATABASE_URL is required for the postgres backend")
		}
	}
	return nil
}

// GetEnv returns the variable or "" when unset.
func GetEnv(key string) string {
	value, _ := os.LookupEnv(key)
	return value
}

func GetEnvString(key string, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func GetEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

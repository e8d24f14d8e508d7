package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"methodswiki/wikigraph/internal/config"
	"methodswiki/wikigraph/internal/db"
	"methodswiki/wikigraph/internal/importer"
	"methodswiki/wikigraph/internal/logger"
	"methodswiki/wikigraph/internal/neo4jstore"
	"methodswiki/wikigraph/internal/pgstore"
)

const dbFileName = ".wikigraph.db"

var (
	dbPath  string
	backend string
	dataDir string
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "wikigraph",
	Short:         "Fetch a MediaWiki and project its pages into a property graph",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		flags := cmd.Flags()
		if flags.Changed("backend") {
			cfg.Backend = backend
		}
		if flags.Changed("data") {
			cfg.DataDir = dataDir
		}
		if flags.Changed("verbose") {
			cfg.Debug = verbose
		}
		logger.Init(logger.Params{Debug: cfg.Debug})
		if !cfg.EnvFile {
			logger.Debug("No .env file found, using system environment variables")
		}
		return cfg.Validate()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to .wikigraph.db database (sqlite backend)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", config.BackendSQLite, "Graph store: sqlite, neo4j or postgres")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "./data", "Directory holding articles/ and categories/")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

// DiscoverDB finds the database path using priority: flag > env > walk-up > XDG fallback
func DiscoverDB() (string, error) {
	// 1. CLI flag
	if dbPath != "" {
		if _, err := os.Stat(dbPath); err == nil {
			return dbPath, nil
		}
		return "", fmt.Errorf("database not found at --db path: %s", dbPath)
	}

	// 2. Environment variable
	if envPath := cfg.DBPath; envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	// 3. Walk up from CWD
	dir, err := os.Getwd()
	if err == nil {
		for {
			candidate := filepath.Join(dir, dbFileName)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	// 4. XDG fallback
	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".local", "share", "wikigraph", "wikigraph.db")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", fmt.Errorf("no %s found (set WIKIGRAPH_DB, use --db, or run from a directory containing %s)", dbFileName, dbFileName)
}

// dbPathForWrite is DiscoverDB, falling back to a new database in the
// working directory (or at --db / WIKIGRAPH_DB when given).
func dbPathForWrite() string {
	if path, err := DiscoverDB(); err == nil {
		return path
	}
	if dbPath != "" {
		return dbPath
	}
	if cfg.DBPath != "" {
		return cfg.DBPath
	}
	return dbFileName
}

// OpenDatabase discovers and opens the SQLite database
func OpenDatabase() (*db.DB, error) {
	if cfg.Backend != config.BackendSQLite {
		return nil, fmt.Errorf("this command reads the sqlite store; backend is %s", cfg.Backend)
	}
	path, err := DiscoverDB()
	if err != nil {
		return nil, err
	}
	return db.OpenDB(path)
}

// Store is the selected graph backend.
type Store struct {
	importer.GraphWriter
	ensureSchema func(context.Context) error
	close        func() error
}

// EnsureSchema creates the backend's tables or constraints.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.ensureSchema(ctx)
}

// Close releases the backend connection.
func (s *Store) Close() error {
	return s.close()
}

// OpenStore opens the configured backend for writing. The sqlite database
// is created if it does not exist yet.
func OpenStore(ctx context.Context) (*Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		path := dbPathForWrite()
		d, err := db.OpenDB(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("Opened sqlite store", "path", path)
		return &Store{GraphWriter: d, ensureSchema: d.EnsureSchema, close: d.Close}, nil

	case config.BackendNeo4j:
		s, err := neo4jstore.Open(ctx, neo4jstore.Params{
			URI:      cfg.Neo4jURI,
			User:     cfg.Neo4jUser,
			Password: cfg.Neo4jPassword,
			Database: cfg.Neo4jDatabase,
		})
		if err != nil {
			return nil, err
		}
		return &Store{
			GraphWriter:  s,
			ensureSchema: s.EnsureSchema,
			close:        func() error { return s.Close(context.Background()) },
		}, nil

	case config.BackendPostgres:
		s, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &Store{
			GraphWriter:  s,
			ensureSchema: s.EnsureSchema,
			close:        func() error { s.Close(); return nil },
		}, nil
	}
	return nil, errors.New("unknown backend " + cfg.Backend)
}

// ResolveNode finds a node by title. Without an explicit label an article
// wins over a category of the same name.
func ResolveNode(ctx context.Context, d *db.DB, label, title string) (*db.Node, error) {
	labels := []string{importer.LabelArticle, importer.LabelCategory}
	if label != "" {
		labels = []string{label}
	}
	for _, l := range labels {
		node, err := d.GetNode(ctx, l, title)
		if err != nil {
			return nil, err
		}
		if node != nil {
			return node, nil
		}
	}
	return nil, fmt.Errorf("node not found: %s", title)
}

// Package neo4jstore writes the wiki graph to Neo4j with Cypher MERGE.
package neo4jstore

import (
	"context"
	"fmt"
	"regexp"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"methodswiki/wikigraph/internal/importer"
	"methodswiki/wikigraph/internal/logger"
)

var _ importer.GraphWriter = (*Store)(nil)

// Labels and relationship types cannot be query parameters, so they are
// spliced into the statement and must be plain identifiers.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Params locates and authenticates against a Neo4j server.
type Params struct {
	URI      string
	User     string
	Password string
	Database string
}

// Store is a GraphWriter backed by a Neo4j driver.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
}

// Open creates a driver and checks that the server is reachable.
func Open(ctx context.Context, params Params) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(params.URI, neo4j.BasicAuth(params.User, params.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("connecting to %s: %w", params.URI, err)
	}
	logger.Debug("Connected to neo4j", "uri", params.URI, "database", params.Database)
	return &Store{driver: driver, database: params.Database}, nil
}

// Close releases the driver and its connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// EnsureSchema creates the uniqueness constraints backing MERGE on the
// natural keys.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, label := range []string{importer.LabelArticle, importer.LabelCategory} {
		query, err := constraintQuery(label)
		if err != nil {
			return err
		}
		if _, err := s.write(ctx, query, nil); err != nil {
			return fmt.Errorf("creating %s constraint: %w", label, err)
		}
	}
	return nil
}

// UpsertNode merges the node on its natural key and sets every property.
// A nil property value removes it.
func (s *Store) UpsertNode(ctx context.Context, n importer.NodeUpsert) error {
	query, err := nodeQuery(n.Label)
	if err != nil {
		return err
	}
	props := n.Props
	if props == nil {
		props = map[string]any{}
	}
	_, err = s.write(ctx, query, map[string]any{"key": n.Key, "props": props})
	return err
}

// UpsertEdge merges both endpoints and then the relationship between them.
func (s *Store) UpsertEdge(ctx context.Context, e importer.EdgeUpsert) error {
	query, err := edgeQuery(e)
	if err != nil {
		return err
	}
	_, err = s.write(ctx, query, map[string]any{"from": e.From.Key, "to": e.To.Key})
	return err
}

// ClearLabel detach-deletes every node carrying label.
func (s *Store) ClearLabel(ctx context.Context, label string) (int64, error) {
	query, err := clearQuery(label)
	if err != nil {
		return 0, err
	}
	return s.write(ctx, query, nil)
}

// write runs query in a managed write transaction and returns the number of
// nodes it deleted.
func (s *Store) write(ctx context.Context, query string, params map[string]any) (int64, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		summary, err := result.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return int64(summary.Counters().NodesDeleted()), nil
	})
	if err != nil {
		return 0, err
	}
	return deleted.(int64), nil
}

func checkIdent(kind, s string) error {
	if !identPattern.MatchString(s) {
		return fmt.Errorf("invalid %s %q", kind, s)
	}
	return nil
}

func nodeQuery(label string) (string, error) {
	if err := checkIdent("label", label); err != nil {
		return "", err
	}
	return fmt.Sprintf("MERGE (n:%s {%s: $key}) SET n += $props", label, importer.KeyProperty(label)), nil
}

func edgeQuery(e importer.EdgeUpsert) (string, error) {
	if err := checkIdent("label", e.From.Label); err != nil {
		return "", err
	}
	if err := checkIdent("label", e.To.Label); err != nil {
		return "", err
	}
	if err := checkIdent("relationship type", e.Type); err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"MERGE (a:%s {%s: $from}) MERGE (b:%s {%s: $to}) MERGE (a)-[:%s]->(b)",
		e.From.Label, importer.KeyProperty(e.From.Label),
		e.To.Label, importer.KeyProperty(e.To.Label),
		e.Type,
	), nil
}

func clearQuery(label string) (string, error) {
	if err := checkIdent("label", label); err != nil {
		return "", err
	}
	return fmt.Sprintf("MATCH (n:%s) DETACH DELETE n", label), nil
}

func constraintQuery(label string) (string, error) {
	if err := checkIdent("label", label); err != nil {
		return "", err
	}
	key := importer.KeyProperty(label)
	return fmt.Sprintf(
		"CREATE CONSTRAINT %s_%s IF NOT EXISTS FOR (n:%s) REQUIRE n.%s IS UNIQUE",
		label, key, label, key,
	), nil
}

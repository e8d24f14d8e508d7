package neo4jstore

import (
	"context"
	"os"
	"testing"

	"methodswiki/wikigraph/internal/importer"
)

func TestNodeQuery(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Article", "MERGE (n:Article {title: $key}) SET n += $props"},
		{"Category", "MERGE (n:Category {name: $key}) SET n += $props"},
	}
	for _, tt := range tests {
		got, err := nodeQuery(tt.label)
		if err != nil {
			t.Fatalf("nodeQuery(%q): %v", tt.label, err)
		}
		if got != tt.want {
			t.Errorf("nodeQuery(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestEdgeQuery(t *testing.T) {
	tests := []struct {
		name string
		edge importer.EdgeUpsert
		want string
	}{
		{
			name: "article in category",
			edge: importer.EdgeUpsert{
				Type: importer.RelCategorizedAs,
				From: importer.NodeRef{Label: "Article", Key: "A"},
				To:   importer.NodeRef{Label: "Category", Key: "Cats"},
			},
			want: "MERGE (a:Article {title: $from}) MERGE (b:Category {name: $to}) MERGE (a)-[:CATEGORIZED_AS]->(b)",
		},
		{
			name: "category links to article",
			edge: importer.EdgeUpsert{
				Type: importer.RelLinksTo,
				From: importer.NodeRef{Label: "Category", Key: "Cats"},
				To:   importer.NodeRef{Label: "Article", Key: "A"},
			},
			want: "MERGE (a:Category {name: $from}) MERGE (b:Article {title: $to}) MERGE (a)-[:LINKS_TO]->(b)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := edgeQuery(tt.edge)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestQueriesRejectInjection(t *testing.T) {
	bad := []string{"", "Article) DETACH DELETE (m", "Art icle", "1Article", "Article`"}
	for _, label := range bad {
		if _, err := nodeQuery(label); err == nil {
			t.Errorf("nodeQuery(%q) should fail", label)
		}
		if _, err := clearQuery(label); err == nil {
			t.Errorf("clearQuery(%q) should fail", label)
		}
	}
	_, err := edgeQuery(importer.EdgeUpsert{
		Type: "LINKS_TO]->(x) DELETE x //",
		From: importer.NodeRef{Label: "Article", Key: "A"},
		To:   importer.NodeRef{Label: "Article", Key: "B"},
	})
	if err == nil {
		t.Error("edgeQuery should reject a non-identifier relationship type")
	}
}

func TestClearAndConstraintQueries(t *testing.T) {
	got, _ := clearQuery("Article")
	if got != "MATCH (n:Article) DETACH DELETE n" {
		t.Errorf("clearQuery = %q", got)
	}
	got, _ = constraintQuery("Category")
	want := "CREATE CONSTRAINT Category_name IF NOT EXISTS FOR (n:Category) REQUIRE n.name IS UNIQUE"
	if got != want {
		t.Errorf("constraintQuery = %q, want %q", got, want)
	}
}

// TestLiveStore runs against a real server when NEO4J_TEST_URI is set.
func TestLiveStore(t *testing.T) {
	uri := os.Getenv("NEO4J_TEST_URI")
	if uri == "" {
		t.Skip("NEO4J_TEST_URI not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, Params{
		URI:      uri,
		User:     os.Getenv("NEO4J_TEST_USER"),
		Password: os.Getenv("NEO4J_TEST_PASSWORD"),
		Database: os.Getenv("NEO4J_TEST_DATABASE"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close(ctx)

	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ClearLabel(ctx, "Article"); err != nil {
		t.Fatal(err)
	}

	a := importer.NodeRef{Label: "Article", Key: "A"}
	b := importer.NodeRef{Label: "Article", Key: "B"}
	if err := s.UpsertNode(ctx, importer.NodeUpsert{NodeRef: a, Props: map[string]any{"text": "hello", "pageid": int64(1)}}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := s.UpsertEdge(ctx, importer.EdgeUpsert{Type: importer.RelLinksTo, From: a, To: b}); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.ClearLabel(ctx, "Article")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 articles deleted, got %d", n)
	}
}

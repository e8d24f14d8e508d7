package pgstore

import (
	"context"
	"os"
	"testing"

	"methodswiki/wikigraph/internal/importer"
)

func TestEncodeProps(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]any
		want  string
	}{
		{"nil", nil, "{}"},
		{"empty", map[string]any{}, "{}"},
		{"null kept for merge", map[string]any{"touched": nil}, `{"touched":null}`},
		{"mixed", map[string]any{"pageid": int64(3), "text": "x"}, `{"pageid":3,"text":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeProps(tt.props)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("encodeProps = %s, want %s", got, tt.want)
			}
		})
	}
}

// TestLiveStore runs against a real server when PG_TEST_URL is set.
func TestLiveStore(t *testing.T) {
	url := os.Getenv("PG_TEST_URL")
	if url == "" {
		t.Skip("PG_TEST_URL not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}
	for _, label := range []string{importer.LabelArticle, importer.LabelCategory} {
		if _, err := s.ClearLabel(ctx, label); err != nil {
			t.Fatal(err)
		}
	}

	a := importer.NodeRef{Label: importer.LabelArticle, Key: "A"}
	cats := importer.NodeRef{Label: importer.LabelCategory, Key: "Cats"}
	if err := s.UpsertNode(ctx, importer.NodeUpsert{NodeRef: a, Props: map[string]any{"text": "hello"}}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := s.UpsertEdge(ctx, importer.EdgeUpsert{Type: importer.RelCategorizedAs, From: a, To: cats}); err != nil {
			t.Fatal(err)
		}
	}

	if n, _ := s.CountNodes(ctx, importer.LabelCategory); n != 1 {
		t.Errorf("expected 1 category, got %d", n)
	}
	n, err := s.ClearLabel(ctx, importer.LabelArticle)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 article deleted, got %d", n)
	}
	if n, _ := s.CountNodes(ctx, importer.LabelCategory); n != 1 {
		t.Errorf("clearing articles must keep categories, got %d", n)
	}
}

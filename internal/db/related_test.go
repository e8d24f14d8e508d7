package db

import (
	"context"
	"fmt"
	"testing"
)

func TestEdgeTypePriority(t *testing.T) {
	tests := []struct {
		edgeType string
		want     float64
	}{
		{"LINKS_TO", 0.7},
		{"CATEGORIZED_AS", 0.3},
		{"OTHER", 0.3},
	}
	for _, tt := range tests {
		got := EdgeTypePriority(tt.edgeType)
		if got != tt.want {
			t.Errorf("EdgeTypePriority(%q) = %f, want %f", tt.edgeType, got, tt.want)
		}
	}
}

func TestEdgeCost_CategoryFloor(t *testing.T) {
	if c := edgeCost("CATEGORIZED_AS"); c < 0.4 {
		t.Errorf("category edges should cost at least 0.4, got %f", c)
	}
	if edgeCost("LINKS_TO") >= edgeCost("CATEGORIZED_AS") {
		t.Errorf("links should be cheaper than category membership")
	}
}

func TestRelated_SimpleChain(t *testing.T) {
	d := setupTestDB(t)
	upsertEdge(t, d, "LINKS_TO", article("A"), article("B"))
	upsertEdge(t, d, "LINKS_TO", article("B"), article("C"))

	results, err := d.Related(context.Background(), "Article", "A", DefaultRelatedConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Key != "B" || results[1].Key != "C" {
		t.Errorf("expected B then C, got %s, %s", results[0].Key, results[1].Key)
	}
	if results[0].Distance >= results[1].Distance {
		t.Errorf("B distance (%f) should be less than C (%f)", results[0].Distance, results[1].Distance)
	}
	if results[0].Rank != 1 || results[1].Rank != 2 {
		t.Errorf("ranks should be 1,2, got %d,%d", results[0].Rank, results[1].Rank)
	}
	if results[1].Hops != 2 || len(results[1].Path) != 2 {
		t.Errorf("C should be 2 hops, got hops=%d path=%v", results[1].Hops, results[1].Path)
	}
	if results[1].Path[0].Key != "B" || results[1].Path[1].Key != "C" {
		t.Errorf("path should be B -> C, got %+v", results[1].Path)
	}
}

func TestRelated_TraversesIncomingEdges(t *testing.T) {
	d := setupTestDB(t)
	upsertEdge(t, d, "LINKS_TO", article("X"), article("A"))

	results, err := d.Related(context.Background(), "Article", "A", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Key != "X" {
		t.Errorf("expected X via incoming link, got %+v", results)
	}
}

func TestRelated_LabelFilterPassesThroughCategories(t *testing.T) {
	d := setupTestDB(t)
	upsertEdge(t, d, "CATEGORIZED_AS", article("A"), category("Cats"))
	upsertEdge(t, d, "CATEGORIZED_AS", article("B"), category("Cats"))

	config := DefaultRelatedConfig()
	config.Labels = []string{"Article"}
	results, err := d.Related(context.Background(), "Article", "A", config)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Key != "B" {
		t.Fatalf("expected only sibling article B, got %+v", results)
	}
	if results[0].Hops != 2 {
		t.Errorf("B is reached through the category, hops=%d", results[0].Hops)
	}
}

func TestRelated_BudgetCutoff(t *testing.T) {
	d := setupTestDB(t)
	for i := 0; i < 10; i++ {
		upsertEdge(t, d, "LINKS_TO", article("center"), article(fmt.Sprintf("s%d", i)))
	}

	results, err := d.Related(context.Background(), "Article", "center", &RelatedConfig{Budget: 3, MaxHops: 6, MaxCost: 3.0})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results (budget), got %d", len(results))
	}
}

func TestRelated_MaxHopsCutoff(t *testing.T) {
	d := setupTestDB(t)
	chain := []string{"A", "B", "C", "D", "E"}
	for i := 0; i+1 < len(chain); i++ {
		upsertEdge(t, d, "LINKS_TO", article(chain[i]), article(chain[i+1]))
	}

	results, err := d.Related(context.Background(), "Article", "A", &RelatedConfig{Budget: 20, MaxHops: 2, MaxCost: 3.0})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results within 2 hops, got %d", len(results))
	}
}

func TestRelated_EdgeTypeAllowlist(t *testing.T) {
	d := setupTestDB(t)
	upsertEdge(t, d, "LINKS_TO", article("A"), article("B"))
	upsertEdge(t, d, "CATEGORIZED_AS", article("A"), category("Cats"))

	config := DefaultRelatedConfig()
	config.EdgeTypes = []string{"CATEGORIZED_AS"}
	results, err := d.Related(context.Background(), "Article", "A", config)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Label != "Category" {
		t.Errorf("expected only the category, got %+v", results)
	}
}

func TestRelated_UnknownSource(t *testing.T) {
	d := setupTestDB(t)
	if _, err := d.Related(context.Background(), "Article", "nowhere", nil); err == nil {
		t.Error("expected error for unknown source")
	}
}

func TestRelated_StoreErrorSurfaces(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	upsertEdge(t, d, "LINKS_TO", article("A"), article("B"))

	if _, err := d.Conn().ExecContext(ctx, `UPDATE nodes SET props = 'not json' WHERE key = 'B'`); err != nil {
		t.Fatal(err)
	}

	results, err := d.Related(ctx, "Article", "A", nil)
	if err == nil {
		t.Fatalf("a broken neighbor should fail the expansion, got %+v", results)
	}
}

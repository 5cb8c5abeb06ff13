package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/polok-dev98/agentpro/pkg/chunk"
	"github.com/polok-dev98/agentpro/pkg/common"
	"github.com/polok-dev98/agentpro/pkg/store"
)

// fakeGraphStore serves scripted fulltext hits and neighborhoods.
type fakeGraphStore struct {
	hits      map[string][]store.SearchHit
	triples   map[string][]store.Triple
	searchErr error
	queries   []string
	excludes  []string
	limits    []int
}

func (f *fakeGraphStore) AddDocuments(ctx context.Context, docs []common.GraphDocument) error {
	return nil
}

func (f *fakeGraphStore) FulltextSearch(ctx context.Context, index string, query string, limit int) ([]store.SearchHit, error) {
	f.queries = append(f.queries, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	hits := f.hits[query]
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (f *fakeGraphStore) Neighborhood(ctx context.Context, nodeID string, exclude string, limit int) ([]store.Triple, error) {
	f.excludes = append(f.excludes, exclude)
	f.limits = append(f.limits, limit)
	triples := f.triples[nodeID]
	if len(triples) > limit {
		triples = triples[:limit]
	}
	return triples, nil
}

func (f *fakeGraphStore) ListChunks(ctx context.Context) ([]chunk.Chunk, error) {
	return nil, nil
}

func (f *fakeGraphStore) DeleteAll(ctx context.Context) error {
	return nil
}

func TestStructuredRetrieval(t *testing.T) {
	t.Parallel()

	graph := &fakeGraphStore{
		hits: map[string][]store.SearchHit{
			"Acme~2 AND Corp~2": {{NodeID: "Acme Corp", Score: 2.5}},
		},
		triples: map[string][]store.Triple{
			"Acme Corp": {
				{Source: "Acme Corp", Type: "SIGNED_DEAL_WITH", Target: "Globex"},
				{Source: "John Doe", Type: "WORKS_FOR", Target: "Acme Corp"},
			},
		},
	}

	got, err := StructuredRetrieval(context.Background(), graph, []string{"Acme Corp"})
	if err != nil {
		t.Fatalf("StructuredRetrieval: %v", err)
	}

	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 triples, got %d: %q", len(lines), got)
	}
	if lines[0] != "Acme Corp - SIGNED_DEAL_WITH -> Globex" {
		t.Fatalf("line 0 = %q", lines[0])
	}
	if lines[1] != "John Doe - WORKS_FOR -> Acme Corp" {
		t.Fatalf("line 1 = %q", lines[1])
	}

	// Provenance edges must be excluded from every neighborhood walk.
	for _, exclude := range graph.excludes {
		if exclude != store.MentionsRelation {
			t.Fatalf("neighborhood exclude = %q, want %q", exclude, store.MentionsRelation)
		}
	}
}

func TestStructuredRetrievalFuzzyQueries(t *testing.T) {
	t.Parallel()

	graph := &fakeGraphStore{}
	_, err := StructuredRetrieval(context.Background(), graph, []string{"Acme Corp", "Globex"})
	if err != nil {
		t.Fatalf("StructuredRetrieval: %v", err)
	}

	want := []string{"Acme~2 AND Corp~2", "Globex~2"}
	if len(graph.queries) != len(want) {
		t.Fatalf("queries = %v, want %v", graph.queries, want)
	}
	for i, q := range graph.queries {
		if q != want[i] {
			t.Fatalf("query %d = %q, want %q", i, q, want[i])
		}
	}
}

func TestStructuredRetrievalTripleBudgetPerEntity(t *testing.T) {
	t.Parallel()

	manyTriples := func(prefix string, n int) []store.Triple {
		triples := make([]store.Triple, n)
		for i := range triples {
			triples[i] = store.Triple{
				Source: fmt.Sprintf("%s-src-%d", prefix, i),
				Type:   "RELATED_TO",
				Target: fmt.Sprintf("%s-dst-%d", prefix, i),
			}
		}
		return triples
	}

	// Two matched nodes with 30 triples each: the entity total must stop at
	// 50, so the second walk only gets the remaining budget.
	graph := &fakeGraphStore{
		hits: map[string][]store.SearchHit{
			"Acme~2 AND Corp~2": {
				{NodeID: "node-a", Score: 2.5},
				{NodeID: "node-b", Score: 1.5},
			},
		},
		triples: map[string][]store.Triple{
			"node-a": manyTriples("a", 30),
			"node-b": manyTriples("b", 30),
		},
	}

	got, err := StructuredRetrieval(context.Background(), graph, []string{"Acme Corp"})
	if err != nil {
		t.Fatalf("StructuredRetrieval: %v", err)
	}

	lines := strings.Split(got, "\n")
	if len(lines) != 50 {
		t.Fatalf("expected 50 triples for one entity, got %d", len(lines))
	}
	if want := []int{50, 20}; len(graph.limits) != 2 || graph.limits[0] != want[0] || graph.limits[1] != want[1] {
		t.Fatalf("neighborhood limits = %v, want %v", graph.limits, want)
	}
	if !strings.Contains(got, "a-src-29") || !strings.Contains(got, "b-src-19") {
		t.Fatalf("budget cut the wrong triples: %q", lines[len(lines)-1])
	}
	if strings.Contains(got, "b-src-20") {
		t.Fatal("triples past the entity budget leaked into the context")
	}
}

func TestStructuredRetrievalSkipsBlankEntities(t *testing.T) {
	t.Parallel()

	graph := &fakeGraphStore{}
	got, err := StructuredRetrieval(context.Background(), graph, []string{"", "   ", `+()`})
	if err != nil {
		t.Fatalf("StructuredRetrieval: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
	if len(graph.queries) != 0 {
		t.Fatalf("no lookups expected, got %v", graph.queries)
	}
}

func TestStructuredRetrievalLookupFailure(t *testing.T) {
	t.Parallel()

	graph := &fakeGraphStore{searchErr: errors.New("index offline")}
	got, err := StructuredRetrieval(context.Background(), graph, []string{"Acme Corp"})
	if err == nil {
		t.Fatal("expected error when every lookup fails")
	}
	// Failed lookups must never leak error text into the context.
	if strings.Contains(got, "index offline") {
		t.Fatalf("error text leaked into context: %q", got)
	}
	if got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
}

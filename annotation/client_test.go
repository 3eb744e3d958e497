package annotation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient(t *testing.T) {
	c := NewClient()
	if c.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL, DefaultBaseURL)
	}
	if c.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d, want %d", c.BatchSize, DefaultBatchSize)
	}

	c = NewClient(WithBaseURL("https://example.com/v3/"), WithBatchSize(2))
	if c.BaseURL != "https://example.com/v3" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", c.BaseURL)
	}
	if c.BatchSize != 2 {
		t.Errorf("BatchSize = %d, want 2", c.BatchSize)
	}
}

func TestClient_MapSymbols(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Method = %q, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		if got := r.PostForm.Get("scopes"); got != "symbol" {
			t.Errorf("scopes = %q, want symbol", got)
		}
		if got := r.PostForm.Get("species"); got != "human" {
			t.Errorf("species = %q, want human", got)
		}

		// One clean hit, one numeric ID, one unknown symbol, and a
		// duplicate hit for an already-answered query.
		body := `[
			{"query": "IL6", "entrezgene": "3569"},
			{"query": "CCL5", "entrezgene": 6352},
			{"query": "NOTAGENE", "notfound": true},
			{"query": "IL6", "entrezgene": "999"}
		]`
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("writing response: %v", err)
		}
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))

	genes, err := c.MapSymbols(context.Background(), []string{"IL6", "CCL5", "NOTAGENE"}, "human")
	if err != nil {
		t.Fatalf("MapSymbols() error = %v", err)
	}

	want := []Gene{
		{Symbol: "IL6", GeneID: "3569"},
		{Symbol: "CCL5", GeneID: "6352"},
	}
	if len(genes) != len(want) {
		t.Fatalf("len(genes) = %d, want %d", len(genes), len(want))
	}
	for i, g := range genes {
		if g != want[i] {
			t.Errorf("genes[%d] = %+v, want %+v", i, g, want[i])
		}
	}
}

func TestClient_MapSymbols_Batches(t *testing.T) {
	var batches []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		q := r.PostForm.Get("q")
		batches = append(batches, q)

		var hits []map[string]any
		for i, sym := range strings.Split(q, ",") {
			hits = append(hits, map[string]any{"query": sym, "entrezgene": 1000 + i})
		}
		if err := json.NewEncoder(w).Encode(hits); err != nil {
			t.Fatalf("encoding response: %v", err)
		}
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithBatchSize(2))

	genes, err := c.MapSymbols(context.Background(), []string{"A", "B", "C", "D", "E"}, "human")
	if err != nil {
		t.Fatalf("MapSymbols() error = %v", err)
	}

	if len(batches) != 3 {
		t.Fatalf("len(batches) = %d, want 3", len(batches))
	}
	if batches[0] != "A,B" || batches[1] != "C,D" || batches[2] != "E" {
		t.Errorf("batches = %v, want [A,B C,D E]", batches)
	}
	if len(genes) != 5 {
		t.Errorf("len(genes) = %d, want 5", len(genes))
	}
}

func TestClient_MapSymbols_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))
	if _, err := c.MapSymbols(context.Background(), []string{"IL6"}, "human"); err == nil {
		t.Error("MapSymbols() should propagate HTTP errors")
	}
}

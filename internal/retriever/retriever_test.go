package retriever

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jmcampos/techexpert/internal/db"
	"github.com/jmcampos/techexpert/internal/store"
)

func newTestRetriever(t *testing.T) (*Retriever, *store.Store) {
	t.Helper()
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	s := store.New(d)
	r, err := New(s)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return r, s
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"basic", "How does BGP work", []string{"bgp", "does", "how", "work"}},
		{"short tokens dropped", "is it up", nil},
		{"duplicates collapsed", "BGP bgp Bgp", []string{"bgp"}},
		{"punctuation split", "dns, firewall; nat!", []string{"dns", "firewall", "nat"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestRetrieveNoKeywords(t *testing.T) {
	r, _ := newTestRetriever(t)

	got, err := r.Retrieve(context.Background(), "is it ok")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty context, got %q", got)
	}
}

func TestRetrieveRanksByOccurrenceCount(t *testing.T) {
	r, s := newTestRetriever(t)
	ctx := context.Background()

	s.Save(ctx, "heavy.txt", "BGP BGP BGP is everywhere in this paragraph.")
	s.Save(ctx, "light.txt", "BGP appears once here.")

	got, err := r.Retrieve(ctx, "how does BGP work")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	heavy := strings.Index(got, "heavy.txt")
	light := strings.Index(got, "light.txt")
	if heavy < 0 || light < 0 {
		t.Fatalf("expected both files in context, got:\n%s", got)
	}
	if heavy > light {
		t.Errorf("expected heavy.txt ranked above light.txt:\n%s", got)
	}
}

func TestRetrieveTopThreeOnly(t *testing.T) {
	r, s := newTestRetriever(t)
	ctx := context.Background()

	// Five paragraphs in one document, each mentioning the keyword a
	// different number of times.
	var paras []string
	for i := 1; i <= 5; i++ {
		paras = append(paras, strings.Repeat("firewall ", i)+fmt.Sprintf("paragraph %d", i))
	}
	s.Save(ctx, "fw.txt", strings.Join(paras, "\n\n"))

	got, err := r.Retrieve(ctx, "configure the firewall")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	if n := strings.Count(got, "TRECHO RELEVANTE"); n != 3 {
		t.Errorf("expected 3 snippets, got %d:\n%s", n, got)
	}
	// The highest-count paragraphs survive.
	for _, want := range []string{"paragraph 5", "paragraph 4", "paragraph 3"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in context:\n%s", want, got)
		}
	}
	if strings.Contains(got, "paragraph 1") {
		t.Errorf("lowest-scoring paragraph should be dropped:\n%s", got)
	}
}

func TestRetrieveTieBrokenByKeywordDiversity(t *testing.T) {
	r, s := newTestRetriever(t)
	ctx := context.Background()

	// Both paragraphs score 2, but the second hits two distinct keywords.
	s.Save(ctx, "tie.txt", "vlan vlan only here\n\nvlan and trunk together")

	got, err := r.Retrieve(ctx, "vlan trunk setup")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	diverse := strings.Index(got, "vlan and trunk together")
	repeat := strings.Index(got, "vlan vlan only here")
	if diverse < 0 || repeat < 0 {
		t.Fatalf("expected both paragraphs in context:\n%s", got)
	}
	if diverse > repeat {
		t.Errorf("expected diverse paragraph ranked first:\n%s", got)
	}
}

func TestRetrieveFormat(t *testing.T) {
	r, s := newTestRetriever(t)
	ctx := context.Background()

	s.Save(ctx, "ospf.txt", "OSPF uses link state advertisements.")

	got, err := r.Retrieve(ctx, "explain OSPF")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	want := "FICHEIRO: ospf.txt\nTRECHO RELEVANTE:\n---\nOSPF uses link state advertisements.\n---"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRetrieveCacheInvalidatedByDelete(t *testing.T) {
	r, s := newTestRetriever(t)
	ctx := context.Background()

	id, _ := s.Save(ctx, "mpls.txt", "MPLS label switching details.")

	first, err := r.Retrieve(ctx, "what is MPLS")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if first == "" {
		t.Fatal("expected non-empty context before delete")
	}

	if _, err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	second, err := r.Retrieve(ctx, "what is MPLS")
	if err != nil {
		t.Fatalf("Retrieve after delete failed: %v", err)
	}
	if second != "" {
		t.Errorf("expected empty context after delete, got:\n%s", second)
	}
}

type failingScanner struct{}

func (failingScanner) ScanByKeywords(context.Context, []string) ([]store.Match, error) {
	return nil, errors.New("disk on fire")
}

func (failingScanner) Generation() uint64 { return 0 }

func TestRetrieveScanError(t *testing.T) {
	r, err := New(failingScanner{})
	if err != nil {
		t.Fatal(err)
	}

	got, err := r.Retrieve(context.Background(), "anything relevant")
	if err == nil {
		t.Fatal("expected scan error to surface")
	}
	if got != "" {
		t.Errorf("expected empty context on scan error, got %q", got)
	}
}

// Package retriever turns a free-text question into a bounded context block
// excerpted from the knowledge base, using keyword scoring over paragraphs.
package retriever

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/jmcampos/techexpert/internal/store"
)

// maxSnippets is how many top-scoring paragraphs make it into the context.
const maxSnippets = 3

// cacheSize bounds the query result cache.
const cacheSize = 100

var keywordPattern = regexp.MustCompile(`\b\w{3,}\b`)

// Scanner is the slice of the document store the retriever needs.
type Scanner interface {
	ScanByKeywords(ctx context.Context, keywords []string) ([]store.Match, error)
	Generation() uint64
}

// Snippet is one scored paragraph from a stored document.
type Snippet struct {
	Filename         string
	Text             string
	Score            int
	DistinctKeywords int
}

type cacheKey struct {
	generation uint64
	query      string
}

// Retriever scores and ranks knowledge-base paragraphs against a query.
// Results are cached per (store generation, query), so any document insert
// or delete implicitly invalidates every cached entry.
type Retriever struct {
	scanner Scanner
	cache   *lru.Cache[cacheKey, string]
}

// New creates a Retriever backed by the given document scanner.
func New(scanner Scanner) (*Retriever, error) {
	cache, err := lru.New[cacheKey, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating retrieval cache: %w", err)
	}
	return &Retriever{scanner: scanner, cache: cache}, nil
}

// Retrieve returns a formatted context block for the query, or the empty
// string when nothing relevant is stored. An empty result is not an error;
// a non-nil error means the storage scan failed and the caller should treat
// the context as absent.
func (r *Retriever) Retrieve(ctx context.Context, query string) (string, error) {
	keywords := ExtractKeywords(query)
	if len(keywords) == 0 {
		log.Debug().Str("query", query).Msg("no usable keywords in query")
		return "", nil
	}

	key := cacheKey{generation: r.scanner.Generation(), query: query}
	if cached, ok := r.cache.Get(key); ok {
		log.Debug().Str("query", query).Msg("retrieval cache hit")
		return cached, nil
	}

	matches, err := r.scanner.ScanByKeywords(ctx, keywords)
	if err != nil {
		return "", fmt.Errorf("knowledge base scan: %w", err)
	}

	snippets := rankParagraphs(matches, keywords)
	context := formatContext(snippets)

	r.cache.Add(key, context)
	log.Debug().
		Int("keywords", len(keywords)).
		Int("snippets", len(snippets)).
		Msg("knowledge base context built")
	return context, nil
}

// ExtractKeywords lowercases the query and returns its distinct word tokens
// of three or more characters. Order is normalized for deterministic scans.
func ExtractKeywords(query string) []string {
	tokens := keywordPattern.FindAllString(strings.ToLower(query), -1)
	seen := make(map[string]struct{}, len(tokens))
	var keywords []string
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	sort.Strings(keywords)
	return keywords
}

// rankParagraphs splits each matched document into paragraphs, scores them
// by keyword occurrences, and returns the top snippets in descending
// (score, distinct keyword) order. Paragraphs with no hits are dropped.
func rankParagraphs(matches []store.Match, keywords []string) []Snippet {
	var snippets []Snippet
	for _, m := range matches {
		for _, para := range strings.Split(m.Content, "\n\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}

			lower := strings.ToLower(para)
			score, distinct := 0, 0
			for _, kw := range keywords {
				if n := strings.Count(lower, kw); n > 0 {
					score += n
					distinct++
				}
			}
			if score == 0 {
				continue
			}
			snippets = append(snippets, Snippet{
				Filename:         m.Filename,
				Text:             para,
				Score:            score,
				DistinctKeywords: distinct,
			})
		}
	}

	sort.Slice(snippets, func(i, j int) bool {
		if snippets[i].Score != snippets[j].Score {
			return snippets[i].Score > snippets[j].Score
		}
		return snippets[i].DistinctKeywords > snippets[j].DistinctKeywords
	})

	if len(snippets) > maxSnippets {
		snippets = snippets[:maxSnippets]
	}
	return snippets
}

// formatContext renders snippets in the block format the prompt expects.
func formatContext(snippets []Snippet) string {
	if len(snippets) == 0 {
		return ""
	}
	parts := make([]string, 0, len(snippets))
	for _, s := range snippets {
		parts = append(parts, fmt.Sprintf("FICHEIRO: %s\nTRECHO RELEVANTE:\n---\n%s\n---", s.Filename, s.Text))
	}
	return strings.Join(parts, "\n\n")
}

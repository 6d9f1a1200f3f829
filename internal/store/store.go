package store

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jmcampos/techexpert/internal/db"
)

const timestampLayout = "2006-01-02 15:04:05"

// Document is a stored knowledge-base document.
type Document struct {
	ID        int64
	Filename  string
	Content   string
	Timestamp time.Time
}

// DocumentInfo is the listing view of a document, without its content.
type DocumentInfo struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
}

// Match is a (filename, content) pair returned by a keyword scan.
type Match struct {
	Filename string
	Content  string
}

// Store manages persistence of knowledge-base documents and usage metrics.
// Every insert or delete bumps an in-process generation counter so that
// caches keyed on (generation, query) go stale the moment the corpus changes.
type Store struct {
	db         *db.DB
	generation atomic.Uint64
}

// New creates a new document store.
func New(database *db.DB) *Store {
	return &Store{db: database}
}

// Generation returns the current document-store generation. The counter
// starts at zero on process start and only moves forward.
func (s *Store) Generation() uint64 {
	return s.generation.Load()
}

// Save inserts a new document and returns its assigned id.
func (s *Store) Save(ctx context.Context, filename, content string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (filename, content, timestamp) VALUES (?, ?, ?)`,
		filename, content, time.Now().Format(timestampLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading document id: %w", err)
	}
	s.generation.Add(1)
	return id, nil
}

// List returns all documents, newest first, without their content.
func (s *Store) List(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, timestamp FROM documents ORDER BY timestamp DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentInfo
	for rows.Next() {
		var d DocumentInfo
		var ts string
		if err := rows.Scan(&d.ID, &d.Filename, &ts); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if t, err := time.Parse(timestampLayout, ts); err == nil {
			d.Timestamp = t
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Delete removes a document by id. Returns true if a row was deleted.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting document %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking delete result: %w", err)
	}
	s.generation.Add(1)
	return n > 0, nil
}

// ScanByKeywords returns every document whose content contains at least one
// of the given keywords, case-insensitively. The scan is a single disjunctive
// query so the database is hit once regardless of keyword count.
func (s *Store) ScanByKeywords(ctx context.Context, keywords []string) ([]Match, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	conds := make([]string, 0, len(keywords))
	args := make([]any, 0, len(keywords))
	for _, kw := range keywords {
		conds = append(conds, `content LIKE ? ESCAPE '\' COLLATE NOCASE`)
		args = append(args, "%"+escapeLike(kw)+"%")
	}

	query := `SELECT filename, content FROM documents WHERE ` + strings.Join(conds, " OR ")

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scanning documents: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.Filename, &m.Content); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// escapeLike escapes LIKE metacharacters so keywords match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// LogMetric records a usage metric for one chat request.
func (s *Store) LogMetric(ctx context.Context, responseTime time.Duration, usedKnowledgeBase bool, profile string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO metrics (timestamp, response_time, used_knowledge_base, profile_used) VALUES (?, ?, ?, ?)`,
		time.Now().Format(timestampLayout), responseTime.Seconds(), usedKnowledgeBase, profile,
	)
	if err != nil {
		return fmt.Errorf("inserting metric: %w", err)
	}
	return nil
}

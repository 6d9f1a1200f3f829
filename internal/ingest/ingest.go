// Package ingest loads .txt and .pdf documents into the knowledge base.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jmcampos/techexpert/internal/extract"
	"github.com/jmcampos/techexpert/internal/progress"
)

// Saver persists one extracted document.
type Saver interface {
	Save(ctx context.Context, filename, content string) (int64, error)
}

// FileError records one file that could not be ingested.
type FileError struct {
	Path string
	Err  error
}

// Summary reports the outcome of a batch ingestion.
type Summary struct {
	Ingested int
	Failed   []FileError
}

// Options controls directory discovery.
type Options struct {
	Include []string // glob patterns; empty means every supported file
	Exclude []string // glob patterns; empty means nothing excluded
}

// Ingestor extracts text from files and stores it.
type Ingestor struct {
	saver Saver
}

func New(saver Saver) *Ingestor {
	return &Ingestor{saver: saver}
}

// File ingests a single document and returns its stored id.
func (ing *Ingestor) File(ctx context.Context, path string) (int64, error) {
	content, err := extract.FromFile(path)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(content) == "" {
		return 0, fmt.Errorf("no text could be extracted from %q", filepath.Base(path))
	}

	id, err := ing.saver.Save(ctx, filepath.Base(path), content)
	if err != nil {
		return 0, fmt.Errorf("saving %q: %w", filepath.Base(path), err)
	}
	return id, nil
}

// Paths ingests each file in turn. A failed file is recorded in the summary
// and does not abort the rest of the batch.
func (ing *Ingestor) Paths(ctx context.Context, paths []string, reporter progress.Reporter) (Summary, error) {
	if reporter == nil {
		reporter = progress.NilReporter{}
	}

	var summary Summary
	reporter.Start(len(paths))
	defer reporter.Finish()

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		reporter.Update(i+1, filepath.Base(path))

		if _, err := ing.File(ctx, path); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping file")
			summary.Failed = append(summary.Failed, FileError{Path: path, Err: err})
			continue
		}
		summary.Ingested++
	}

	return summary, nil
}

// Dir discovers supported files under root and ingests them.
func (ing *Ingestor) Dir(ctx context.Context, root string, opts Options, reporter progress.Reporter) (Summary, error) {
	paths, err := Discover(root, opts)
	if err != nil {
		return Summary{}, err
	}
	return ing.Paths(ctx, paths, reporter)
}

// Discover walks root and returns the supported files that pass the
// include/exclude filters, in walk order.
func Discover(root string, opts Options) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	var paths []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		if d.IsDir() {
			if d.Name() != "." && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !extract.Supported(path) {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		if !matchesInclude(relPath, opts.Include) || matchesExclude(relPath, opts.Exclude) {
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %q: %w", root, err)
	}

	return paths, nil
}

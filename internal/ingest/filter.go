package ingest

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// matchesInclude returns true if relPath matches any include pattern.
// Empty patterns include everything.
func matchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// matchesExclude returns true if relPath matches any exclude pattern.
// Empty patterns exclude nothing.
func matchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// matchesAny checks relPath against each glob pattern, matching both the
// full relative path and the bare filename. Uses doublestar for ** support.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}

		base := filepath.Base(normalized)
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

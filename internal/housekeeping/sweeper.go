// Package housekeeping removes transient debug artifacts some fetch
// strategies leave behind. Every operation is best effort.
package housekeeping

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"metagrab/internal/metrics"
)

// Sweeper deletes files matching Patterns inside Dir.
type Sweeper struct {
	Dir      string
	Patterns []string
	Delay    time.Duration
	Logger   *slog.Logger
}

// Schedule runs Sweep on its own goroutine after Delay, giving the writer
// of the artifacts time to finish. The returned channel is closed once
// the sweep has run.
func (s *Sweeper) Schedule() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if s.Delay > 0 {
			time.Sleep(s.Delay)
		}
		s.Sweep()
	}()
	return done
}

// Sweep removes matching files now and returns how many were deleted.
// Missing, locked or otherwise undeletable files are skipped.
func (s *Sweeper) Sweep() int {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}

	removed := 0
	for _, pattern := range s.Patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			s.debug("bad cleanup pattern", "pattern", pattern, "error", err)
			continue
		}
		for _, path := range matches {
			info, err := os.Lstat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			if err := os.Remove(path); err != nil {
				s.debug("cleanup skipped file", "path", path, "error", err)
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		metrics.RecordCleanup(removed)
		s.debug("cleanup removed debug files", "count", removed, "dir", dir)
	}
	return removed
}

func (s *Sweeper) debug(msg string, args ...any) {
	if s.Logger != nil {
		s.Logger.Debug(msg, args...)
	}
}

// Package cache persists the merged country table keyed by a fingerprint of
// the source CSVs. A fingerprint mismatch, a missing artifact, or a corrupt
// artifact all mean the same thing: rebuild.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"globescope/internal/dataset"
	"globescope/internal/utils"
)

// Fingerprint hashes the identity and content of every source file into one
// hex digest. Order of the input paths does not matter.
func Fingerprint(paths []string) (string, error) {
	type entry struct{ name, sum string }
	entries := make([]entry, 0, len(paths))
	for _, p := range paths {
		sum, err := utils.HashFile(p)
		if err != nil {
			return "", fmt.Errorf("fingerprint: %w", err)
		}
		entries = append(entries, entry{name: filepath.Base(p), sum: sum})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	h := sha256.New()
	for _, e := range entries {
		fmt.Fprintf(h, "%s\x00%s\x00", e.name, e.sum)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// artifact is the on-disk cache format. The embedded fingerprint guards
// against an artifact renamed or copied under the wrong key.
type artifact struct {
	Fingerprint string         `json:"fingerprint"`
	BuiltAt     time.Time      `json:"built_at"`
	Table       *dataset.Table `json:"table"`
}

// BuildFunc produces the merged table when the cache cannot serve it.
type BuildFunc func() (*dataset.Table, error)

// Store reads and writes cached tables under a single directory.
type Store struct {
	dir   string
	log   *zap.Logger
	group singleflight.Group
}

// NewStore returns a store rooted at dir, creating it if needed.
func NewStore(dir string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

func (s *Store) path(fingerprint string) string {
	return filepath.Join(s.dir, fingerprint+".json")
}

// Get returns the cached table for a fingerprint, or ok=false on any miss.
// An unreadable or mismatched artifact is logged and treated as a miss, never
// surfaced as an error.
func (s *Store) Get(fingerprint string) (*dataset.Table, bool) {
	data, err := os.ReadFile(s.path(fingerprint))
	if err != nil {
		return nil, false
	}
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		s.log.Warn("corrupt cache artifact",
			zap.String("fingerprint", fingerprint),
			zap.Error(err))
		return nil, false
	}
	if a.Fingerprint != fingerprint || a.Table == nil {
		s.log.Warn("cache artifact does not match its key",
			zap.String("fingerprint", fingerprint))
		return nil, false
	}
	return a.Table, true
}

// Put writes the table under the fingerprint atomically.
func (s *Store) Put(fingerprint string, table *dataset.Table) error {
	a := artifact{Fingerprint: fingerprint, BuiltAt: time.Now().UTC(), Table: table}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode cache artifact: %w", err)
	}
	if err := utils.SafeWriteFile(s.path(fingerprint), data); err != nil {
		return fmt.Errorf("write cache artifact: %w", err)
	}
	return nil
}

// GetOrBuild serves the cached table or runs build exactly once per
// fingerprint, even under concurrent callers. A failed Put does not fail the
// call; the freshly built table is still returned.
func (s *Store) GetOrBuild(fingerprint string, build BuildFunc) (*dataset.Table, error) {
	if table, ok := s.Get(fingerprint); ok {
		s.log.Debug("cache hit", zap.String("fingerprint", fingerprint))
		return table, nil
	}

	v, err, _ := s.group.Do(fingerprint, func() (any, error) {
		// Re-check inside the flight: another caller may have just built it.
		if table, ok := s.Get(fingerprint); ok {
			return table, nil
		}
		s.log.Info("cache miss, building table", zap.String("fingerprint", fingerprint))
		table, err := build()
		if err != nil {
			return nil, err
		}
		if err := s.Put(fingerprint, table); err != nil {
			s.log.Warn("could not persist cache artifact", zap.Error(err))
		}
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dataset.Table), nil
}

// Invalidate removes the artifact for one fingerprint. Removing an absent
// artifact is not an error.
func (s *Store) Invalidate(fingerprint string) error {
	err := os.Remove(s.path(fingerprint))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("invalidate: %w", err)
	}
	return nil
}

// Clear removes every cached artifact in the store directory.
func (s *Store) Clear() error {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
	}
	return nil
}

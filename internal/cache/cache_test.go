package cache

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"globescope/internal/dataset"
)

func testTable(t *testing.T) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable([]*dataset.CountryRecord{
		{
			ID:        "France",
			Continent: "Europe",
			Tier:      dataset.TierHigh,
			Metrics: map[string]dataset.Value{
				"Real_GDP_per_Capita_USD": dataset.Present(42000),
				"Total_Population":        dataset.Absent(),
			},
		},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestFingerprintIsContentDerived(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte("Country,X\nFrance,1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	fp1, err := Fingerprint([]string{a, b})
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	fp2, err := Fingerprint([]string{b, a})
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if fp1 != fp2 {
		t.Error("fingerprint must not depend on path order")
	}

	// Touching mtime alone must not change the fingerprint; changing content must.
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(a, later, later); err != nil {
		t.Fatal(err)
	}
	fp3, _ := Fingerprint([]string{a, b})
	if fp3 != fp1 {
		t.Error("fingerprint changed on mtime-only touch")
	}
	if err := os.WriteFile(a, []byte("Country,X\nFrance,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fp4, _ := Fingerprint([]string{a, b})
	if fp4 == fp1 {
		t.Error("fingerprint unchanged after content edit")
	}
}

func TestGetOrBuildCachesAcrossCalls(t *testing.T) {
	s, err := NewStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	want := testTable(t)

	var builds int32
	build := func() (*dataset.Table, error) {
		atomic.AddInt32(&builds, 1)
		return want, nil
	}

	got, err := s.GetOrBuild("fp-1", build)
	if err != nil {
		t.Fatalf("GetOrBuild: %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("table len = %d", got.Len())
	}

	// Second call must be served from disk.
	got, err = s.GetOrBuild("fp-1", build)
	if err != nil {
		t.Fatalf("GetOrBuild: %v", err)
	}
	if n := atomic.LoadInt32(&builds); n != 1 {
		t.Errorf("builds = %d, want 1", n)
	}

	rec, ok := got.Get("France")
	if !ok {
		t.Fatal("France missing after cache round trip")
	}
	if rec.Metrics["Total_Population"].IsPresent() {
		t.Error("absent value resurfaced as present")
	}
	if v, _ := rec.Metrics["Real_GDP_per_Capita_USD"].Float(); v != 42000 {
		t.Errorf("GDP = %v", v)
	}
}

func TestCorruptArtifactIsAMiss(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := s.GetOrBuild("fp-2", func() (*dataset.Table, error) { return testTable(t), nil }); err != nil {
		t.Fatalf("GetOrBuild: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "fp-2.json"), []byte("{truncated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get("fp-2"); ok {
		t.Error("corrupt artifact served as a hit")
	}

	var builds int32
	if _, err := s.GetOrBuild("fp-2", func() (*dataset.Table, error) {
		atomic.AddInt32(&builds, 1)
		return testTable(t), nil
	}); err != nil {
		t.Fatalf("GetOrBuild after corruption: %v", err)
	}
	if builds != 1 {
		t.Errorf("builds = %d, want 1 rebuild", builds)
	}
}

func TestMismatchedFingerprintIsAMiss(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.Put("fp-real", testTable(t)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	// Copy the artifact under a different key.
	data, err := os.ReadFile(filepath.Join(dir, "fp-real.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "fp-other.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get("fp-other"); ok {
		t.Error("artifact with embedded mismatching fingerprint served as a hit")
	}
}

func TestGetOrBuildConcurrentBuildsOnce(t *testing.T) {
	s, err := NewStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	var builds int32
	build := func() (*dataset.Table, error) {
		atomic.AddInt32(&builds, 1)
		return testTable(t), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.GetOrBuild("fp-3", build); err != nil {
				t.Errorf("GetOrBuild: %v", err)
			}
		}()
	}
	wg.Wait()
	if n := atomic.LoadInt32(&builds); n != 1 {
		t.Errorf("builds = %d, want 1", n)
	}
}

func TestInvalidateAndClear(t *testing.T) {
	s, err := NewStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.Put("fp-a", testTable(t)); err != nil {
		t.Fatal(err)
	}
	if err := s.Put("fp-b", testTable(t)); err != nil {
		t.Fatal(err)
	}

	if err := s.Invalidate("fp-a"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok := s.Get("fp-a"); ok {
		t.Error("fp-a survived invalidation")
	}
	if _, ok := s.Get("fp-b"); !ok {
		t.Error("fp-b lost to a targeted invalidation")
	}
	if err := s.Invalidate("fp-a"); err != nil {
		t.Errorf("double invalidation should be a no-op, got %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := s.Get("fp-b"); ok {
		t.Error("fp-b survived Clear")
	}
}

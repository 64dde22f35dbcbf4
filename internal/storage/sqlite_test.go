package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-blocka/internal/puzzle"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreRecordRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.Record("record_lvl_1"); err != nil || ok {
		t.Fatalf("Record() on empty store = ok %v, err %v", ok, err)
	}

	if err := store.SetRecord("record_lvl_1", "01:00.000"); err != nil {
		t.Fatalf("SetRecord() failed: %v", err)
	}
	if err := store.SetRecord("record_lvl_1", "00:42.123"); err != nil {
		t.Fatalf("SetRecord() overwrite failed: %v", err)
	}

	value, ok, err := store.Record("record_lvl_1")
	if err != nil || !ok {
		t.Fatalf("Record() = ok %v, err %v", ok, err)
	}
	if value != "00:42.123" {
		t.Errorf("Record() = %q, want 00:42.123", value)
	}
}

func TestStoreRecordsListing(t *testing.T) {
	store := openTestStore(t)

	for key, value := range map[string]string{
		"record_lvl_3": "00:10.000",
		"record_lvl_1": "00:30.500",
		"record_lvl_2": "00:20.250",
	} {
		if err := store.SetRecord(key, value); err != nil {
			t.Fatalf("SetRecord(%s) failed: %v", key, err)
		}
	}

	entries, err := store.Records()
	if err != nil {
		t.Fatalf("Records() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(entries))
	}
	for i, want := range []string{"record_lvl_1", "record_lvl_2", "record_lvl_3"} {
		if entries[i].Key != want {
			t.Errorf("entries[%d].Key = %s, want %s", i, entries[i].Key, want)
		}
	}
	if entries[0].UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}
}

func TestStoreSolveHistory(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	solves := []puzzle.Solve{
		{Level: 0, Name: "Grayscale", Pieces: 4, Image: "builtin:sunset", Elapsed: 12 * time.Second, At: base},
		{Level: 0, Name: "Grayscale", Pieces: 4, Image: "builtin:waves", Elapsed: 8500 * time.Millisecond, At: base.Add(time.Minute)},
		{Level: 1, Name: "Dim", Pieces: 9, Image: "builtin:compass", Elapsed: 19 * time.Second, At: base.Add(2 * time.Minute)},
	}
	for _, s := range solves {
		if err := store.LogSolve(s); err != nil {
			t.Fatalf("LogSolve() failed: %v", err)
		}
	}

	recent, err := store.RecentSolves(2)
	if err != nil {
		t.Fatalf("RecentSolves() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 recent solves, got %d", len(recent))
	}
	if recent[0].Name != "Dim" || recent[0].Pieces != 9 {
		t.Errorf("newest solve = %+v, want the Dim level", recent[0])
	}
	if !recent[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("CreatedAt = %v, want %v", recent[0].CreatedAt, base.Add(2*time.Minute))
	}

	fastest, err := store.FastestSolves(0, 10)
	if err != nil {
		t.Fatalf("FastestSolves() failed: %v", err)
	}
	if len(fastest) != 2 || fastest[0].Elapsed != 8500*time.Millisecond {
		t.Errorf("FastestSolves() = %+v, want 8.5s first", fastest)
	}
}

func TestStoreLevelStats(t *testing.T) {
	store := openTestStore(t)

	for _, ms := range []int{10000, 20000, 30000} {
		if _, err := store.SaveSolve(puzzle.Solve{Level: 2, Pieces: 4, Elapsed: time.Duration(ms) * time.Millisecond}); err != nil {
			t.Fatalf("SaveSolve() failed: %v", err)
		}
	}

	stats, err := store.AllLevelStats()
	if err != nil {
		t.Fatalf("AllLevelStats() failed: %v", err)
	}
	st, ok := stats[2]
	if !ok {
		t.Fatal("Expected stats for level 2")
	}
	if st.Solves != 3 {
		t.Errorf("Solves = %d, want 3", st.Solves)
	}
	if st.Best != 10*time.Second {
		t.Errorf("Best = %v, want 10s", st.Best)
	}
	if st.Average != 20*time.Second {
		t.Errorf("Average = %v, want 20s", st.Average)
	}
	if st.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestStoreClearRecords(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetRecord("record_lvl_1", "00:01.000"); err != nil {
		t.Fatal(err)
	}
	if err := store.LogSolve(puzzle.Solve{Level: 0, Pieces: 4, Elapsed: time.Second}); err != nil {
		t.Fatal(err)
	}

	if err := store.ClearRecords(); err != nil {
		t.Fatalf("ClearRecords() failed: %v", err)
	}

	entries, _ := store.Records()
	if len(entries) != 0 {
		t.Errorf("Expected no records after clear, got %d", len(entries))
	}
	recent, _ := store.RecentSolves(10)
	if len(recent) != 0 {
		t.Errorf("Expected no solves after clear, got %d", len(recent))
	}
}

func TestStoreWithPuzzleRecords(t *testing.T) {
	store := openTestStore(t)

	opts := puzzle.DefaultOptions()
	opts.Records = store
	g, err := puzzle.New(opts)
	if err != nil {
		t.Fatalf("puzzle.New() failed: %v", err)
	}

	saved, err := g.TrySaveRecord(0, 61*time.Second)
	if err != nil || !saved {
		t.Fatalf("TrySaveRecord() = %v, %v", saved, err)
	}
	saved, err = g.TrySaveRecord(0, 62*time.Second)
	if err != nil || saved {
		t.Fatalf("slower TrySaveRecord() = %v, %v; want false", saved, err)
	}

	value, ok := g.Record(0)
	if !ok || value != "01:01.000" {
		t.Errorf("Record(0) = %q, %v; want 01:01.000", value, ok)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

package ledger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFinalizeKeepsMaximum(t *testing.T) {
	l := New(nil, nil)
	if !l.Finalize("alice", 10) {
		t.Fatalf("first score should be recorded")
	}
	if l.Finalize("alice", 7) {
		t.Fatalf("lower score must not replace the best")
	}
	if l.Finalize("alice", 10) {
		t.Fatalf("equal score is not an improvement")
	}
	if !l.Finalize("alice", 12) {
		t.Fatalf("higher score should be recorded")
	}
	if best, ok := l.Best("alice"); !ok || best != 12 {
		t.Fatalf("best = %d,%v want 12", best, ok)
	}
	if !l.Finalize("bob", 0) {
		t.Fatalf("a new name with zero should still be recorded")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	l := New(nil, nil)
	l.Finalize("alice", 5)
	snap := l.Snapshot()
	snap["alice"] = 999
	if best, _ := l.Best("alice"); best != 5 {
		t.Fatalf("mutating snapshot leaked into ledger: %d", best)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "scores.json")
	l := New(NewFileStore(path), nil)
	l.Load(context.Background())
	l.Finalize("alice", 40)
	l.Finalize("bob", 15)
	l.Finalize("alice", 20)

	reloaded := New(NewFileStore(path), nil)
	reloaded.Load(context.Background())
	snap := reloaded.Snapshot()
	if len(snap) != 2 || snap["alice"] != 40 || snap["bob"] != 15 {
		t.Fatalf("reloaded scores = %v, want alice 40 bob 15", snap)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))
	scores, err := fs.Load(context.Background())
	if err != nil || len(scores) != 0 {
		t.Fatalf("missing file = %v, %v; want empty table and no error", scores, err)
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).Load(context.Background()); err == nil {
		t.Fatalf("corrupt file should report an error from the store")
	}

	l := New(NewFileStore(path), nil)
	l.Load(context.Background())
	if len(l.Snapshot()) != 0 {
		t.Fatalf("corrupt file should leave the table empty")
	}
	l.Finalize("carol", 3)

	scores, err := NewFileStore(path).Load(context.Background())
	if err != nil || scores["carol"] != 3 {
		t.Fatalf("after finalize file = %v, %v; want carol 3", scores, err)
	}
}

type failingStore struct{ upserts int }

func (f *failingStore) Load(context.Context) (map[string]int64, error) {
	return nil, errors.New("boom")
}

func (f *failingStore) Upsert(context.Context, string, int64) error {
	f.upserts++
	return errors.New("disk full")
}

func (f *failingStore) Close() error { return nil }

func TestStorageFailureIsNotFatal(t *testing.T) {
	fs := &failingStore{}
	l := New(fs, nil)
	l.Load(context.Background())
	if !l.Finalize("dave", 9) {
		t.Fatalf("in-memory table should still improve when persisting fails")
	}
	if best, _ := l.Best("dave"); best != 9 || fs.upserts != 1 {
		t.Fatalf("best = %d upserts = %d, want 9 and 1", best, fs.upserts)
	}
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("ZONEARENA_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("ZONEARENA_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pg, err := OpenPostgres(ctx, url)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer pg.Close()

	name := "ledger-test-" + t.Name()
	if err := pg.Upsert(ctx, name, 50); err != nil {
		t.Fatal(err)
	}
	if err := pg.Upsert(ctx, name, 20); err != nil {
		t.Fatal(err)
	}
	scores, err := pg.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if scores[name] != 50 {
		t.Fatalf("stored = %d, want 50", scores[name])
	}
	if _, err := pg.db.ExecContext(ctx, `DELETE FROM high_scores WHERE name = $1`, name); err != nil {
		t.Fatal(err)
	}
}

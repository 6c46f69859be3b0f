package vocab

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const testSchema = `
CREATE TABLE words (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    word TEXT NOT NULL UNIQUE,
    transcription TEXT NOT NULL DEFAULT '-',
    translation TEXT NOT NULL DEFAULT '-',
    category TEXT NOT NULL DEFAULT 'new'
);
CREATE INDEX idx_words_category ON words (category);`

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return NewStore(db)
}

func TestCreateUniqueness(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "  Fox ", "лисиця", "/fɒks/")
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	// Any later create of the same word, in any case, reports a duplicate.
	for _, dup := range []string{"fox", "FOX", " fox "} {
		if _, err := store.Create(ctx, dup, "x", "y"); !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("create(%q) = %v, want ErrAlreadyExists", dup, err)
		}
	}

	var n int
	if err := store.db.Get(&n, `SELECT COUNT(*) FROM words WHERE word = 'fox'`); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("stored %d rows for fox, want 1", n)
	}
}

func TestCreateEmptyWord(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Create(context.Background(), "   ", "a", "b"); !errors.Is(err, ErrEmptyWord) {
		t.Fatalf("create empty = %v, want ErrEmptyWord", err)
	}
}

func TestExistsAgreesWithCreate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	found, err := store.Exists(ctx, "cat")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if found {
		t.Fatal("empty store reports cat as existing")
	}

	if _, err := store.Create(ctx, "Cat", "кіт", "/kæt/"); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, probe := range []string{"cat", "CAT", " Cat "} {
		found, err := store.Exists(ctx, probe)
		if err != nil {
			t.Fatalf("exists(%q): %v", probe, err)
		}
		if !found {
			t.Fatalf("exists(%q) = false after create", probe)
		}
	}
}

func TestListByCategoryOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, w := range []string{"zebra", "apple", "mango"} {
		if _, err := store.Create(ctx, w, "-", "-"); err != nil {
			t.Fatalf("create %s: %v", w, err)
		}
	}

	words, err := store.ListByCategory(ctx, CategoryNew)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := make([]string, 0, len(words))
	for _, w := range words {
		got = append(got, w.Word)
	}
	// Insertion order by ascending id, not alphabetical.
	want := []string{"zebra", "apple", "mango"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("list order = %v, want %v", got, want)
		}
	}

	if _, err := store.ListByCategory(ctx, Category("bogus")); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("list bogus category: %v, want ErrInvalidCategory", err)
	}
}

func TestSetCategoryIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "river", "річка", "-")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.SetCategory(ctx, id, CategoryLearned); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := store.SetCategory(ctx, id, CategoryLearned); err != nil {
		t.Fatalf("second set: %v", err)
	}

	w, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if w.Category != CategoryLearned {
		t.Fatalf("category = %s, want learned", w.Category)
	}
	if w.Word != "river" || w.Translation != "річка" {
		t.Fatalf("record changed by repeated set: %+v", w)
	}
}

func TestSetCategoryNotFound(t *testing.T) {
	store := newTestStore(t)
	if err := store.SetCategory(context.Background(), 9999, CategoryKnown); !errors.Is(err, ErrNotFound) {
		t.Fatalf("set on missing id = %v, want ErrNotFound", err)
	}
}

func TestCountByCategory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ids := make([]int64, 0, 3)
	for _, w := range []string{"one", "two", "three"} {
		id, err := store.Create(ctx, w, "-", "-")
		if err != nil {
			t.Fatalf("create %s: %v", w, err)
		}
		ids = append(ids, id)
	}
	if err := store.SetCategory(ctx, ids[0], CategoryLearned); err != nil {
		t.Fatalf("set: %v", err)
	}

	counts, err := store.CountByCategory(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[CategoryNew] != 2 || counts[CategoryLearned] != 1 || counts[CategoryKnown] != 0 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.GetByID(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing = %v, want ErrNotFound", err)
	}
}

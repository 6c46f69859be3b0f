package review

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"lexibot/ingest"
	"lexibot/vocab"
)

// memStore is an in-memory Store with the same category semantics as the
// real one.
type memStore struct {
	mu       sync.Mutex
	words    []vocab.Word
	listErr  error
	setErr   error
	setCalls int
}

func (s *memStore) add(id int64, word string, category vocab.Category) {
	s.words = append(s.words, vocab.Word{
		ID:            id,
		Word:          word,
		Transcription: "-",
		Translation:   "-",
		Category:      category,
	})
}

func (s *memStore) ListByCategory(_ context.Context, category vocab.Category) ([]vocab.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []vocab.Word
	for _, w := range s.words {
		if w.Category == category {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *memStore) SetCategory(_ context.Context, id int64, category vocab.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls++
	if s.setErr != nil {
		return s.setErr
	}
	for i := range s.words {
		if s.words[i].ID == id {
			s.words[i].Category = category
			return nil
		}
	}
	return vocab.ErrNotFound
}

func (s *memStore) categoryOf(id int64) vocab.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.words {
		if w.ID == id {
			return w.Category
		}
	}
	return ""
}

type stubIngester struct {
	report ingest.Report
	texts  []string
}

func (s *stubIngester) Ingest(_ context.Context, text string) ingest.Report {
	s.texts = append(s.texts, text)
	return s.report
}

func newTestManager(store *memStore, opts Options) *Manager {
	return NewManager(store, &stubIngester{}, opts)
}

func TestStartReviewEmptyCategory(t *testing.T) {
	store := &memStore{}
	m := newTestManager(store, Options{})
	ctx := context.Background()

	d := m.Handle(ctx, 1, StartReview{Category: vocab.CategoryNew})
	empty, ok := d.(ShowEmptyList)
	if !ok {
		t.Fatalf("directive = %T, want ShowEmptyList", d)
	}
	if empty.Category != vocab.CategoryNew {
		t.Fatalf("category = %s", empty.Category)
	}
	if m.Mode(1) != ModeIdle {
		t.Fatal("empty start must not leave the session reviewing")
	}
}

func TestStartReviewShowsFirstWord(t *testing.T) {
	store := &memStore{}
	store.add(1, "fox", vocab.CategoryNew)
	store.add(2, "owl", vocab.CategoryNew)
	m := newTestManager(store, Options{})

	d := m.Handle(context.Background(), 1, StartReview{Category: vocab.CategoryNew})
	card, ok := d.(ShowWord)
	if !ok {
		t.Fatalf("directive = %T, want ShowWord", d)
	}
	if card.Word.Word != "fox" || card.Position != 1 || card.Total != 2 {
		t.Fatalf("card = %+v", card)
	}
	if m.Mode(1) != ModeReviewing {
		t.Fatal("mode not reviewing")
	}
}

func TestStartReviewStoreFailure(t *testing.T) {
	store := &memStore{listErr: errors.New("db gone")}
	m := newTestManager(store, Options{})

	d := m.Handle(context.Background(), 1, StartReview{Category: vocab.CategoryNew})
	warn, ok := d.(ShowWarning)
	if !ok {
		t.Fatalf("directive = %T, want ShowWarning", d)
	}
	if warn.Message != msgStoreIssue {
		t.Fatalf("message = %q", warn.Message)
	}
	if m.Mode(1) != ModeIdle {
		t.Fatal("failed start must leave the session idle")
	}
}

func TestAdvanceMarksAndFinishes(t *testing.T) {
	store := &memStore{}
	store.add(1, "fox", vocab.CategoryNew)
	store.add(2, "owl", vocab.CategoryNew)
	store.add(3, "elk", vocab.CategoryNew)
	m := newTestManager(store, Options{})
	ctx := context.Background()

	m.Handle(ctx, 1, StartReview{Category: vocab.CategoryNew})

	d := m.Handle(ctx, 1, Advance{Mark: MarkLearned})
	if card, ok := d.(ShowWord); !ok || card.Word.Word != "owl" || card.Position != 2 {
		t.Fatalf("after first mark: %#v", d)
	}

	d = m.Handle(ctx, 1, Advance{Mark: MarkKnown})
	if card, ok := d.(ShowWord); !ok || card.Word.Word != "elk" || card.Position != 3 {
		t.Fatalf("after second mark: %#v", d)
	}

	d = m.Handle(ctx, 1, Advance{Mark: MarkSkip})
	summary, ok := d.(ShowSessionSummary)
	if !ok {
		t.Fatalf("directive = %T, want ShowSessionSummary", d)
	}
	if summary.Learned != 1 || summary.Known != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	if got := store.categoryOf(1); got != vocab.CategoryLearned {
		t.Fatalf("fox category = %s", got)
	}
	if got := store.categoryOf(2); got != vocab.CategoryKnown {
		t.Fatalf("owl category = %s", got)
	}
	// Skip passes judgement on nothing.
	if got := store.categoryOf(3); got != vocab.CategoryNew {
		t.Fatalf("elk category = %s", got)
	}
	if m.Mode(1) != ModeIdle {
		t.Fatal("finished session not idle")
	}
}

func TestAdvanceAfterExhaustionIsStale(t *testing.T) {
	store := &memStore{}
	store.add(1, "fox", vocab.CategoryNew)
	m := newTestManager(store, Options{})
	ctx := context.Background()

	m.Handle(ctx, 1, StartReview{Category: vocab.CategoryNew})
	if _, ok := m.Handle(ctx, 1, Advance{Mark: MarkSkip}).(ShowSessionSummary); !ok {
		t.Fatal("single-word queue did not finish")
	}

	calls := store.setCalls
	d := m.Handle(ctx, 1, Advance{Mark: MarkLearned})
	warn, ok := d.(ShowWarning)
	if !ok {
		t.Fatalf("directive = %T, want ShowWarning", d)
	}
	if warn.Message != msgStaleAction {
		t.Fatalf("message = %q", warn.Message)
	}
	if store.setCalls != calls {
		t.Fatal("stale press mutated the store")
	}
}

func TestReturnToMenuDiscardsSession(t *testing.T) {
	store := &memStore{}
	store.add(1, "fox", vocab.CategoryNew)
	store.add(2, "owl", vocab.CategoryNew)
	m := newTestManager(store, Options{})
	ctx := context.Background()

	m.Handle(ctx, 1, StartReview{Category: vocab.CategoryNew})
	m.Handle(ctx, 1, Advance{Mark: MarkLearned})

	if _, ok := m.Handle(ctx, 1, ReturnToMenu{}).(ShowMenu); !ok {
		t.Fatal("back did not show the menu")
	}
	if m.Mode(1) != ModeIdle {
		t.Fatal("back did not reset the session")
	}

	// A fresh review starts from the top, without the abandoned tallies.
	d := m.Handle(ctx, 1, StartReview{Category: vocab.CategoryNew})
	card, ok := d.(ShowWord)
	if !ok || card.Position != 1 {
		t.Fatalf("restart: %#v", d)
	}
}

func TestTextEntryFlow(t *testing.T) {
	store := &memStore{}
	ing := &stubIngester{report: ingest.Report{Added: 2, Skipped: 1}}
	m := NewManager(store, ing, Options{})
	ctx := context.Background()

	if _, ok := m.Handle(ctx, 1, BeginTextEntry{}).(ShowTextPrompt); !ok {
		t.Fatal("begin did not prompt for text")
	}
	if !m.AwaitingText(1) {
		t.Fatal("session not awaiting text")
	}

	d := m.Handle(ctx, 1, TextReceived{Text: "some words here"})
	result, ok := d.(ShowIngestResult)
	if !ok {
		t.Fatalf("directive = %T, want ShowIngestResult", d)
	}
	if result.Added != 2 || result.Skipped != 1 || result.Empty {
		t.Fatalf("result = %+v", result)
	}
	if len(ing.texts) != 1 || ing.texts[0] != "some words here" {
		t.Fatalf("ingester got %v", ing.texts)
	}
	if m.AwaitingText(1) {
		t.Fatal("session still awaiting text after submission")
	}
}

func TestTextIgnoredWhenNotAwaiting(t *testing.T) {
	store := &memStore{}
	ing := &stubIngester{}
	m := NewManager(store, ing, Options{})

	if d := m.Handle(context.Background(), 1, TextReceived{Text: "hello"}); d != nil {
		t.Fatalf("stray text produced %T", d)
	}
	if len(ing.texts) != 0 {
		t.Fatal("stray text reached the ingester")
	}
}

func TestBeginTextEntryWhileReviewing(t *testing.T) {
	store := &memStore{}
	store.add(1, "fox", vocab.CategoryNew)
	m := newTestManager(store, Options{})
	ctx := context.Background()

	m.Handle(ctx, 1, StartReview{Category: vocab.CategoryNew})
	d := m.Handle(ctx, 1, BeginTextEntry{})
	warn, ok := d.(ShowWarning)
	if !ok || warn.Message != msgBusy {
		t.Fatalf("directive = %#v, want busy warning", d)
	}
	// The review in progress is untouched.
	if m.Mode(1) != ModeReviewing {
		t.Fatal("review aborted by rejected event")
	}
}

func TestMarkTalliedEvenWhenStoreFails(t *testing.T) {
	store := &memStore{setErr: errors.New("write timeout")}
	store.add(1, "fox", vocab.CategoryNew)
	store.add(2, "owl", vocab.CategoryNew)
	m := newTestManager(store, Options{})
	ctx := context.Background()

	m.Handle(ctx, 1, StartReview{Category: vocab.CategoryNew})
	m.Handle(ctx, 1, Advance{Mark: MarkLearned})
	d := m.Handle(ctx, 1, Advance{Mark: MarkKnown})
	summary, ok := d.(ShowSessionSummary)
	if !ok {
		t.Fatalf("directive = %T, want ShowSessionSummary", d)
	}
	// Tallies reflect the user's answers, not storage success.
	if summary.Learned != 1 || summary.Known != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestUsersAreIndependent(t *testing.T) {
	store := &memStore{}
	store.add(1, "fox", vocab.CategoryNew)
	store.add(2, "owl", vocab.CategoryNew)
	m := newTestManager(store, Options{})
	ctx := context.Background()

	m.Handle(ctx, 1, StartReview{Category: vocab.CategoryNew})
	if _, ok := m.Handle(ctx, 2, BeginTextEntry{}).(ShowTextPrompt); !ok {
		t.Fatal("second user blocked by first user's review")
	}
	if m.Mode(1) != ModeReviewing || m.Mode(2) != ModeAwaitingText {
		t.Fatalf("modes = %v / %v", m.Mode(1), m.Mode(2))
	}
}

func TestRefreshQueueVariant(t *testing.T) {
	store := &memStore{}
	store.add(1, "fox", vocab.CategoryNew)
	store.add(2, "owl", vocab.CategoryNew)
	m := newTestManager(store, Options{RefreshQueue: true})
	ctx := context.Background()

	m.Handle(ctx, 1, StartReview{Category: vocab.CategoryNew})

	// Marking removes the word from the category, so the reloaded queue
	// shrinks and the cursor already points at the next word.
	d := m.Handle(ctx, 1, Advance{Mark: MarkLearned})
	card, ok := d.(ShowWord)
	if !ok {
		t.Fatalf("directive = %T, want ShowWord", d)
	}
	if card.Word.Word != "owl" || card.Position != 1 || card.Total != 1 {
		t.Fatalf("card = %+v", card)
	}

	d = m.Handle(ctx, 1, Advance{Mark: MarkLearned})
	summary, ok := d.(ShowSessionSummary)
	if !ok {
		t.Fatalf("directive = %T, want ShowSessionSummary", d)
	}
	if summary.Learned != 2 || summary.Known != 0 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestConcurrentAdvancesSerialized(t *testing.T) {
	const total = 5
	store := &memStore{}
	for i := int64(1); i <= total; i++ {
		store.add(i, "word", vocab.CategoryNew)
	}
	m := newTestManager(store, Options{})
	ctx := context.Background()

	m.Handle(ctx, 1, StartReview{Category: vocab.CategoryNew})

	var wg sync.WaitGroup
	directives := make([]Directive, total)
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			directives[i] = m.Handle(ctx, 1, Advance{Mark: MarkLearned})
		}(i)
	}
	wg.Wait()

	summaries := 0
	for _, d := range directives {
		if s, ok := d.(ShowSessionSummary); ok {
			summaries++
			if s.Learned != total {
				t.Fatalf("summary learned = %d, want %d", s.Learned, total)
			}
		}
	}
	if summaries != 1 {
		t.Fatalf("got %d summaries, want exactly 1", summaries)
	}
	if store.setCalls != total {
		t.Fatalf("store mutated %d times, want %d", store.setCalls, total)
	}
}

const scenarioSchema = `
CREATE TABLE words (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    word TEXT NOT NULL UNIQUE,
    transcription TEXT NOT NULL DEFAULT '-',
    translation TEXT NOT NULL DEFAULT '-',
    category TEXT NOT NULL DEFAULT 'new'
);
CREATE INDEX idx_words_category ON words (category);`

type fixedGateway struct{}

func (fixedGateway) Lookup(_ context.Context, word string) (string, string) {
	return "tr:" + word, "-"
}

// Full pass through the bot's core loop against a real store: submit
// text, review the new words, mark them all learned.
func TestReviewRoundTrip(t *testing.T) {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(scenarioSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	store := vocab.NewStore(db)
	svc := ingest.NewService(store, fixedGateway{})
	m := NewManager(store, svc, Options{})
	ctx := context.Background()

	m.Handle(ctx, 7, BeginTextEntry{})
	d := m.Handle(ctx, 7, TextReceived{Text: "The quick fox"})
	result, ok := d.(ShowIngestResult)
	if !ok {
		t.Fatalf("directive = %T, want ShowIngestResult", d)
	}
	if result.Added != 3 || result.Skipped != 0 {
		t.Fatalf("ingest result = %+v", result)
	}

	d = m.Handle(ctx, 7, StartReview{Category: vocab.CategoryNew})
	card, ok := d.(ShowWord)
	if !ok || card.Total != 3 {
		t.Fatalf("start: %#v", d)
	}

	var summary ShowSessionSummary
	for i := 0; i < 3; i++ {
		d = m.Handle(ctx, 7, Advance{Mark: MarkLearned})
		if s, ok := d.(ShowSessionSummary); ok {
			summary = s
			if i != 2 {
				t.Fatalf("summary after %d of 3 marks", i+1)
			}
		}
	}
	if summary.Learned != 3 || summary.Known != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	counts, err := store.CountByCategory(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[vocab.CategoryNew] != 0 || counts[vocab.CategoryLearned] != 3 {
		t.Fatalf("counts = %v", counts)
	}
}

package ingest

import (
	"context"
	"errors"
	"testing"

	"lexibot/vocab"
)

type fakeStore struct {
	words     map[string]bool
	existsErr error
	createErr error
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{words: make(map[string]bool)}
}

func (s *fakeStore) Exists(_ context.Context, word string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.words[word], nil
}

func (s *fakeStore) Create(_ context.Context, word, _, _ string) (int64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	if s.words[word] {
		return 0, vocab.ErrAlreadyExists
	}
	s.words[word] = true
	s.nextID++
	return s.nextID, nil
}

type fakeGateway struct {
	calls []string
}

func (g *fakeGateway) Lookup(_ context.Context, word string) (string, string) {
	g.calls = append(g.calls, word)
	return "переклад", "/" + word + "/"
}

func TestIngestAddsNewWords(t *testing.T) {
	store := newFakeStore()
	gw := &fakeGateway{}
	svc := NewService(store, gw)

	report := svc.Ingest(context.Background(), "The quick fox")
	if report.Added != 3 || report.Skipped != 0 {
		t.Fatalf("report = %+v, want 3 added", report)
	}
	for _, w := range []string{"the", "quick", "fox"} {
		if !store.words[w] {
			t.Fatalf("word %q not stored", w)
		}
	}
	if len(gw.calls) != 3 {
		t.Fatalf("lookup called %d times, want 3", len(gw.calls))
	}
}

func TestIngestIdempotent(t *testing.T) {
	store := newFakeStore()
	gw := &fakeGateway{}
	svc := NewService(store, gw)

	first := svc.Ingest(context.Background(), "apple banana")
	if first.Added != 2 {
		t.Fatalf("first run: %+v", first)
	}

	second := svc.Ingest(context.Background(), "apple banana")
	if second.Added != 0 || second.Skipped != 2 {
		t.Fatalf("second run = %+v, want all skipped", second)
	}
	// Existing words never reach the gateway a second time.
	if len(gw.calls) != 2 {
		t.Fatalf("lookup called %d times, want 2", len(gw.calls))
	}
}

func TestIngestEmptyText(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeGateway{})

	report := svc.Ingest(context.Background(), "12345 !!!")
	if !report.Empty() {
		t.Fatalf("report = %+v, want empty", report)
	}
	if len(store.words) != 0 {
		t.Fatalf("stored %d words from non-text input", len(store.words))
	}
}

func TestIngestStoreFailuresCountAsSkipped(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("disk full")
	svc := NewService(store, &fakeGateway{})

	report := svc.Ingest(context.Background(), "one two")
	if report.Added != 0 || report.Skipped != 2 {
		t.Fatalf("report = %+v, want 2 skipped", report)
	}
}

func TestIngestExistsCheckFailureSkipsWord(t *testing.T) {
	store := newFakeStore()
	store.existsErr = errors.New("connection reset")
	gw := &fakeGateway{}
	svc := NewService(store, gw)

	report := svc.Ingest(context.Background(), "word")
	if report.Added != 0 || report.Skipped != 1 {
		t.Fatalf("report = %+v, want 1 skipped", report)
	}
	if len(gw.calls) != 0 {
		t.Fatal("gateway consulted despite store failure")
	}
}

func TestIngestLosingCreateRaceIsSkipped(t *testing.T) {
	store := newFakeStore()
	store.words["fox"] = false // Exists says no...
	svc := NewService(store, &fakeGateway{})

	// ...but a concurrent ingestion wins the insert first.
	store.createErr = vocab.ErrAlreadyExists

	report := svc.Ingest(context.Background(), "fox")
	if report.Added != 0 || report.Skipped != 1 {
		t.Fatalf("report = %+v, want race counted as skipped", report)
	}
}

type capturingStore struct {
	fakeStore
	translations   map[string]string
	transcriptions map[string]string
}

func (s *capturingStore) Create(ctx context.Context, word, translation, transcription string) (int64, error) {
	id, err := s.fakeStore.Create(ctx, word, translation, transcription)
	if err == nil {
		s.translations[word] = translation
		s.transcriptions[word] = transcription
	}
	return id, err
}

type failingGateway struct{}

func (failingGateway) Lookup(context.Context, string) (string, string) {
	return "-", "-"
}

func TestIngestLookupDegradation(t *testing.T) {
	store := &capturingStore{
		fakeStore:      *newFakeStore(),
		translations:   make(map[string]string),
		transcriptions: make(map[string]string),
	}
	svc := NewService(store, failingGateway{})

	// Failed enrichment is not failed ingestion: the word is still added,
	// with the sentinel in both fields.
	report := svc.Ingest(context.Background(), "fox")
	if report.Added != 1 || report.Skipped != 0 {
		t.Fatalf("report = %+v, want 1 added", report)
	}
	if store.translations["fox"] != "-" || store.transcriptions["fox"] != "-" {
		t.Fatalf("stored fields = %q / %q, want sentinels",
			store.translations["fox"], store.transcriptions["fox"])
	}
}

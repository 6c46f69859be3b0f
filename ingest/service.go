package ingest

import (
	"context"
	"errors"
	"time"

	"lexibot/core/logger"
	"lexibot/vocab"
	"log/slog"
)

const component = "service.ingest"

// Store is the subset of the vocabulary store used by ingestion.
type Store interface {
	Exists(ctx context.Context, word string) (bool, error)
	Create(ctx context.Context, word, translation, transcription string) (int64, error)
}

// Gateway enriches a new word with translation and transcription.
type Gateway interface {
	Lookup(ctx context.Context, word string) (translation, transcription string)
}

// Report summarizes one ingestion run.
type Report struct {
	Added   int
	Skipped int
}

// Empty reports the "nothing found" outcome: no candidate words survived
// tokenization.
func (r Report) Empty() bool {
	return r.Added == 0 && r.Skipped == 0
}

// Service registers genuinely new vocabulary from free text.
type Service struct {
	store   Store
	gateway Gateway
}

// NewService wires the ingestion pipeline.
func NewService(store Store, gateway Gateway) *Service {
	return &Service{store: store, gateway: gateway}
}

// Ingest tokenizes text, filters out words already stored under any
// category, and creates the rest with looked-up translation and
// transcription. Enrichment failures degrade fields to the lookup
// sentinel but never fail the word; store failures (including a create
// race losing to a concurrent ingestion) count the word as skipped.
func (s *Service) Ingest(ctx context.Context, text string) Report {
	start := time.Now()
	tokens := Tokenize(text)

	var report Report
	for _, word := range tokens {
		known, err := s.store.Exists(ctx, word)
		if err != nil {
			logger.Warn(ctx, component, "ingest.exists_check.failed",
				slog.String("word", word),
				slog.String("err", err.Error()),
			)
			report.Skipped++
			continue
		}
		if known {
			report.Skipped++
			continue
		}

		translation, transcription := s.gateway.Lookup(ctx, word)
		if _, err := s.store.Create(ctx, word, translation, transcription); err != nil {
			if !errors.Is(err, vocab.ErrAlreadyExists) {
				logger.Warn(ctx, component, "ingest.create.failed",
					slog.String("word", word),
					slog.String("err", err.Error()),
				)
			}
			report.Skipped++
			continue
		}
		report.Added++
	}

	logger.Info(ctx, component, "ingest.done",
		slog.String("status", "ok"),
		slog.Int("count", len(tokens)),
		slog.Int("added", report.Added),
		slog.Int("skipped", report.Skipped),
		slog.Duration("duration", logger.Took(start)),
	)
	return report
}

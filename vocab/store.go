package vocab

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"lexibot/core/logger"
	"log/slog"
)

const component = "service.vocab"

// Store persists vocabulary words. All mutating operations are durable
// before they return; row-level atomicity relies on the UNIQUE constraint
// on the word column.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Create normalizes the word and inserts it with category "new".
// Returns ErrAlreadyExists when the word is already present (any case);
// when two concurrent creates race, exactly one wins and the other
// observes ErrAlreadyExists, never a duplicate row.
func (s *Store) Create(ctx context.Context, word, translation, transcription string) (int64, error) {
	key := NormalizeWord(word)
	if key == "" {
		return 0, ErrEmptyWord
	}

	query := s.db.Rebind(`
		INSERT INTO words (word, transcription, translation, category)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (word) DO NOTHING
		RETURNING id`)

	var id int64
	err := s.db.QueryRowxContext(ctx, query, key, transcription, translation, CategoryNew).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrAlreadyExists
	}
	if err != nil {
		return 0, fmt.Errorf("create word %q: %w", key, err)
	}

	logger.Debug(ctx, component, "word.created",
		slog.String("word", key),
		slog.Int64("word_id", id),
	)
	return id, nil
}

// Exists reports whether the normalized word is present under any category.
func (s *Store) Exists(ctx context.Context, word string) (bool, error) {
	key := NormalizeWord(word)
	if key == "" {
		return false, nil
	}
	query := s.db.Rebind(`SELECT EXISTS (SELECT 1 FROM words WHERE word = ?)`)
	var found bool
	if err := s.db.GetContext(ctx, &found, query, key); err != nil {
		return false, fmt.Errorf("word exists %q: %w", key, err)
	}
	return found, nil
}

// ListByCategory returns all words with the given category in insertion
// order (ascending id). The order is stable across calls absent writes.
func (s *Store) ListByCategory(ctx context.Context, category Category) ([]Word, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	query := s.db.Rebind(`
		SELECT id, word, transcription, translation, category
		FROM words
		WHERE category = ?
		ORDER BY id ASC`)
	var words []Word
	if err := s.db.SelectContext(ctx, &words, query, category); err != nil {
		return nil, fmt.Errorf("list words by category %s: %w", category, err)
	}
	return words, nil
}

// SetCategory updates the category of a word by id. Setting the category
// already held is a no-op success; an unknown id yields ErrNotFound.
func (s *Store) SetCategory(ctx context.Context, id int64, category Category) error {
	if !category.Valid() {
		return ErrInvalidCategory
	}
	query := s.db.Rebind(`UPDATE words SET category = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, category, id)
	if err != nil {
		return fmt.Errorf("set category of word %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set category of word %d: %w", id, err)
	}
	if affected == 0 {
		logger.Warn(ctx, component, "word.set_category.stale",
			slog.Int64("word_id", id),
			slog.String("category", string(category)),
		)
		return ErrNotFound
	}
	logger.Debug(ctx, component, "word.set_category",
		slog.Int64("word_id", id),
		slog.String("category", string(category)),
	)
	return nil
}

// GetByID fetches a single word record.
func (s *Store) GetByID(ctx context.Context, id int64) (Word, error) {
	query := s.db.Rebind(`
		SELECT id, word, transcription, translation, category
		FROM words
		WHERE id = ?`)
	var w Word
	err := s.db.GetContext(ctx, &w, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Word{}, ErrNotFound
	}
	if err != nil {
		return Word{}, fmt.Errorf("get word %d: %w", id, err)
	}
	return w, nil
}

// CountByCategory returns the number of stored words per category.
// Categories with no words are present with a zero count.
func (s *Store) CountByCategory(ctx context.Context) (map[Category]int, error) {
	rows, err := s.db.QueryxContext(ctx, `SELECT category, COUNT(*) FROM words GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("count words: %w", err)
	}
	defer rows.Close()

	counts := map[Category]int{
		CategoryNew:     0,
		CategoryLearned: 0,
		CategoryKnown:   0,
	}
	for rows.Next() {
		var (
			category Category
			n        int
		)
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("count words: %w", err)
		}
		counts[category] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count words: %w", err)
	}
	return counts, nil
}

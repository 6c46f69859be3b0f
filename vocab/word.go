package vocab

import "strings"

// Category is the mastery tag of a stored word.
type Category string

const (
	// CategoryNew marks words extracted from user text and not yet reviewed.
	CategoryNew Category = "new"
	// CategoryLearned marks words the user confirmed during a review.
	CategoryLearned Category = "learned"
	// CategoryKnown marks words the user no longer wants to see in reviews.
	CategoryKnown Category = "known"
)

// Valid reports whether c is one of the three known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryNew, CategoryLearned, CategoryKnown:
		return true
	}
	return false
}

// Word is a single vocabulary record.
type Word struct {
	ID            int64    `db:"id"`
	Word          string   `db:"word"`
	Transcription string   `db:"transcription"`
	Translation   string   `db:"translation"`
	Category      Category `db:"category"`
}

// NormalizeWord produces the canonical storage key for a word.
// Create and Exists must agree on this normalization.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

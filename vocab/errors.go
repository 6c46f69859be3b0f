package vocab

import "errors"

var (
	// ErrAlreadyExists reports a duplicate word on create. Expected and
	// non-fatal: ingestion surfaces it as a skip count.
	ErrAlreadyExists = errors.New("vocab: word already exists")
	// ErrNotFound reports a category update against an unknown id,
	// usually a stale review snapshot.
	ErrNotFound = errors.New("vocab: word not found")
	// ErrEmptyWord reports a create call with no word text after normalization.
	ErrEmptyWord = errors.New("vocab: empty word")
	// ErrInvalidCategory reports an unknown category value.
	ErrInvalidCategory = errors.New("vocab: invalid category")
)

package review

import "lexibot/vocab"

// Directive tells the presentation layer what to render next. A nil
// Directive means the event was ignored and nothing should be sent.
type Directive interface {
	isDirective()
}

// ShowMenu renders the main menu.
type ShowMenu struct{}

// ShowWord renders one review card with its position in the queue.
type ShowWord struct {
	Word     vocab.Word
	Position int
	Total    int
}

// ShowEmptyList reports that a category has nothing to review.
type ShowEmptyList struct {
	Category vocab.Category
}

// ShowSessionSummary reports the tallies of a naturally exhausted session.
type ShowSessionSummary struct {
	Learned int
	Known   int
}

// ShowTextPrompt asks the user to send the text to extract words from.
type ShowTextPrompt struct{}

// ShowIngestResult reports how an ingestion run went. Empty means no
// candidate words survived tokenization.
type ShowIngestResult struct {
	Added   int
	Skipped int
	Empty   bool
}

// ShowWarning renders a gentle reminder for out-of-place actions.
type ShowWarning struct {
	Message string
}

func (ShowMenu) isDirective()           {}
func (ShowWord) isDirective()           {}
func (ShowEmptyList) isDirective()      {}
func (ShowSessionSummary) isDirective() {}
func (ShowTextPrompt) isDirective()     {}
func (ShowIngestResult) isDirective()   {}
func (ShowWarning) isDirective()        {}

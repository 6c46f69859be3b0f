package review

import "lexibot/vocab"

// Mark is the judgement attached to an advance action.
type Mark int

const (
	// MarkSkip moves to the next word without changing its category.
	MarkSkip Mark = iota
	// MarkLearned records the current word as learned.
	MarkLearned
	// MarkKnown records the current word as known.
	MarkKnown
)

func (m Mark) String() string {
	switch m {
	case MarkLearned:
		return "learned"
	case MarkKnown:
		return "known"
	default:
		return "skip"
	}
}

// Event is the closed set of inputs a session accepts. Using a sealed
// interface instead of string tags forces every consumer through an
// exhaustive type switch.
type Event interface {
	isEvent()
}

// StartReview opens a review session over one category.
type StartReview struct {
	Category vocab.Category
}

// Advance judges the current word and moves the cursor forward.
type Advance struct {
	Mark Mark
}

// ReturnToMenu abandons the current flow from any state.
type ReturnToMenu struct{}

// BeginTextEntry asks the session to expect free text with new vocabulary.
type BeginTextEntry struct{}

// TextReceived carries the free text the user submitted.
type TextReceived struct {
	Text string
}

func (StartReview) isEvent()    {}
func (Advance) isEvent()        {}
func (ReturnToMenu) isEvent()   {}
func (BeginTextEntry) isEvent() {}
func (TextReceived) isEvent()   {}

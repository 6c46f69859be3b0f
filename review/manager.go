package review

import (
	"context"
	"errors"
	"sync"

	"lexibot/core/logger"
	"lexibot/ingest"
	"lexibot/vocab"
	"log/slog"
)

const component = "service.review"

// Warning texts for out-of-place actions.
const (
	msgStaleAction = "That review is already over. Pick an option from the menu."
	msgBusy        = "Finish or leave the current flow first."
	msgStoreIssue  = "Could not load your words right now, try again in a moment."
)

// Mode is the conversational state of one user.
type Mode int

const (
	// ModeIdle means no active flow; menu choices are accepted.
	ModeIdle Mode = iota
	// ModeAwaitingText means the next free-text message is vocabulary input.
	ModeAwaitingText
	// ModeReviewing means a review queue is in progress.
	ModeReviewing
)

// Store is the subset of the vocabulary store a session needs.
type Store interface {
	ListByCategory(ctx context.Context, category vocab.Category) ([]vocab.Word, error)
	SetCategory(ctx context.Context, id int64, category vocab.Category) error
}

// Ingester consumes submitted free text.
type Ingester interface {
	Ingest(ctx context.Context, text string) ingest.Report
}

// Options tune session behaviour.
type Options struct {
	// RefreshQueue reloads the queue from the store after every mark, so
	// category changes made elsewhere become visible mid-session. The
	// default keeps the snapshot captured at review start for
	// deterministic ordering.
	RefreshQueue bool
}

// session holds the per-user conversation state. The mutex is held for a
// whole transition, including store calls, so a double-pressed button is
// applied strictly in order and cannot skip a word or double-count.
type session struct {
	mu       sync.Mutex
	mode     Mode
	category vocab.Category
	queue    []vocab.Word
	cursor   int
	learned  int
	known    int
}

func (s *session) reset() {
	s.mode = ModeIdle
	s.category = ""
	s.queue = nil
	s.cursor = 0
	s.learned = 0
	s.known = 0
}

// Manager owns every user's session state and applies events against it.
// Sessions are ephemeral: a process restart loses them, and the user
// recovers by picking a menu option again.
type Manager struct {
	store    Store
	ingester Ingester
	opts     Options

	mu       sync.Mutex
	sessions map[int64]*session
}

// NewManager builds a session manager over the given store and ingester.
func NewManager(store Store, ingester Ingester, opts Options) *Manager {
	return &Manager{
		store:    store,
		ingester: ingester,
		opts:     opts,
		sessions: make(map[int64]*session),
	}
}

func (m *Manager) session(userID int64) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		s = &session{}
		m.sessions[userID] = s
	}
	return s
}

// Mode returns the current conversational mode of a user.
func (m *Manager) Mode(userID int64) Mode {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// AwaitingText reports whether the next free-text message from the user
// is vocabulary input. The text router uses this to decide whether a
// message belongs to the session at all.
func (m *Manager) AwaitingText(userID int64) bool {
	return m.Mode(userID) == ModeAwaitingText
}

// Handle applies one event to the user's session and returns the render
// directive, or nil when the event is ignored. Transitions for the same
// user are serialized; different users proceed independently. No failure
// inside a transition is fatal to the session.
func (m *Manager) Handle(ctx context.Context, userID int64, ev Event) Directive {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev := ev.(type) {
	case StartReview:
		return m.startReview(ctx, s, ev.Category)
	case Advance:
		return m.advance(ctx, s, ev.Mark)
	case ReturnToMenu:
		// Tallies are discarded on a manual back; a summary is only
		// reported at natural exhaustion.
		s.reset()
		return ShowMenu{}
	case BeginTextEntry:
		if s.mode != ModeIdle {
			return ShowWarning{Message: msgBusy}
		}
		s.mode = ModeAwaitingText
		return ShowTextPrompt{}
	case TextReceived:
		if s.mode != ModeAwaitingText {
			// A stray message must not be mistaken for vocabulary input.
			logger.Debug(ctx, component, "session.text.ignored",
				slog.Int64("user_id", userID),
			)
			return nil
		}
		report := m.ingester.Ingest(ctx, ev.Text)
		s.reset()
		return ShowIngestResult{
			Added:   report.Added,
			Skipped: report.Skipped,
			Empty:   report.Empty(),
		}
	default:
		return nil
	}
}

func (m *Manager) startReview(ctx context.Context, s *session, category vocab.Category) Directive {
	if s.mode != ModeIdle {
		return ShowWarning{Message: msgBusy}
	}

	queue, err := m.store.ListByCategory(ctx, category)
	if err != nil {
		logger.Warn(ctx, component, "session.start.load_failed",
			slog.String("category", string(category)),
			slog.String("err", err.Error()),
		)
		return ShowWarning{Message: msgStoreIssue}
	}
	if len(queue) == 0 {
		return ShowEmptyList{Category: category}
	}

	s.mode = ModeReviewing
	s.category = category
	s.queue = queue
	s.cursor = 0
	s.learned = 0
	s.known = 0

	logger.Info(ctx, component, "session.started",
		slog.String("status", "ok"),
		slog.String("category", string(category)),
		slog.Int("total", len(queue)),
	)
	return ShowWord{Word: queue[0], Position: 1, Total: len(queue)}
}

func (m *Manager) advance(ctx context.Context, s *session, mark Mark) Directive {
	if s.mode != ModeReviewing {
		// Stale button press after the queue was already exhausted.
		return ShowWarning{Message: msgStaleAction}
	}
	if s.cursor >= len(s.queue) {
		return ShowWarning{Message: msgStaleAction}
	}

	current := s.queue[s.cursor]
	marked := false
	switch mark {
	case MarkLearned:
		m.setCategory(ctx, current.ID, vocab.CategoryLearned)
		s.learned++
		marked = true
	case MarkKnown:
		m.setCategory(ctx, current.ID, vocab.CategoryKnown)
		s.known++
		marked = true
	case MarkSkip:
		// next without judgement, no store mutation
	}

	if marked && m.opts.RefreshQueue {
		// Refresh variant: the marked word leaves the category, so the
		// queue shrinks and the cursor already points at the next word.
		if queue, err := m.store.ListByCategory(ctx, s.category); err == nil {
			s.queue = queue
		} else {
			logger.Warn(ctx, component, "session.refresh_failed",
				slog.String("category", string(s.category)),
				slog.String("err", err.Error()),
			)
			s.cursor++
		}
	} else {
		s.cursor++
	}

	if s.cursor >= len(s.queue) {
		summary := ShowSessionSummary{Learned: s.learned, Known: s.known}
		logger.Info(ctx, component, "session.finished",
			slog.String("status", "ok"),
			slog.String("category", string(s.category)),
			slog.Int("learned", summary.Learned),
			slog.Int("known", summary.Known),
		)
		s.reset()
		return summary
	}
	return ShowWord{
		Word:     s.queue[s.cursor],
		Position: s.cursor + 1,
		Total:    len(s.queue),
	}
}

// setCategory persists a mark. Failures are logged and swallowed: a
// vanished row (stale snapshot) or a transient store error must not
// abort the transition.
func (m *Manager) setCategory(ctx context.Context, id int64, category vocab.Category) {
	err := m.store.SetCategory(ctx, id, category)
	if err == nil {
		return
	}
	if errors.Is(err, vocab.ErrNotFound) {
		logger.Warn(ctx, component, "session.mark.stale",
			slog.Int64("word_id", id),
			slog.String("category", string(category)),
		)
		return
	}
	logger.Warn(ctx, component, "session.mark.failed",
		slog.Int64("word_id", id),
		slog.String("category", string(category)),
		slog.String("err", err.Error()),
	)
}

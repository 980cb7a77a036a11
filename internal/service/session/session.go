package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/joonhok/docuguide/backend/internal/gateway"
	"github.com/joonhok/docuguide/backend/internal/model/chat"
	"github.com/joonhok/docuguide/backend/internal/model/document"
	eligservice "github.com/joonhok/docuguide/backend/internal/service/eligibility"
)

// Gateway is the slice of the inference client a session needs: the chat
// turn call, the best-effort suggestion fetch, and the eligibility ops its
// sibling checker dispatches to.
type Gateway interface {
	AskQuestion(ctx context.Context, docID string, docContext *document.AnalysisResult, messages []chat.Message) (*gateway.ChatAnswer, error)
	FetchSuggestions(ctx context.Context, docType string, limit int) ([]chat.Suggestion, error)
	eligservice.Gateway
}

var (
	// ErrEmptyQuestion rejects blank submits before any state changes.
	ErrEmptyQuestion = errors.New("question text is empty")
	// ErrBusy drops a submit while an answer is in flight; the attempt is
	// not queued.
	ErrBusy = errors.New("an answer is already in flight")
	// ErrClosed marks submits against a torn-down session.
	ErrClosed = errors.New("session is closed")
)

// state of the submit machine. A failed turn folds back into idle, leaving
// only the error flag behind.
type state int

const (
	stateIdle state = iota
	stateSending
)

// Session owns one conversation grounded in one analyzed document. All
// state mutations flow through its store; the message log is an accurate
// causal record where every assistant entry answers the user entry directly
// before it.
type Session struct {
	ID  string
	Doc *document.AnalysisResult

	// Eligibility shares the gateway but none of the chat state.
	Eligibility *eligservice.Checker

	store           *Store
	gw              Gateway
	log             *zap.Logger
	suggestionLimit int

	mu     sync.Mutex
	st     state
	closed bool
}

// New creates a session for doc and loads the initial suggestion set. The
// load is best-effort: on failure the session starts with no suggestions and
// no user-visible error.
func New(ctx context.Context, id string, doc *document.AnalysisResult, gw Gateway, suggestionLimit int, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		ID:              id,
		Doc:             doc,
		Eligibility:     eligservice.NewChecker(doc, gw, log),
		store:           NewStore(),
		gw:              gw,
		log:             log,
		suggestionLimit: suggestionLimit,
	}
	s.loadInitialSuggestions(ctx)
	return s
}

func (s *Session) loadInitialSuggestions(ctx context.Context) {
	suggestions, err := s.gw.FetchSuggestions(ctx, s.Doc.Extracted.DocType, s.suggestionLimit)
	if err != nil {
		// Cosmetic feature: degrade to an empty list, never surface the error.
		s.log.Warn("initial suggestion load failed",
			zap.String("session", s.ID),
			zap.Error(err))
		return
	}
	s.store.ReplaceSuggestions(suggestions)
}

// Snapshot returns the current observable state.
func (s *Session) Snapshot() Snapshot { return s.store.Snapshot() }

// Watch exposes the store's change signal for push surfaces.
func (s *Session) Watch() (<-chan struct{}, func()) { return s.store.Watch() }

// Submit runs one turn: append the user message, ask the backend with the
// full log as context, reconcile the answer into the store. At most one turn
// may be in flight; a submit during that window returns ErrBusy and changes
// nothing.
func (s *Session) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyQuestion
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.st == stateSending {
		s.mu.Unlock()
		return ErrBusy
	}
	s.st = stateSending
	s.mu.Unlock()

	// The previous answer's citations must never be shown next to a new
	// question, so they are cleared before the request goes out.
	s.store.SetError("")
	s.store.SetCitations(nil)
	s.store.AppendMessage(chat.Message{
		Role:      chat.RoleUser,
		Content:   text,
		Timestamp: time.Now().UTC(),
	})
	s.store.SetBusy(true)

	answer, err := s.gw.AskQuestion(ctx, s.Doc.ID, s.Doc, s.store.Snapshot().Messages)

	s.mu.Lock()
	if s.closed {
		// The surface is gone; drop the resolution instead of mutating a
		// dead session.
		s.mu.Unlock()
		return ErrClosed
	}
	s.st = stateIdle
	s.mu.Unlock()

	if err != nil {
		// No assistant message on failure: the full log is resent as
		// context on the next turn and a failed round-trip must not
		// pollute it.
		s.log.Warn("turn failed",
			zap.String("session", s.ID),
			zap.Error(err))
		s.store.SetError(errorText(err))
		s.store.SetBusy(false)
		return err
	}

	s.store.AppendMessage(chat.Message{
		Role:      chat.RoleAssistant,
		Content:   answer.Message,
		Timestamp: time.Now().UTC(),
	})
	s.store.ReplaceSuggestions(answer.Suggestions)
	s.store.SetCitations(answer.Sources)
	s.store.SetBusy(false)
	return nil
}

// Close tears the session down. In-flight work is abandoned: its eventual
// resolution is discarded by the closed check in Submit.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func errorText(err error) string {
	if gwErr, ok := gateway.AsError(err); ok {
		return gwErr.Detail
	}
	return err.Error()
}

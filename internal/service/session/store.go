package session

import (
	"sync"

	"github.com/joonhok/docuguide/backend/internal/model/chat"
)

// Snapshot is one observable state of a session. Slices are copies; a
// snapshot never changes after it is taken.
type Snapshot struct {
	Version     uint64            `json:"version"`
	Messages    []chat.Message    `json:"messages"`
	Suggestions []chat.Suggestion `json:"suggestions"`
	Citations   []chat.Citation   `json:"citations"`
	Busy        bool              `json:"busy"`
	Error       string            `json:"error,omitempty"`
}

// Store holds the mutable UI state of one session: the append-only message
// log, the current suggestion and citation sets and the transient busy/error
// flags. Operations are synchronous and total; messages are never removed or
// reordered, so the log length only grows.
type Store struct {
	mu          sync.Mutex
	version     uint64
	messages    []chat.Message
	suggestions []chat.Suggestion
	citations   []chat.Citation
	busy        bool
	errText     string

	watchers  map[int]chan struct{}
	nextWatch int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{watchers: make(map[int]chan struct{})}
}

// AppendMessage adds msg to the end of the log.
func (s *Store) AppendMessage(msg chat.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.bump()
	s.mu.Unlock()
}

// ReplaceSuggestions swaps the suggestion set wholesale.
func (s *Store) ReplaceSuggestions(list []chat.Suggestion) {
	s.mu.Lock()
	s.suggestions = append([]chat.Suggestion(nil), list...)
	s.bump()
	s.mu.Unlock()
}

// SetCitations replaces the citation set attached to the latest answer.
func (s *Store) SetCitations(list []chat.Citation) {
	s.mu.Lock()
	s.citations = append([]chat.Citation(nil), list...)
	s.bump()
	s.mu.Unlock()
}

// SetBusy flips the in-flight flag.
func (s *Store) SetBusy(busy bool) {
	s.mu.Lock()
	s.busy = busy
	s.bump()
	s.mu.Unlock()
}

// SetError sets the user-visible error text; empty clears it.
func (s *Store) SetError(text string) {
	s.mu.Lock()
	s.errText = text
	s.bump()
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Version:     s.version,
		Messages:    append([]chat.Message(nil), s.messages...),
		Suggestions: append([]chat.Suggestion(nil), s.suggestions...),
		Citations:   append([]chat.Citation(nil), s.citations...),
		Busy:        s.busy,
		Error:       s.errText,
	}
}

// Watch registers a change listener. The channel carries a coalesced signal
// after every mutation; cancel removes the listener.
func (s *Store) Watch() (<-chan struct{}, func()) {
	s.mu.Lock()
	id := s.nextWatch
	s.nextWatch++
	ch := make(chan struct{}, 1)
	s.watchers[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
	return ch, cancel
}

// bump increments the version and pokes watchers. Callers hold s.mu.
func (s *Store) bump() {
	s.version++
	for _, ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

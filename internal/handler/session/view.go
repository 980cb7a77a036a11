package session

import (
	"github.com/joonhok/docuguide/backend/internal/model/chat"
	citationservice "github.com/joonhok/docuguide/backend/internal/service/citation"
	sessionservice "github.com/joonhok/docuguide/backend/internal/service/session"
)

// View is the render-ready shape of a session snapshot: suggestions carry
// their display glyph and citations arrive with display text plus a resolved
// viewer target.
type View struct {
	SessionID   string           `json:"sessionId"`
	Version     uint64           `json:"version"`
	Messages    []chat.Message   `json:"messages"`
	Suggestions []SuggestionView `json:"suggestions"`
	Citations   []CitationView   `json:"citations"`
	Busy        bool             `json:"busy"`
	Error       string           `json:"error,omitempty"`
}

// SuggestionView pairs a suggestion with its category glyph.
type SuggestionView struct {
	Text     string        `json:"text"`
	Category chat.Category `json:"category"`
	Icon     string        `json:"icon"`
}

// CitationView is a citation prepared for list display and for the viewer.
type CitationView struct {
	Text        string                       `json:"text"`
	DisplayText string                       `json:"displayText"`
	Page        *int                         `json:"page,omitempty"`
	Field       string                       `json:"field,omitempty"`
	Viewer      citationservice.ViewerTarget `json:"viewer"`
}

// BuildView projects the session's current snapshot into a View.
func BuildView(sess *sessionservice.Session, resolver *citationservice.Resolver) View {
	snap := sess.Snapshot()

	suggestions := make([]SuggestionView, 0, len(snap.Suggestions))
	for _, s := range snap.Suggestions {
		suggestions = append(suggestions, SuggestionView{
			Text:     s.Text,
			Category: s.Category,
			Icon:     s.Category.Icon(),
		})
	}

	citations := make([]CitationView, 0, len(snap.Citations))
	for _, c := range snap.Citations {
		citations = append(citations, CitationView{
			Text:        c.Text,
			DisplayText: citationservice.DisplayText(c),
			Page:        c.Page,
			Field:       c.Field,
			Viewer:      resolver.Resolve(sess.Doc.ID, c),
		})
	}

	return View{
		SessionID:   sess.ID,
		Version:     snap.Version,
		Messages:    snap.Messages,
		Suggestions: suggestions,
		Citations:   citations,
		Busy:        snap.Busy,
		Error:       snap.Error,
	}
}

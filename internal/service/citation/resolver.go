package citation

import (
	"strings"

	"github.com/joonhok/docuguide/backend/internal/model/chat"
)

// displayLimit is the cutoff for citation text in list display.
const displayLimit = 120

// ViewerTarget tells the document viewer collaborator where to go for a
// citation. HasPage false means the citation has no navigable location and
// only its text can be shown. Text always carries the untruncated fragment.
type ViewerTarget struct {
	FileURL string `json:"fileUrl"`
	Page    int    `json:"page,omitempty"`
	HasPage bool   `json:"hasPage"`
	Text    string `json:"text"`
}

// Resolver maps answer citations onto viewer targets.
type Resolver struct {
	fileBaseURL string
}

// NewResolver builds a resolver serving document files under fileBaseURL.
func NewResolver(fileBaseURL string) *Resolver {
	return &Resolver{fileBaseURL: strings.TrimRight(strings.TrimSpace(fileBaseURL), "/")}
}

// Resolve produces the viewer target for a citation of the document named
// by docID. Pages are 1-based; zero or missing pages resolve to "no
// navigable location".
func (r *Resolver) Resolve(docID string, c chat.Citation) ViewerTarget {
	target := ViewerTarget{
		FileURL: r.fileBaseURL + "/" + docID,
		Text:    c.Text,
	}
	if c.Page != nil && *c.Page > 0 {
		target.Page = *c.Page
		target.HasPage = true
	}
	return target
}

// DisplayText shortens long citation text for list display. The limit is in
// runes so multi-byte Hangul counts the way the user sees it; the viewer
// target keeps the full text.
func DisplayText(c chat.Citation) string {
	runes := []rune(c.Text)
	if len(runes) <= displayLimit {
		return c.Text
	}
	return string(runes[:displayLimit]) + "…"
}

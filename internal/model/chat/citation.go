package chat

// Citation is a document fragment the backend claims supports an answer,
// optionally tied to a page of the source document. Citations belong to the
// most recent assistant message only.
type Citation struct {
	Text  string `json:"text"`
	Page  *int   `json:"page,omitempty"`
	Field string `json:"field,omitempty"`
}

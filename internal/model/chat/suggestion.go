package chat

// Category classifies a suggested question.
type Category string

const (
	CategoryDeadline Category = "deadline"
	CategoryAmount   Category = "amount"
	CategoryMethod   Category = "method"
	CategoryGeneral  Category = "general"
)

// Suggestion is a follow-up question offered to the user. The set shown on
// screen is replaced wholesale after each turn and at session start.
type Suggestion struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Icon returns the display glyph for a category. Categories the backend
// invents later fall back to the general glyph instead of rendering blank.
func (c Category) Icon() string {
	switch c {
	case CategoryDeadline:
		return "⏰"
	case CategoryAmount:
		return "💰"
	case CategoryMethod:
		return "📋"
	default:
		return "💡"
	}
}

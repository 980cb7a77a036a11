package document

// Known docType values produced by the analysis backend. The docType drives
// the initial suggestion fetch and selects which eligibility check a
// document supports.
const (
	TypeHousingApplicationNotice = "housing_application_notice"
	TypeJobSupportNotice         = "job_support_notice"
)

// ActionType classifies what the notice asks the recipient to do.
type ActionType string

const (
	ActionPay   ActionType = "pay"
	ActionApply ActionType = "apply"
	ActionCheck ActionType = "check"
	ActionNone  ActionType = "none"
)

// Action is one actionable item extracted from the notice.
type Action struct {
	Type     ActionType `json:"type"`
	Label    string     `json:"label"`
	Deadline string     `json:"deadline,omitempty"`
	Link     string     `json:"link,omitempty"`
}

// ExtractedFields are the key facts pulled out of the notice.
type ExtractedFields struct {
	DocType       string   `json:"docType"`
	Title         string   `json:"title,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
	Deadline      string   `json:"deadline,omitempty"`
	Authority     string   `json:"authority,omitempty"`
	ApplicantType string   `json:"applicantType,omitempty"`
}

// EvidenceItem points at the document text backing an extracted field.
type EvidenceItem struct {
	Field      string  `json:"field"`
	Text       string  `json:"text"`
	Page       *int    `json:"page,omitempty"`
	Confidence float64 `json:"confidence"`
}

// UncertaintyItem flags a field the extraction was not confident about.
type UncertaintyItem struct {
	Field      string  `json:"field"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// AnalysisResult is the full analysis of one uploaded notice. It is the
// immutable grounding context of a chat session: resent with every chat
// request so the inference backend can stay stateless, and never mutated by
// the chat flow.
type AnalysisResult struct {
	ID          string            `json:"id"`
	Summary     string            `json:"summary"`
	Actions     []Action          `json:"actions"`
	Extracted   ExtractedFields   `json:"extracted"`
	Evidence    []EvidenceItem    `json:"evidence"`
	Uncertainty []UncertaintyItem `json:"uncertainty"`
}

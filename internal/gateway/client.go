package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/joonhok/docuguide/backend/internal/model/chat"
	"github.com/joonhok/docuguide/backend/internal/model/document"
	"github.com/joonhok/docuguide/backend/internal/model/eligibility"
)

// DefaultBaseURL matches the local inference service in development.
const DefaultBaseURL = "http://localhost:8000"

// Client speaks the inference service's HTTP+JSON contract. It is the only
// component that issues network calls; every failure is normalized into an
// *Error and no call is retried automatically.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New builds a Client for baseURL. Trailing slashes are trimmed so path
// joins stay consistent; an empty baseURL falls back to the default.
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// BaseURL returns the normalized service base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// ChatAnswer is one resolved turn: the assistant message, the next
// suggestion set and the optional source citations backing the answer.
// Sources is part of the contract even though the backend omits it for
// answers without grounding.
type ChatAnswer struct {
	Message     string            `json:"message"`
	Suggestions []chat.Suggestion `json:"suggestions"`
	Confidence  float64           `json:"confidence"`
	Sources     []chat.Citation   `json:"sources,omitempty"`
}

type chatRequest struct {
	DocID      string                   `json:"doc_id"`
	DocContext *document.AnalysisResult `json:"doc_context"`
	Messages   []chat.Message           `json:"messages"`
}

// AnalyzeDocument uploads a notice and returns its analysis.
func (c *Client) AnalyzeDocument(ctx context.Context, filename string, file io.Reader) (*document.AnalysisResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create multipart form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analyze", &buf)
	if err != nil {
		return nil, fmt.Errorf("create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result document.AnalysisResult
	if err := c.do(req, "analyze", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AskQuestion sends the full message log together with the grounding
// context, keeping the backend stateless across turns.
func (c *Client) AskQuestion(ctx context.Context, docID string, docContext *document.AnalysisResult, messages []chat.Message) (*ChatAnswer, error) {
	payload := chatRequest{DocID: docID, DocContext: docContext, Messages: messages}
	var answer ChatAnswer
	if err := c.postJSON(ctx, "/api/chat", "chat", payload, &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}

// FetchSuggestions retrieves suggested questions for a document type. The
// call is best-effort from the product's point of view; the caller decides
// how to degrade on failure.
func (c *Client) FetchSuggestions(ctx context.Context, docType string, limit int) ([]chat.Suggestion, error) {
	endpoint := fmt.Sprintf("%s/api/chat/suggestions/%s?limit=%d", c.baseURL, url.PathEscape(docType), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create suggestions request: %w", err)
	}

	var suggestions []chat.Suggestion
	if err := c.do(req, "suggestions", &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// CheckHousingEligibility submits a housing profile for a verdict.
func (c *Client) CheckHousingEligibility(ctx context.Context, profile *eligibility.HousingProfile, doc *document.AnalysisResult) (*eligibility.HousingResult, error) {
	payload := struct {
		Profile *eligibility.HousingProfile `json:"profile"`
		Doc     *document.AnalysisResult    `json:"doc"`
	}{profile, doc}

	var result eligibility.HousingResult
	if err := c.postJSON(ctx, "/api/analyze/eligibility", "eligibility", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CheckJobSupportEligibility submits a job-support profile for a verdict.
// The request schema is disjoint from the housing one and doc-first on the
// wire, matching the service.
func (c *Client) CheckJobSupportEligibility(ctx context.Context, doc *document.AnalysisResult, profile *eligibility.JobSupportProfile) (*eligibility.JobSupportResult, error) {
	payload := struct {
		Doc     *document.AnalysisResult       `json:"doc"`
		Profile *eligibility.JobSupportProfile `json:"profile"`
	}{doc, profile}

	var result eligibility.JobSupportResult
	if err := c.postJSON(ctx, "/api/analyze/job-support-eligibility", "job-support-eligibility", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) postJSON(ctx context.Context, path, op string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, op, out)
}

// do executes the request and normalizes failures: a transport error (no
// response) and a decoded server error are distinct kinds. Non-2xx bodies
// are decoded as {detail} when possible.
func (c *Client) do(req *http.Request, op string, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("inference request failed",
			zap.String("op", op),
			zap.Error(err))
		return NewTransportError(op, err)
	}
	defer resp.Body.Close()

	c.log.Debug("inference response",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure struct {
			Detail string `json:"detail"`
		}
		if body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)); readErr == nil {
			_ = json.Unmarshal(body, &failure)
		}
		return NewServerError(resp.StatusCode, failure.Detail)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

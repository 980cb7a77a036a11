package eligibility

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/joonhok/docuguide/backend/internal/gateway"
	"github.com/joonhok/docuguide/backend/internal/model/document"
	"github.com/joonhok/docuguide/backend/internal/model/eligibility"
)

// Gateway is the slice of the inference client the checker dispatches to.
type Gateway interface {
	CheckHousingEligibility(ctx context.Context, profile *eligibility.HousingProfile, doc *document.AnalysisResult) (*eligibility.HousingResult, error)
	CheckJobSupportEligibility(ctx context.Context, doc *document.AnalysisResult, profile *eligibility.JobSupportProfile) (*eligibility.JobSupportResult, error)
}

var (
	// ErrCheckInFlight rejects a submit while a check is still running.
	// One verdict at a time; no last-write-wins races.
	ErrCheckInFlight = errors.New("an eligibility check is already in flight")
	// ErrWrongDocType guards the two disjoint request schemas: a profile
	// is only sent to the endpoint matching the document's extracted type.
	ErrWrongDocType = errors.New("document type does not support this eligibility check")
)

// Checker runs single-shot eligibility checks for one analyzed document. It
// shares the inference gateway with the chat session but none of its state:
// every submission is independent and only the latest verdict is kept.
type Checker struct {
	doc      *document.AnalysisResult
	gw       Gateway
	validate *validator.Validate
	log      *zap.Logger

	mu         sync.Mutex
	busy       bool
	housing    *eligibility.HousingResult
	jobSupport *eligibility.JobSupportResult
	errText    string
}

// NewChecker builds a checker bound to doc.
func NewChecker(doc *document.AnalysisResult, gw Gateway, log *zap.Logger) *Checker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Checker{
		doc:      doc,
		gw:       gw,
		validate: validator.New(),
		log:      log,
	}
}

// SubmitHousing checks a housing profile against the session's document.
func (c *Checker) SubmitHousing(ctx context.Context, profile *eligibility.HousingProfile) (*eligibility.HousingResult, error) {
	if c.doc.Extracted.DocType != document.TypeHousingApplicationNotice {
		return nil, ErrWrongDocType
	}
	if err := c.validate.Struct(profile); err != nil {
		return nil, fmt.Errorf("invalid housing profile: %w", err)
	}
	if err := c.begin(); err != nil {
		return nil, err
	}

	result, err := c.gw.CheckHousingEligibility(ctx, profile, c.doc)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if err != nil {
		c.errText = userMessage(err)
		return nil, err
	}
	c.housing = result
	c.jobSupport = nil
	c.errText = ""
	c.log.Info("housing eligibility resolved",
		zap.String("doc", c.doc.ID),
		zap.String("status", string(result.Status)))
	return result, nil
}

// SubmitJobSupport checks a job-support profile against the session's
// document.
func (c *Checker) SubmitJobSupport(ctx context.Context, profile *eligibility.JobSupportProfile) (*eligibility.JobSupportResult, error) {
	if c.doc.Extracted.DocType != document.TypeJobSupportNotice {
		return nil, ErrWrongDocType
	}
	if err := c.validate.Struct(profile); err != nil {
		return nil, fmt.Errorf("invalid job-support profile: %w", err)
	}
	if err := c.begin(); err != nil {
		return nil, err
	}

	result, err := c.gw.CheckJobSupportEligibility(ctx, c.doc, profile)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if err != nil {
		c.errText = userMessage(err)
		return nil, err
	}
	c.jobSupport = result
	c.housing = nil
	c.errText = ""
	c.log.Info("job-support eligibility resolved",
		zap.String("doc", c.doc.ID),
		zap.String("type", string(result.EligibleType)))
	return result, nil
}

// Reset clears the last verdict and error so the form can be submitted
// again. An in-flight check is unaffected.
func (c *Checker) Reset() {
	c.mu.Lock()
	c.housing = nil
	c.jobSupport = nil
	c.errText = ""
	c.mu.Unlock()
}

// LastHousing returns the most recent housing verdict, if any.
func (c *Checker) LastHousing() *eligibility.HousingResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.housing
}

// LastJobSupport returns the most recent job-support verdict, if any.
func (c *Checker) LastJobSupport() *eligibility.JobSupportResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jobSupport
}

// LastError returns the user-visible message of the last failed check.
func (c *Checker) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errText
}

func (c *Checker) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrCheckInFlight
	}
	c.busy = true
	return nil
}

func userMessage(err error) string {
	if gwErr, ok := gateway.AsError(err); ok {
		return gwErr.Detail
	}
	return err.Error()
}

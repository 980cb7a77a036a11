package document

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	sessionhandler "github.com/joonhok/docuguide/backend/internal/handler/session"
	docmodel "github.com/joonhok/docuguide/backend/internal/model/document"
	citationservice "github.com/joonhok/docuguide/backend/internal/service/citation"
	sessionservice "github.com/joonhok/docuguide/backend/internal/service/session"
)

// maxUploadBytes caps notice uploads at 20 MiB.
const maxUploadBytes = 20 << 20

// Analyzer is the slice of the inference client the upload flow needs.
type Analyzer interface {
	AnalyzeDocument(ctx context.Context, filename string, file io.Reader) (*docmodel.AnalysisResult, error)
}

// Handler accepts notice uploads and provisions chat sessions for them.
type Handler struct {
	analyzer Analyzer
	sessions *sessionservice.Registry
	resolver *citationservice.Resolver
	log      *zap.Logger
}

// New creates the document handler.
func New(analyzer Analyzer, sessions *sessionservice.Registry, resolver *citationservice.Resolver, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		analyzer: analyzer,
		sessions: sessions,
		resolver: resolver,
		log:      log,
	}
}

// RegisterRoutes registers document routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/documents", h.handleAnalyze)
}

type analyzeResponse struct {
	SessionID string                   `json:"sessionId"`
	Result    *docmodel.AnalysisResult `json:"result"`
	Session   sessionhandler.View      `json:"session"`
}

// handleAnalyze uploads the notice to the inference service and creates a
// session grounded in the analysis result.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	result, err := h.analyzer.AnalyzeDocument(r.Context(), header.Filename, file)
	if err != nil {
		h.log.Warn("document analysis failed", zap.String("file", header.Filename), zap.Error(err))
		respondGatewayError(w, err)
		return
	}

	sess := h.sessions.Create(r.Context(), result)
	respondJSON(w, http.StatusCreated, analyzeResponse{
		SessionID: sess.ID,
		Result:    result,
		Session:   sessionhandler.BuildView(sess, h.resolver),
	})
}

package document_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joonhok/docuguide/backend/internal/gateway"
	documenthandler "github.com/joonhok/docuguide/backend/internal/handler/document"
	sessionhandler "github.com/joonhok/docuguide/backend/internal/handler/session"
	"github.com/joonhok/docuguide/backend/internal/model/chat"
	"github.com/joonhok/docuguide/backend/internal/model/document"
	"github.com/joonhok/docuguide/backend/internal/model/eligibility"
	citationservice "github.com/joonhok/docuguide/backend/internal/service/citation"
	sessionservice "github.com/joonhok/docuguide/backend/internal/service/session"
)

type fakeAnalyzer struct {
	fn func(ctx context.Context, filename string, file io.Reader) (*document.AnalysisResult, error)
}

func (f *fakeAnalyzer) AnalyzeDocument(ctx context.Context, filename string, file io.Reader) (*document.AnalysisResult, error) {
	return f.fn(ctx, filename, file)
}

type stubGateway struct{}

func (stubGateway) AskQuestion(context.Context, string, *document.AnalysisResult, []chat.Message) (*gateway.ChatAnswer, error) {
	return &gateway.ChatAnswer{Message: "답변"}, nil
}

func (stubGateway) FetchSuggestions(context.Context, string, int) ([]chat.Suggestion, error) {
	return []chat.Suggestion{{Text: "어떻게 신청하나요?", Category: chat.CategoryMethod}}, nil
}

func (stubGateway) CheckHousingEligibility(context.Context, *eligibility.HousingProfile, *document.AnalysisResult) (*eligibility.HousingResult, error) {
	return &eligibility.HousingResult{Status: eligibility.StatusUnknown}, nil
}

func (stubGateway) CheckJobSupportEligibility(context.Context, *document.AnalysisResult, *eligibility.JobSupportProfile) (*eligibility.JobSupportResult, error) {
	return &eligibility.JobSupportResult{EligibleType: eligibility.JobSupportIneligible}, nil
}

func newUploadServer(t *testing.T, analyzer documenthandler.Analyzer) (*httptest.Server, *sessionservice.Registry) {
	t.Helper()
	reg := sessionservice.NewRegistry(stubGateway{}, time.Minute, 3, zap.NewNop())
	resolver := citationservice.NewResolver("http://localhost:8000/api/files")

	r := chi.NewRouter()
	documenthandler.New(analyzer, reg, resolver, zap.NewNop()).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, reg
}

func multipartBody(t *testing.T, filename, content string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestAnalyzeCreatesSession(t *testing.T) {
	analyzer := &fakeAnalyzer{
		fn: func(_ context.Context, filename string, file io.Reader) (*document.AnalysisResult, error) {
			require.Equal(t, "notice.pdf", filename)
			content, err := io.ReadAll(file)
			require.NoError(t, err)
			require.Equal(t, "pdf-bytes", string(content))

			return &document.AnalysisResult{
				ID:      "doc-1",
				Summary: "청년 매입임대주택 입주자 모집 공고",
				Extracted: document.ExtractedFields{
					DocType: document.TypeHousingApplicationNotice,
				},
			}, nil
		},
	}
	srv, reg := newUploadServer(t, analyzer)

	body, contentType := multipartBody(t, "notice.pdf", "pdf-bytes")
	resp, err := http.Post(srv.URL+"/documents", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var payload struct {
		SessionID string                   `json:"sessionId"`
		Result    *document.AnalysisResult `json:"result"`
		Session   sessionhandler.View      `json:"session"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.NotEmpty(t, payload.SessionID)
	require.Equal(t, "doc-1", payload.Result.ID)

	sess, ok := reg.Get(payload.SessionID)
	require.True(t, ok)
	require.Equal(t, "doc-1", sess.Doc.ID)

	// The fresh session already carries its seed suggestions.
	require.Len(t, payload.Session.Suggestions, 1)
	require.Equal(t, "📋", payload.Session.Suggestions[0].Icon)
	require.Empty(t, payload.Session.Messages)
}

func TestAnalyzeRequiresFileField(t *testing.T) {
	srv, _ := newUploadServer(t, &fakeAnalyzer{
		fn: func(context.Context, string, io.Reader) (*document.AnalysisResult, error) {
			t.Fatal("analyzer must not run without a file")
			return nil, nil
		},
	})

	resp, err := http.Post(srv.URL+"/documents", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeGatewayFailure(t *testing.T) {
	srv, _ := newUploadServer(t, &fakeAnalyzer{
		fn: func(context.Context, string, io.Reader) (*document.AnalysisResult, error) {
			return nil, gateway.NewServerError(http.StatusServiceUnavailable, "model overloaded")
		},
	})

	body, contentType := multipartBody(t, "notice.pdf", "pdf-bytes")
	resp, err := http.Post(srv.URL+"/documents", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, "model overloaded", payload["detail"])
}

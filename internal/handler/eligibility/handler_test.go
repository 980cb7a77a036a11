package eligibility_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joonhok/docuguide/backend/internal/gateway"
	eligibilityhandler "github.com/joonhok/docuguide/backend/internal/handler/eligibility"
	"github.com/joonhok/docuguide/backend/internal/model/chat"
	"github.com/joonhok/docuguide/backend/internal/model/document"
	eligmodel "github.com/joonhok/docuguide/backend/internal/model/eligibility"
	sessionservice "github.com/joonhok/docuguide/backend/internal/service/session"
)

type stubGateway struct {
	housingFn func(ctx context.Context, profile *eligmodel.HousingProfile, doc *document.AnalysisResult) (*eligmodel.HousingResult, error)
}

func (s *stubGateway) AskQuestion(context.Context, string, *document.AnalysisResult, []chat.Message) (*gateway.ChatAnswer, error) {
	return &gateway.ChatAnswer{Message: "답변"}, nil
}

func (s *stubGateway) FetchSuggestions(context.Context, string, int) ([]chat.Suggestion, error) {
	return nil, nil
}

func (s *stubGateway) CheckHousingEligibility(ctx context.Context, profile *eligmodel.HousingProfile, doc *document.AnalysisResult) (*eligmodel.HousingResult, error) {
	if s.housingFn != nil {
		return s.housingFn(ctx, profile, doc)
	}
	return &eligmodel.HousingResult{Status: eligmodel.StatusUnknown}, nil
}

func (s *stubGateway) CheckJobSupportEligibility(context.Context, *document.AnalysisResult, *eligmodel.JobSupportProfile) (*eligmodel.JobSupportResult, error) {
	return &eligmodel.JobSupportResult{EligibleType: eligmodel.JobSupportIneligible}, nil
}

func newCheckServer(t *testing.T, gw *stubGateway, docType string) (*httptest.Server, *sessionservice.Session) {
	t.Helper()
	reg := sessionservice.NewRegistry(gw, time.Minute, 3, zap.NewNop())
	sess := reg.Create(context.Background(), &document.AnalysisResult{
		ID:        "doc-1",
		Extracted: document.ExtractedFields{DocType: docType},
	})

	r := chi.NewRouter()
	eligibilityhandler.New(reg, zap.NewNop()).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, sess
}

const validHousingBody = `{
	"is_seoul_resident": true,
	"household_type": "single",
	"income_level": "unknown"
}`

func TestHousingCheckReturnsVerdict(t *testing.T) {
	gw := &stubGateway{
		housingFn: func(_ context.Context, profile *eligmodel.HousingProfile, doc *document.AnalysisResult) (*eligmodel.HousingResult, error) {
			require.Equal(t, "unknown", profile.IncomeLevel)
			require.Equal(t, "doc-1", doc.ID)
			return &eligmodel.HousingResult{
				Status:        eligmodel.StatusUnknown,
				StatusMessage: "소득 정보가 없어 판정할 수 없습니다",
				Checklist:     []string{},
			}, nil
		},
	}
	srv, sess := newCheckServer(t, gw, document.TypeHousingApplicationNotice)

	resp, err := http.Post(srv.URL+"/sessions/"+sess.ID+"/eligibility", "application/json", strings.NewReader(validHousingBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result eligmodel.HousingResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Equal(t, eligmodel.StatusUnknown, result.Status)
	require.NotEmpty(t, result.StatusMessage)
}

func TestHousingCheckWrongDocType(t *testing.T) {
	srv, sess := newCheckServer(t, &stubGateway{}, document.TypeJobSupportNotice)

	resp, err := http.Post(srv.URL+"/sessions/"+sess.ID+"/eligibility", "application/json", strings.NewReader(validHousingBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestHousingCheckInvalidProfile(t *testing.T) {
	srv, sess := newCheckServer(t, &stubGateway{}, document.TypeHousingApplicationNotice)

	body := `{"is_seoul_resident": true, "household_type": "single", "income_level": "a_lot"}`
	resp, err := http.Post(srv.URL+"/sessions/"+sess.ID+"/eligibility", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestJobSupportCheckReturnsVerdict(t *testing.T) {
	srv, sess := newCheckServer(t, &stubGateway{}, document.TypeJobSupportNotice)

	body := `{"age": 25, "household_size": 1, "special_category": "none"}`
	resp, err := http.Post(srv.URL+"/sessions/"+sess.ID+"/job-support-eligibility", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result eligmodel.JobSupportResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Equal(t, eligmodel.JobSupportIneligible, result.EligibleType)
}

func TestResetClearsVerdict(t *testing.T) {
	srv, sess := newCheckServer(t, &stubGateway{}, document.TypeHousingApplicationNotice)

	resp, err := http.Post(srv.URL+"/sessions/"+sess.ID+"/eligibility", "application/json", strings.NewReader(validHousingBody))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, sess.Eligibility.LastHousing())

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/sessions/"+sess.ID+"/eligibility", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Nil(t, sess.Eligibility.LastHousing())
}

func TestCheckUnknownSession(t *testing.T) {
	srv, _ := newCheckServer(t, &stubGateway{}, document.TypeHousingApplicationNotice)

	resp, err := http.Post(srv.URL+"/sessions/missing/eligibility", "application/json", strings.NewReader(validHousingBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "session not found", body["detail"])
}

package eligibility

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/joonhok/docuguide/backend/internal/gateway"
	eligmodel "github.com/joonhok/docuguide/backend/internal/model/eligibility"
	eligservice "github.com/joonhok/docuguide/backend/internal/service/eligibility"
	sessionservice "github.com/joonhok/docuguide/backend/internal/service/session"
	"github.com/joonhok/docuguide/backend/pkg/utils"
)

// Handler exposes the single-shot eligibility checks. They live under the
// session path because each check is grounded in the session's document, but
// they never touch the chat log.
type Handler struct {
	sessions *sessionservice.Registry
	log      *zap.Logger
}

// New creates the eligibility handler.
func New(sessions *sessionservice.Registry, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{sessions: sessions, log: log}
}

// RegisterRoutes registers eligibility routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions/{sessionID}/eligibility", h.handleHousing)
	r.Post("/sessions/{sessionID}/job-support-eligibility", h.handleJobSupport)
	r.Delete("/sessions/{sessionID}/eligibility", h.handleReset)
}

func (h *Handler) handleHousing(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	var profile eligmodel.HousingProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := sess.Eligibility.SubmitHousing(r.Context(), &profile)
	if err != nil {
		h.respondCheckError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleJobSupport(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	var profile eligmodel.JobSupportProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := sess.Eligibility.SubmitJobSupport(r.Context(), &profile)
	if err != nil {
		h.respondCheckError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	sess.Eligibility.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondCheckError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, eligservice.ErrWrongDocType):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, eligservice.ErrCheckInFlight):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &verrs):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		if gwErr, ok := gateway.AsError(err); ok {
			utils.RespondError(w, http.StatusBadGateway, gwErr.Detail)
			return
		}
		h.log.Error("eligibility check failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "eligibility check failed")
	}
}

package document

import (
	"net/http"

	"github.com/joonhok/docuguide/backend/internal/gateway"
	"github.com/joonhok/docuguide/backend/pkg/utils"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	utils.RespondJSON(w, status, payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	utils.RespondError(w, status, message)
}

// respondGatewayError maps a normalized gateway failure onto this API:
// both kinds surface as 502 with the user-visible detail.
func respondGatewayError(w http.ResponseWriter, err error) {
	if gwErr, ok := gateway.AsError(err); ok {
		respondError(w, http.StatusBadGateway, gwErr.Detail)
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}

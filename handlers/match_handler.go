package handlers

import (
	"net/http"
	"strings"

	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/repositories"
	"github.com/Dosada05/school-tournament/services"
)

type MatchHandler struct {
	scheduler services.SchedulerService
}

func NewMatchHandler(scheduler services.SchedulerService) *MatchHandler {
	return &MatchHandler{scheduler: scheduler}
}

// ListMatches godoc
// @Summary List the matches of a tournament
// @Tags matches
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param type query string false "group or elimination"
// @Param modality_id query int false "Modality ID"
// @Param gender query string false "male or female"
// @Param phase query string false "round_of_16, quarterfinals, semifinals or final"
// @Success 200 {object} map[string]interface{} "matches"
// @Failure 400 {object} map[string]interface{} "InvalidParameters"
// @Failure 404 {object} map[string]interface{} "TournamentNotFound"
// @Router /tournaments/{tournamentID}/matches [get]
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	filter := repositories.MatchFilter{TournamentID: tournamentID}
	query := r.URL.Query()

	if filter.ModalityID, err = optionalIntQuery(r, "modality_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if raw := strings.TrimSpace(query.Get("type")); raw != "" {
		matchType := models.MatchType(strings.ToLower(raw))
		if matchType != models.MatchTypeGroup && matchType != models.MatchTypeElimination {
			errorResponse(w, r, http.StatusBadRequest, services.KindInvalidParameters, "type must be group or elimination")
			return
		}
		filter.Type = &matchType
	}
	if raw := query.Get("gender"); raw != "" {
		gender, err := models.ParseGender(raw)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		filter.Gender = &gender
	}
	if raw := query.Get("phase"); raw != "" {
		phase, err := models.ParsePhase(raw)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		filter.Phase = &phase
	}

	matches, err := h.scheduler.ListMatches(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

package handlers

import (
	"net/http"

	"github.com/Dosada05/school-tournament/services"
)

type ScheduleHandler struct {
	scheduler services.SchedulerService
}

func NewScheduleHandler(scheduler services.SchedulerService) *ScheduleHandler {
	return &ScheduleHandler{scheduler: scheduler}
}

// GenerateGroupSchedule godoc
// @Summary Generate the group-stage schedule
// @Tags schedule
// @Description Round-robins every group, orders matches for rest and merges all modalities and genders into slots over the registered venues.
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.GroupScheduleRequest false "Venue config and regeneration flags"
// @Success 201 {object} services.GroupScheduleResult
// @Failure 400 {object} map[string]interface{} "InvalidParameters"
// @Failure 404 {object} map[string]interface{} "TournamentNotFound"
// @Failure 409 {object} map[string]interface{} "ScheduleAlreadyExists / RegenerationNotConfirmed"
// @Failure 422 {object} map[string]interface{} "NoGroupsFound / NoVenuesConfigured / InsufficientTeams"
// @Failure 500 {object} map[string]interface{} "InternalInvariantFailure"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/schedule [post]
func (h *ScheduleHandler) GenerateGroupSchedule(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GroupScheduleRequest
	if err := readOptionalJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = tournamentID

	result, err := h.scheduler.GenerateGroupSchedule(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReorganizeEliminations godoc
// @Summary Reorganize elimination matches
// @Tags schedule
// @Description Recomputes order, venue and time of the existing elimination matches. Pairings and results are kept.
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.ReorganizeRequest false "Venue config"
// @Success 200 {object} services.ReorganizeResult
// @Failure 400 {object} map[string]interface{} "InvalidParameters"
// @Failure 404 {object} map[string]interface{} "TournamentNotFound"
// @Failure 422 {object} map[string]interface{} "NoVenuesConfigured"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/eliminations/reorganize [post]
func (h *ScheduleHandler) ReorganizeEliminations(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ReorganizeRequest
	if err := readOptionalJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = tournamentID

	result, err := h.scheduler.ReorganizeEliminations(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/services"
)

type BracketHandler struct {
	scheduler services.SchedulerService
}

func NewBracketHandler(scheduler services.SchedulerService) *BracketHandler {
	return &BracketHandler{scheduler: scheduler}
}

type nextPhaseInput struct {
	ModalityID int    `json:"modality_id"`
	Gender     string `json:"gender"`
	Phase      string `json:"phase,omitempty"`
}

func parseGender(raw string) (models.Gender, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("gender is required")
	}
	return models.ParseGender(raw)
}

// GenerateNextPhase godoc
// @Summary Generate the next elimination phase
// @Tags brackets
// @Description Creates the next knockout round of a modality and gender, seeded from group standings or from the winners of the previous round.
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body nextPhaseInput true "Scope and optional phase"
// @Success 201 {object} services.NextPhaseResult
// @Failure 400 {object} map[string]interface{} "InvalidParameters"
// @Failure 404 {object} map[string]interface{} "TournamentNotFound"
// @Failure 422 {object} map[string]interface{} "PreviousPhaseIncomplete / InsufficientTeams / InsufficientTeamsForPhase / NoNextPhase"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/eliminations/next [post]
func (h *BracketHandler) GenerateNextPhase(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input nextPhaseInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	gender, err := parseGender(input.Gender)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	req := services.NextPhaseRequest{TournamentID: tournamentID, ModalityID: input.ModalityID, Gender: gender}
	if input.Phase != "" {
		phase, err := models.ParsePhase(input.Phase)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		req.Phase = &phase
	}

	result, err := h.scheduler.GenerateNextPhase(r.Context(), req)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetEliminations godoc
// @Summary Delete the elimination bracket of a modality and gender
// @Tags brackets
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param modality_id query int true "Modality ID"
// @Param gender query string true "male or female"
// @Param confirm query bool false "Also delete played matches"
// @Success 200 {object} services.ResetResult
// @Failure 400 {object} map[string]interface{} "InvalidParameters"
// @Failure 409 {object} map[string]interface{} "RegenerationNotConfirmed"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/eliminations [delete]
func (h *BracketHandler) ResetEliminations(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	modalityID, err := optionalIntQuery(r, "modality_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if modalityID == nil {
		badRequestResponse(w, r, fmt.Errorf("modality_id is required"))
		return
	}
	gender, err := parseGender(r.URL.Query().Get("gender"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	confirm, err := boolQuery(r, "confirm")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.scheduler.ResetEliminations(r.Context(), services.ResetRequest{
		TournamentID:       tournamentID,
		ModalityID:         *modalityID,
		Gender:             gender,
		ConfirmDestructive: confirm,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

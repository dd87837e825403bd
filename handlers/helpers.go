package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Dosada05/school-tournament/services"
)

type jsonResponse map[string]interface{}

// errorBody is the envelope of every failed response.
type errorBody struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

const maxBodyBytes = 1_048_576 // 1MB

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBodyBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBodyBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // programmer error: dst is not a pointer
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

// readOptionalJSON is readJSON for endpoints whose body may be omitted.
func readOptionalJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return nil
	}
	return readJSON(w, r, dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func requestLogger(r *http.Request) *slog.Logger {
	return slog.Default().With(
		slog.String("request_id", chiMiddleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, kind, detail string) {
	env := jsonResponse{"error": errorBody{Kind: kind, Detail: detail}}
	if err := writeJSON(w, status, env, nil); err != nil {
		requestLogger(r).Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	requestLogger(r).Error("internal server error", slog.Any("error", err))
	errorResponse(w, r, http.StatusInternalServerError, services.KindInternal,
		"the server encountered a problem and could not process your request")
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, services.KindInvalidParameters, err.Error())
}

// mapServiceErrorToHTTP turns service errors into HTTP responses.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	kind := services.ErrorKind(err)
	switch kind {
	case services.KindInvalidParameters:
		errorResponse(w, r, http.StatusBadRequest, kind, err.Error())
	case services.KindTournamentNotFound:
		errorResponse(w, r, http.StatusNotFound, kind, err.Error())
	case services.KindScheduleAlreadyExists, services.KindRegenerationNotConfirmed:
		errorResponse(w, r, http.StatusConflict, kind, err.Error())
	case services.KindNoGroupsFound,
		services.KindNoVenuesConfigured,
		services.KindPreviousPhaseIncomplete,
		services.KindInsufficientTeams,
		services.KindInsufficientTeamsForPhase,
		services.KindNoNextPhase:
		errorResponse(w, r, http.StatusUnprocessableEntity, kind, err.Error())
	case services.KindInternalInvariantFailure:
		requestLogger(r).Error("scheduler invariant violated", slog.String("kind", kind), slog.Any("error", err))
		errorResponse(w, r, http.StatusInternalServerError, kind, "the scheduler could not converge; nothing was saved")
	default:
		serverErrorResponse(w, r, err)
	}
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, idStr)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s value: %d", paramName, id)
	}
	return id, nil
}

// optionalIntQuery returns nil when the parameter is absent.
func optionalIntQuery(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &v, nil
}

func boolQuery(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}
